package service

import (
	"context"
	"fmt"
	"time"

	"machflow/internal/concurrent"
	"machflow/internal/domain"
	"machflow/pkg/cache"
	"machflow/pkg/logger"
	"machflow/pkg/metrics"
)

// Reconciler is the polling loop that keeps this process in sync with
// external writers of the shared store. Each tick ingests the pending order
// queue, then compares a fresh store snapshot of the users against the
// in-memory state using a deliberately coarse heuristic: the snapshot is
// adopted when the user count or the pending count differs. Same-size edits
// that keep the pending count are only picked up together with a later
// qualifying change.
type Reconciler struct {
	users       domain.UserRepository
	ingestion   domain.IngestionService
	dispatcher  *concurrent.Dispatcher
	cache       cache.Cache
	invalidator StatsInvalidator
	interval    time.Duration
	stats       *concurrent.TickStats
	logger      logger.Logger

	// lastPending tracks the pending count as of the last adopted snapshot.
	// Only the loop goroutine touches it.
	lastPending int
}

func NewReconciler(
	users domain.UserRepository,
	ingestion domain.IngestionService,
	dispatcher *concurrent.Dispatcher,
	c cache.Cache,
	invalidator StatsInvalidator,
	interval time.Duration,
	stats *concurrent.TickStats,
	logger logger.Logger,
) *Reconciler {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Reconciler{
		users:       users,
		ingestion:   ingestion,
		dispatcher:  dispatcher,
		cache:       c,
		invalidator: invalidator,
		interval:    interval,
		stats:       stats,
		logger:      logger,
	}
}

// Start launches the tick loop until the context is cancelled.
func (r *Reconciler) Start(ctx context.Context) {
	r.lastPending = r.users.PendingCount()

	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		r.logger.Info("Eşitleme döngüsü başlatıldı", map[string]interface{}{
			"interval": r.interval.String(),
		})

		for {
			select {
			case <-ctx.Done():
				r.logger.Info("Eşitleme döngüsü durduruldu", nil)
				return
			case <-ticker.C:
				if _, err := r.Tick(ctx); err != nil {
					r.logger.Error("Eşitleme turu başarısız", map[string]interface{}{
						"error": err.Error(),
					})
				}
			}
		}
	}()
}

// Tick runs one reconciliation round and reports whether anything changed.
func (r *Reconciler) Tick(ctx context.Context) (bool, error) {
	r.stats.IncrementTicks()
	start := time.Now()
	defer func() {
		r.stats.RecordTickTime(time.Since(start))
	}()

	ingestChanged, err := r.ingestion.Ingest(ctx)
	if err != nil {
		// A broken queue must not stop snapshot reconciliation.
		r.logger.Error("Sipariş kuyruğu işlenemedi", map[string]interface{}{"error": err.Error()})
		ingestChanged = false
	}
	if ingestChanged {
		r.stats.IncrementIngestBatches()
	}

	candidate, err := r.users.Snapshot()
	if err != nil {
		metrics.RecordReconcileTick(false)
		return false, fmt.Errorf("kullanıcı anlık görüntüsü okunamadı: %w", err)
	}

	candidatePending := 0
	for _, u := range candidate {
		if u.IsPending() {
			candidatePending++
		}
	}

	changed := len(candidate) != len(r.users.FindAll()) || candidatePending != r.lastPending
	isNewSignup := candidatePending > r.lastPending

	if changed {
		r.users.ReplaceAll(candidate)
		r.lastPending = candidatePending
		r.stats.IncrementChanges()

		if r.invalidator != nil {
			if err := r.invalidator.Invalidate(ctx); err != nil {
				r.logger.Warn("Önbellek temizlenemedi", map[string]interface{}{"error": err.Error()})
			}
		}

		if isNewSignup && r.dispatcher != nil {
			r.dispatcher.Notify(
				"New Partner Application!",
				fmt.Sprintf("You have %d pending approval(s).", candidatePending),
				domain.NotificationInfo,
			)
		}

		r.logger.Info("Dış değişiklik algılandı, anlık görüntü devralındı", map[string]interface{}{
			"users":   len(candidate),
			"pending": candidatePending,
		})
	}

	if changed || ingestChanged {
		r.broadcast(ctx, candidatePending)
	}

	metrics.RecordReconcileTick(changed)
	metrics.UpdatePendingUsers(r.users.PendingCount())

	return changed || ingestChanged, nil
}

func (r *Reconciler) broadcast(ctx context.Context, pendingCount int) {
	event := concurrent.Event{
		Type:         concurrent.EventRefresh,
		PendingCount: pendingCount,
	}

	if r.dispatcher != nil {
		r.dispatcher.Publish(event)
	}

	if r.cache != nil {
		if err := r.cache.Publish(ctx, cache.RefreshChannel, event); err != nil {
			r.logger.Warn("Yenileme olayı yayınlanamadı", map[string]interface{}{"error": err.Error()})
		}
	}
}

// Stats exposes loop counters for the diagnostics endpoint.
func (r *Reconciler) Stats() concurrent.ReconcileStats {
	return r.stats.GetStats()
}
