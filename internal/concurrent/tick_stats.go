package concurrent

import (
	"sync"
	"sync/atomic"
	"time"
)

type ReconcileStats struct {
	Ticks         int64
	Changes       int64
	IngestBatches int64
	AvgTickTime   time.Duration
}

// TickStats aggregates reconciliation loop counters.
type TickStats struct {
	ticks         int64
	changes       int64
	ingestBatches int64
	totalTickTime int64
	timedTicks    int64
	mutex         sync.RWMutex
}

func NewTickStats() *TickStats {
	return &TickStats{}
}

func (ts *TickStats) IncrementTicks() {
	atomic.AddInt64(&ts.ticks, 1)
}

func (ts *TickStats) IncrementChanges() {
	atomic.AddInt64(&ts.changes, 1)
}

func (ts *TickStats) IncrementIngestBatches() {
	atomic.AddInt64(&ts.ingestBatches, 1)
}

func (ts *TickStats) RecordTickTime(d time.Duration) {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	ts.totalTickTime += d.Nanoseconds()
	ts.timedTicks++
}

func (ts *TickStats) GetStats() ReconcileStats {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()

	stats := ReconcileStats{
		Ticks:         atomic.LoadInt64(&ts.ticks),
		Changes:       atomic.LoadInt64(&ts.changes),
		IngestBatches: atomic.LoadInt64(&ts.ingestBatches),
	}

	if ts.timedTicks > 0 {
		stats.AvgTickTime = time.Duration(ts.totalTickTime / ts.timedTicks)
	}

	return stats
}

func (ts *TickStats) Reset() {
	atomic.StoreInt64(&ts.ticks, 0)
	atomic.StoreInt64(&ts.changes, 0)
	atomic.StoreInt64(&ts.ingestBatches, 0)

	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	ts.totalTickTime = 0
	ts.timedTicks = 0
}
