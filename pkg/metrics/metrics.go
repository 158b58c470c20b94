package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "machflow_http_requests_total",
			Help: "Toplam HTTP istek sayısı",
		},
		[]string{"method", "endpoint", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "machflow_http_request_duration_seconds",
			Help:    "HTTP istek süresi (saniye)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "machflow_store_operations_total",
			Help: "Toplam kalıcı depo operasyonu sayısı",
		},
		[]string{"operation", "key"},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "machflow_store_operation_duration_seconds",
			Help:    "Kalıcı depo operasyon süresi (saniye)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "key"},
	)

	ReconcileTicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "machflow_reconcile_ticks_total",
			Help: "Mutabakat döngüsü tur sayısı",
		},
	)

	ReconcileChangesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "machflow_reconcile_changes_total",
			Help: "Mutabakat sırasında tespit edilen değişiklik sayısı",
		},
	)

	OrdersIngestedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "machflow_orders_ingested_total",
			Help: "Kuyruktan işlenen sipariş sayısı",
		},
	)

	PendingUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "machflow_pending_users",
			Help: "Onay bekleyen kullanıcı sayısı",
		},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "machflow_cache_hits_total",
			Help: "Önbellek isabet sayısı",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "machflow_cache_misses_total",
			Help: "Önbellek isabet etmeme sayısı",
		},
	)
)

func RecordHttpRequest(method, endpoint, status string, duration time.Duration) {
	HttpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HttpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func RecordStoreOperation(operation, key string, duration time.Duration) {
	StoreOperationsTotal.WithLabelValues(operation, key).Inc()
	StoreOperationDuration.WithLabelValues(operation, key).Observe(duration.Seconds())
}

func RecordReconcileTick(changed bool) {
	ReconcileTicksTotal.Inc()
	if changed {
		ReconcileChangesTotal.Inc()
	}
}

func RecordOrderIngested() {
	OrdersIngestedTotal.Inc()
}

func UpdatePendingUsers(count int) {
	PendingUsers.Set(float64(count))
}

func RecordCacheHit() {
	CacheHits.Inc()
}

func RecordCacheMiss() {
	CacheMisses.Inc()
}
