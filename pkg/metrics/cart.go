package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart mutation outcomes.
type CartMetrics struct {
	adds              *prometheus.CounterVec
	supplierConflicts prometheus.Counter
	persistFailures   prometheus.Counter
	checkoutDuration  prometheus.Histogram
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	adds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	supplierConflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_supplier_conflicts_total",
		Help: "Adds rejected because the cart holds another supplier's items.",
	})
	persistFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Cart writes that failed to reach storage.",
	})
	checkoutDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(adds, supplierConflicts, persistFailures, checkoutDuration)
	return &CartMetrics{
		adds:              adds,
		supplierConflicts: supplierConflicts,
		persistFailures:   persistFailures,
		checkoutDuration:  checkoutDuration,
	}
}

// IncMutation increments the mutation counter for the named operation.
func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.adds == nil {
		return
	}
	c.adds.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncSupplierConflict increments the supplier conflict counter.
func (c *CartMetrics) IncSupplierConflict() {
	if c == nil || c.supplierConflicts == nil {
		return
	}
	c.supplierConflicts.Inc()
}

// IncPersistFailure increments the storage write failure counter.
func (c *CartMetrics) IncPersistFailure() {
	if c == nil || c.persistFailures == nil {
		return
	}
	c.persistFailures.Inc()
}

// ObserveCheckout records the duration of a checkout attempt.
func (c *CartMetrics) ObserveCheckout(duration time.Duration) {
	if c == nil || c.checkoutDuration == nil {
		return
	}
	c.checkoutDuration.Observe(duration.Seconds())
}

func normalizeLabel(op string) string {
	if op == "" {
		return "unknown"
	}
	return op
}
