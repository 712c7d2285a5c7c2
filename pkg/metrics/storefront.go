package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records cart mutations and checkout outcomes.
type StorefrontMetrics struct {
	cartOps          *prometheus.CounterVec
	checkoutTotal    *prometheus.CounterVec
	checkoutDuration *prometheus.HistogramVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart mutations by operation and outcome.",
	}, []string{"operation", "outcome"})
	checkoutTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_total",
		Help: "Checkout attempts by result.",
	}, []string{"result"})
	checkoutDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})
	reg.MustRegister(cartOps, checkoutTotal, checkoutDuration)
	return &StorefrontMetrics{
		cartOps:          cartOps,
		checkoutTotal:    checkoutTotal,
		checkoutDuration: checkoutDuration,
	}
}

// ObserveCartOp counts one cart mutation.
func (m *StorefrontMetrics) ObserveCartOp(operation, outcome string) {
	if m == nil || m.cartOps == nil {
		return
	}
	m.cartOps.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Inc()
}

// ObserveCheckout records one checkout attempt with its duration.
func (m *StorefrontMetrics) ObserveCheckout(result string, duration time.Duration) {
	if m == nil || m.checkoutTotal == nil {
		return
	}
	label := normalizeLabel(result)
	m.checkoutTotal.WithLabelValues(label).Inc()
	m.checkoutDuration.WithLabelValues(label).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
