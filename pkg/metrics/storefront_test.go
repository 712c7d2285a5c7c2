package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCartOp(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewStorefrontMetrics(reg)

	m.ObserveCartOp("add_product", "applied")
	m.ObserveCartOp("add_product", "applied")
	m.ObserveCartOp("add_promotion", "rejected_insufficient_stock")
	m.ObserveCartOp("", "")

	if got := testutil.ToFloat64(m.cartOps.WithLabelValues("add_product", "applied")); got != 2 {
		t.Fatalf("expected 2 applied adds, got %v", got)
	}
	if got := testutil.ToFloat64(m.cartOps.WithLabelValues("unknown", "unknown")); got != 1 {
		t.Fatalf("expected empty labels normalized, got %v", got)
	}
}

func TestObserveCheckout(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewStorefrontMetrics(reg)

	m.ObserveCheckout("success", 120*time.Millisecond)
	m.ObserveCheckout("failure", time.Second)

	if got := testutil.ToFloat64(m.checkoutTotal.WithLabelValues("success")); got != 1 {
		t.Fatalf("expected 1 success, got %v", got)
	}
}

func TestNilReceiversAreSafe(t *testing.T) {
	t.Parallel()

	var m *StorefrontMetrics
	m.ObserveCartOp("add_product", "applied")
	m.ObserveCheckout("success", time.Second)

	empty := NewStorefrontMetrics(nil)
	empty.ObserveCartOp("add_product", "applied")
}
