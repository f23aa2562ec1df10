package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"

	CouponApplied  = "applied"
	CouponRejected = "rejected"
)

// CartMetrics records cart mutations, coupon outcomes, persistence failures and catalog latency.
type CartMetrics struct {
	mutations           *prometheus.CounterVec
	coupons             *prometheus.CounterVec
	persistenceFailures *prometheus.CounterVec
	checkouts           prometheus.Counter
	lookupDuration      *prometheus.HistogramVec
}

// NewCartMetrics registers the cart metrics on the provided registerer. A nil registerer
// yields a recorder whose methods are no-ops.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Applied cart mutations by operation.",
	}, []string{"op"})
	coupons := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_coupon_attempts_total",
		Help: "Coupon applications by result.",
	}, []string{"result"})
	persistenceFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_persistence_failures_total",
		Help: "Failed cart reads and writes.",
	}, []string{"op"})
	checkouts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_checkouts_total",
		Help: "Completed simulated checkouts.",
	})
	lookupDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_lookup_duration_seconds",
		Help:    "Duration of product lookups in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	reg.MustRegister(mutations, coupons, persistenceFailures, checkouts, lookupDuration)
	return &CartMetrics{
		mutations:           mutations,
		coupons:             coupons,
		persistenceFailures: persistenceFailures,
		checkouts:           checkouts,
		lookupDuration:      lookupDuration,
	}
}

// IncMutation counts one applied mutation.
func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncCoupon counts a coupon attempt; result is CouponApplied or CouponRejected.
func (c *CartMetrics) IncCoupon(result string) {
	if c == nil || c.coupons == nil {
		return
	}
	c.coupons.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncPersistenceFailure counts a failed "save" or "load".
func (c *CartMetrics) IncPersistenceFailure(op string) {
	if c == nil || c.persistenceFailures == nil {
		return
	}
	c.persistenceFailures.WithLabelValues(normalizeLabel(op)).Inc()
}

func (c *CartMetrics) IncCheckout() {
	if c == nil || c.checkouts == nil {
		return
	}
	c.checkouts.Inc()
}

// ObserveLookup records how long a catalog lookup took.
func (c *CartMetrics) ObserveLookup(outcome string, duration time.Duration) {
	if c == nil || c.lookupDuration == nil {
		return
	}
	c.lookupDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
