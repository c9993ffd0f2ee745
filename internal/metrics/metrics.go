package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for Mutations.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeLock     = "lock_failed"
	OutcomeError    = "error"
)

// Ledger groups the point ledger's collectors. A nil *Ledger is valid and
// records nothing.
type Ledger struct {
	Mutations       *prometheus.CounterVec
	LockWait        prometheus.Histogram
	RegistryEntries prometheus.GaugeFunc
}

// NewLedger builds the collectors and registers them with reg. entries is
// sampled on scrape to report live lock registry size; it may be nil.
func NewLedger(reg prometheus.Registerer, entries func() int) *Ledger {
	if entries == nil {
		entries = func() int { return 0 }
	}

	m := &Ledger{
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pointledger",
				Name:      "mutations_total",
				Help:      "Charge and use calls by outcome.",
			},
			[]string{"type", "outcome"},
		),
		LockWait: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "pointledger",
				Name:      "lock_wait_seconds",
				Help:      "Time spent waiting for a user's lock.",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
		),
		RegistryEntries: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: "pointledger",
				Name:      "lock_registry_entries",
				Help:      "Users currently holding or waiting for a lock.",
			},
			func() float64 { return float64(entries()) },
		),
	}

	reg.MustRegister(m.Mutations, m.LockWait, m.RegistryEntries)

	return m
}

func (m *Ledger) ObserveMutation(txType, outcome string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(txType, outcome).Inc()
}

func (m *Ledger) ObserveLockWait(d time.Duration) {
	if m == nil {
		return
	}
	m.LockWait.Observe(d.Seconds())
}
