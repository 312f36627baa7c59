// File: internal/infra/metrics/metrics.go
package metrics

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	codesIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "codes_issued_total",
			Help: "Scan codes issued or reissued.",
		},
	)

	checkInsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "check_ins_total",
			Help: "Attendance records created.",
		},
	)

	billingSyncTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_sync_total",
			Help: "Billing sync attempts by terminal status (success/error).",
		},
		[]string{"status"},
	)

	ledgerSubmitLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_submit_latency_ms",
			Help:    "External ledger submission latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"provider", "success"},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			codesIssuedTotal, checkInsTotal,
			billingSyncTotal, ledgerSubmitLatencyMs,
		)
	})
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncCodeIssued() { codesIssuedTotal.Inc() }

func IncCheckIn() { checkInsTotal.Inc() }

func IncBillingSync(status string) {
	billingSyncTotal.WithLabelValues(norm(status)).Inc()
}

func ObserveLedgerSubmit(provider string, elapsed time.Duration, success bool) {
	ledgerSubmitLatencyMs.WithLabelValues(norm(provider), strconv.FormatBool(success)).
		Observe(float64(elapsed.Milliseconds()))
}
