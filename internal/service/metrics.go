package service

import "github.com/prometheus/client_golang/prometheus"

var (
	usageRecordsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_usage_records_total",
		Help: "Usage records appended to the ledger",
	})
	tokensTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_tokens_total",
		Help: "Tokens recorded across all usage records",
	})
	cascadeDeletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_cascade_deleted_usages_total",
		Help: "Usage records soft-deleted by llm cascade",
	})
	rejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_rejections_total",
		Help: "Domain rejections by operation and kind",
	}, []string{"op", "kind"})
)

func init() {
	prometheus.MustRegister(usageRecordsTotal, tokensTotal, cascadeDeletedTotal, rejectionsTotal)
}
