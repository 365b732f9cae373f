package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	DistributionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "academia_distributions_total",
		Help: "Fee distributions applied to the ledger.",
	})
	PayoutsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "academia_payouts_total",
		Help: "Payout vouchers issued.",
	})
	ClosingsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "academia_day_closings_total",
		Help: "Day closings completed.",
	})
	ConflictRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "academia_conflict_retries_total",
		Help: "Balance operations retried after a write conflict.",
	})
)

func init() {
	prometheus.MustRegister(DistributionsTotal, PayoutsTotal, ClosingsTotal, ConflictRetries)
}
