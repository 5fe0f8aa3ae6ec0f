package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentsTotal,
		renewalsTotal,
		renewalRevenueTotal,
		renewalAmountCorrected,
	)
}

var (
	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Payment attempts by status (pending/succeeded/failed).",
		},
		[]string{"status"},
	)

	renewalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_renewals_total",
			Help: "Subscription renewals by plan.",
		},
		[]string{"plan"},
	)

	renewalRevenueTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscription_revenue_total",
			Help: "Total charged value of verified renewals, in currency units.",
		},
	)

	renewalAmountCorrected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "renewal_amount_corrected_total",
			Help: "Renewals whose caller-claimed amount was overridden by the pricing table.",
		},
	)
)

func IncPayment(status string) {
	paymentsTotal.WithLabelValues(norm(status)).Inc()
}

func IncRenewal(plan string) {
	renewalsTotal.WithLabelValues(norm(plan)).Inc()
}

func AddRevenue(amount int64) {
	renewalRevenueTotal.Add(float64(amount))
}

func IncRenewalAmountCorrected() {
	renewalAmountCorrected.Inc()
}
