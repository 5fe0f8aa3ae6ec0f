package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(referralsRecorded)
}

var referralsRecorded = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "referrals_recorded_total",
		Help: "Referral attributions created, by referee kind (agent/provider).",
	},
	[]string{"kind"},
)

func IncReferralRecorded(kind string) {
	referralsRecorded.WithLabelValues(norm(kind)).Inc()
}
