package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		subscriptionsExpiringSoon,
		expiryRemindersTotal,
	)
}

var (
	subscriptionsExpiringSoon = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "subscriptions_expiring_soon",
			Help: "Active subscriptions inside the reminder window, as of the last scan.",
		},
	)

	expiryRemindersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "expiry_reminders_total",
			Help: "Renewal reminders handed to the notifier.",
		},
	)
)

func SetSubscriptionsExpiringSoon(n int) {
	subscriptionsExpiringSoon.Set(float64(n))
}

func IncExpiryReminders(n int) {
	expiryRemindersTotal.Add(float64(n))
}
