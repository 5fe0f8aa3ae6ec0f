package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(httpRequestsTotal)
}

var httpRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route pattern and status class.",
	},
	[]string{"route", "class"},
)

func IncHTTPRequest(route, class string) {
	httpRequestsTotal.WithLabelValues(norm(route), norm(class)).Inc()
}
