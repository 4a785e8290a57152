package metadata

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK            = "ok"
	outcomeFallback      = "fallback"
	outcomeNotFound      = "not_found"
	outcomeUpstreamError = "upstream_error"
)

var metricRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "nowplaying",
	Name:      "requests_total",
	Help:      "Now playing requests by station and outcome.",
}, []string{"station", "outcome"})
