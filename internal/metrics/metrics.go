// Package metrics Prometheus指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Total number of chat turns by outcome",
		},
		[]string{"outcome"},
	)

	WeatherLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_lookups_total",
			Help: "Total number of weather resolutions by data feature and result",
		},
		[]string{"feature", "result"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of outbound requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "path", "status"},
	)
)

// 指标标签取值
const (
	OutcomeWeather      = "weather"
	OutcomeDialog       = "dialog"
	OutcomeUnconfigured = "unconfigured"
	OutcomeError        = "error"

	ResultAsk       = "ask"
	ResultTell      = "tell"
	ResultDateError = "date_error"
	ResultError     = "error"

	ServiceConversation = "conversation"
	ServiceWeather      = "weather"
)
