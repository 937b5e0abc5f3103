package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts handled requests per route pattern.
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "immo_http_requests_total",
			Help: "Handled HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "immo_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// calculationsTotal counts calculations and analyses by kind.
	calculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "immo_calculations_total",
			Help: "Calculations and analyses performed",
		},
		[]string{"kind"},
	)
)
