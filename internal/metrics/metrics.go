// Package metrics exposes prometheus collectors for the HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carfinance_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "carfinance_http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"route"},
	)

	ImageResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carfinance_image_resolutions_total",
			Help: "Image URL resolutions by source",
		},
		[]string{"source"},
	)

	EmailShares = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carfinance_email_shares_total",
			Help: "Quote shares by delivery channel",
		},
		[]string{"channel"},
	)
)
