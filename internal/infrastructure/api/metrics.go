// Metric definitions for the API client. This file is the single source of
// truth for metric names, labels, and help strings; the counters are cheap
// no-ops until a caller embeds the client in a process that scrapes the
// default registry.
package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "courier"

const (
	outcomeSuccess   = "success"
	outcomeHTTPError = "http_error"
	outcomeNetwork   = "network_error"
)

// requestsTotal counts completed API round trips.
// Labels:
//   - method: HTTP verb ("GET", "POST", "PATCH")
//   - outcome: "success", "http_error", or "network_error"
var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of backend API requests, by verb and outcome.",
	},
	[]string{"method", "outcome"},
)

// requestDuration measures the end-to-end duration of an API round trip,
// including the credential read performed by the auth transport.
var requestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of backend API requests from send to body read.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)
