// Package exporters serves the game metrics to Prometheus scrapers.
package exporters

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPHandler returns the Prometheus metrics HTTP handler.
// It serves every promauto-registered game and strip metric.
func HTTPHandler() http.Handler {
	return promhttp.Handler()
}
