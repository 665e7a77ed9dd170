package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMetricsHandler exposes the Prometheus registry the OTel exporter writes to
func NewMetricsHandler() http.Handler {
	return promhttp.Handler()
}
