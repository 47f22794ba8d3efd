package statistics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "fan_control"

	MetricsEndpoint = "/metrics"
)

func Register(collector prometheus.Collector) {
	prometheus.MustRegister(collector)
}

// NewServer creates the http server exposing the metrics of gatherer
func NewServer(host string, port int, gatherer prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(MetricsEndpoint, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: mux,
	}
}
