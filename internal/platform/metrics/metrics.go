// Package metrics exposes the Prometheus scrape endpoint for the service.
// Domain metrics register themselves on the default registry; this package
// only publishes them and stamps the running build.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var buildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "tt_automation_build_info",
	Help: "Build metadata of the running automation service",
}, []string{"version"})

// Handler returns the scrape handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// SetBuildInfo records the running version as a constant gauge.
func SetBuildInfo(version string) {
	if version == "" {
		version = "dev"
	}
	buildInfo.WithLabelValues(version).Set(1)
}
