package services

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var metricsRegistry = prometheus.NewRegistry()

var (
	foldersMaterialized = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vfx_pipeline_folders_materialized_total",
			Help: "Directories created or ensured by project materializations",
		},
		[]string{"kind"}, // flat, shot
	)

	projectsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vfx_pipeline_projects_created_total",
			Help: "Projects registered, by source",
		},
		[]string{"source"}, // create, create_shots, scan
	)

	scansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vfx_pipeline_scans_total",
			Help: "Discovery scans run, by result",
		},
		[]string{"result"}, // ok, error
	)

	toolLaunches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vfx_pipeline_tool_launches_total",
			Help: "Tool launch attempts, by result",
		},
		[]string{"result"}, // ok, not_found, error
	)

	projectsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vfx_pipeline_projects",
			Help: "Projects currently registered",
		},
	)

	sseClientsGauge = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "vfx_pipeline_sse_clients",
			Help: "Connected project event stream clients",
		},
		func() float64 { return float64(GetSSEHub().ClientCount()) },
	)
)

func init() {
	metricsRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		foldersMaterialized,
		projectsCreated,
		scansTotal,
		toolLaunches,
		projectsGauge,
		sseClientsGauge,
	)
}

// MetricsHandler serves the service's own registry in the Prometheus text format.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{Registry: metricsRegistry})
}

// SetProjectsGauge records the number of registered projects.
func SetProjectsGauge(n int64) {
	projectsGauge.Set(float64(n))
}
