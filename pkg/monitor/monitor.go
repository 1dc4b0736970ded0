// Package monitor serves the GA driver's live progress over HTTP,
// generalizing the teacher's ResourceAllocator HTTP server
// (_examples/heyfey-vodascheduler's pkg/allocator resource_allocator.go)
// from a POST-driven Kubernetes resource-allocation API into a
// read-only run-status server for cmd/simgactl to poll.
package monitor

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/clustersim/simga/config"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"
)

const (
	statusEntryPoint = "/status"
	bestEntryPoint   = "/best"
)

// Status is a point-in-time snapshot of GA progress, safe to read
// concurrently with the driver's generational loop: the driver runs
// on its own goroutine and only ever publishes a fresh snapshot via
// Observe, never shares the live population (spec.md §5).
type Status struct {
	Generation     int       `json:"generation"`
	BestFitness    float64   `json:"best_fitness"`
	BestGenes      []float64 `json:"best_genes"`
	PopulationSize int       `json:"population_size"`
}

type metrics struct {
	generationGauge  prometheus.Gauge
	bestFitnessGauge prometheus.Gauge
}

func newMetrics(reg *prometheus.Registry) metrics {
	factory := promauto.With(reg)
	return metrics{
		generationGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name:      "ga_generation",
			Namespace: config.Namespace,
			Help:      "Current GA generation index.",
		}),
		bestFitnessGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name:      "ga_best_fitness",
			Namespace: config.Namespace,
			Help:      "Best fitness found so far in the current run.",
		}),
	}
}

// Monitor serves /status, /best and /metrics.
type Monitor struct {
	Router *mux.Router

	mu      sync.RWMutex
	status  Status
	metrics metrics
}

// New constructs a Monitor with its routes registered against a
// private prometheus registry, so multiple Monitors never collide on
// the global default registry.
func New() *Monitor {
	reg := prometheus.NewRegistry()
	m := &Monitor{
		Router:  mux.NewRouter(),
		metrics: newMetrics(reg),
	}
	m.initRoutes(reg)
	return m
}

func (m *Monitor) initRoutes(reg *prometheus.Registry) {
	m.Router.HandleFunc(statusEntryPoint, m.statusHandler()).Methods("GET")
	m.Router.HandleFunc(bestEntryPoint, m.bestHandler()).Methods("GET")
	m.Router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}

// Observe is the genetic.Driver per-generation callback: it publishes
// a new Status snapshot and updates the exported gauges.
func (m *Monitor) Observe(generation int, bestFitness float64, bestGenes []float64, populationSize int) {
	genes := make([]float64, len(bestGenes))
	copy(genes, bestGenes)

	m.mu.Lock()
	m.status = Status{
		Generation:     generation,
		BestFitness:    bestFitness,
		BestGenes:      genes,
		PopulationSize: populationSize,
	}
	m.mu.Unlock()

	m.metrics.generationGauge.Set(float64(generation))
	m.metrics.bestFitnessGauge.Set(bestFitness)
}

func (m *Monitor) snapshot() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) statusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		klog.V(4).InfoS("endpoint hit", "endpoint", statusEntryPoint)
		s := m.snapshot()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(struct {
			Generation     int `json:"generation"`
			PopulationSize int `json:"population_size"`
		}{s.Generation, s.PopulationSize})
	}
}

func (m *Monitor) bestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		klog.V(4).InfoS("endpoint hit", "endpoint", bestEntryPoint)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(m.snapshot())
	}
}
