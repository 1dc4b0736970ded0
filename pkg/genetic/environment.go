package genetic

import (
	"github.com/clustersim/simga/config"
	"github.com/clustersim/simga/pkg/cluster"
	"github.com/clustersim/simga/pkg/job"
	"github.com/clustersim/simga/pkg/queue"
	"github.com/clustersim/simga/pkg/queue/policy"
	"github.com/clustersim/simga/pkg/report"
	"github.com/clustersim/simga/pkg/scenario"
	"github.com/clustersim/simga/pkg/simulation"
	"k8s.io/klog/v2"
)

// HostSpec is the immutable blueprint for one cluster host, the
// genetic package's copy of a topology row so fitness workers never
// share a *cluster.Cluster (spec.md §5 "Shared resources").
type HostSpec struct {
	Name        string
	TotalSlots  int
	TotalMemory int64
	CPUFactor   float64
}

// Environment holds the immutable scenario and topology blueprints a
// Chromosome's fitness function runs against. Each call to Evaluate
// materializes a fresh Cluster and Scenario cursor, so concurrent
// fitness evaluations never share mutable state (spec.md §5).
type Environment struct {
	cfg     config.SimulationConfig
	entries []job.Entry
	hosts   []HostSpec
	log     klog.Logger
}

// NewEnvironment constructs an Environment from immutable blueprints.
func NewEnvironment(cfg config.SimulationConfig, entries []job.Entry, hosts []HostSpec, log klog.Logger) *Environment {
	e := make([]job.Entry, len(entries))
	copy(e, entries)
	h := make([]HostSpec, len(hosts))
	copy(h, hosts)
	return &Environment{cfg: cfg, entries: e, hosts: h, log: log}
}

// Evaluate decodes genes into a policy.Genetic, runs one complete
// simulation against a fresh Cluster/Scenario pair, and returns the
// run's summary statistics (spec.md §4.7 "fitness()").
func (env *Environment) Evaluate(genes []float64) (report.Summary, error) {
	clus := cluster.New()
	for _, h := range env.hosts {
		clus.AddHost(cluster.NewHost(h.Name, h.TotalSlots, h.TotalMemory, h.CPUFactor))
	}

	scn := scenario.New(append([]job.Entry(nil), env.entries...))
	q := queue.New("default", 0, policy.NewGenetic(genes))

	// File output is disabled during fitness evaluation: a GA run
	// evaluates thousands of chromosomes and none of their
	// intermediate simulations are reported individually.
	rec := report.New("", false, false, false)

	eng, err := simulation.New(env.cfg, scn, clus, []*queue.Queue{q}, job.NewCounter(), rec, env.log)
	if err != nil {
		return report.Summary{}, err
	}
	if err := eng.Run(); err != nil {
		return report.Summary{}, err
	}
	return eng.Summary(), nil
}
