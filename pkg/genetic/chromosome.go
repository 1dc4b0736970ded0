// Package genetic implements the Chromosome and GA Driver components
// from spec.md §4.7–4.8 (C8, C9): a static genetic-algorithm optimizer
// that searches queue-policy gene vectors by running the simulator as
// its fitness function.
package genetic

import (
	"math/rand"

	"github.com/clustersim/simga/config"
	"github.com/clustersim/simga/pkg/common/types"
	"github.com/clustersim/simga/pkg/report"
)

// Chromosome is a fixed-length gene vector plus age, operator type,
// and an optionally cached fitness score (spec.md §4.7).
type Chromosome struct {
	Genes []float64
	Age   uint32
	Type  types.ChromosomeType

	fitness *float64
}

// New constructs a Chromosome from an owned copy of genes.
func New(genes []float64, typ types.ChromosomeType) *Chromosome {
	g := make([]float64, len(genes))
	copy(g, genes)
	return &Chromosome{Genes: g, Type: typ}
}

// Random constructs a Chromosome with geneCount standard-normal genes
// (spec.md §4.8 Initialization: "generate N random chromosomes").
func Random(rng *rand.Rand, geneCount int) *Chromosome {
	genes := make([]float64, geneCount)
	for i := range genes {
		genes[i] = rng.NormFloat64()
	}
	return &Chromosome{Genes: genes, Type: types.ChromosomeInitial}
}

// Fitness returns the cached fitness if present; otherwise it
// evaluates the chromosome against env, derives a scalar score
// (higher is better) from the run summary, caches it, and returns it
// (spec.md §4.7 "fitness()").
func (c *Chromosome) Fitness(env *Environment) (float64, error) {
	if c.fitness != nil {
		return *c.fitness, nil
	}
	summary, err := env.Evaluate(c.Genes)
	if err != nil {
		return 0, err
	}
	f := Score(summary)
	c.fitness = &f
	return f, nil
}

// CachedFitness returns the cached fitness and whether one is set,
// without triggering an evaluation.
func (c *Chromosome) CachedFitness() (float64, bool) {
	if c.fitness == nil {
		return 0, false
	}
	return *c.fitness, true
}

// SetFitness forces the cached fitness, bypassing evaluation. Used by
// the driver when loading a population blob with fitness already
// present (spec.md §6 "fitness: f64 if present").
func (c *Chromosome) SetFitness(f float64) { c.fitness = &f }

// IncreaseAge implements spec.md §4.7 "increase_age()".
func (c *Chromosome) IncreaseAge() { c.Age++ }

// Crossover produces an offspring by picking each gene uniformly from
// one of its two parents (spec.md §4.7 "crossover(a, b)"). Pure of
// global state: the only source of randomness is rng.
func Crossover(rng *rand.Rand, a, b *Chromosome) *Chromosome {
	genes := make([]float64, len(a.Genes))
	for i := range genes {
		if rng.Intn(2) == 0 {
			genes[i] = a.Genes[i]
		} else {
			genes[i] = b.Genes[i]
		}
	}
	return &Chromosome{Genes: genes, Type: types.ChromosomeCrossover}
}

// Mutate produces a copy of c with each gene independently perturbed
// by a standard-normal offset with probability rate (spec.md §4.7
// "mutate(rng)").
func Mutate(rng *rand.Rand, c *Chromosome, rate float64) *Chromosome {
	genes := make([]float64, len(c.Genes))
	copy(genes, c.Genes)
	for i := range genes {
		if rng.Float64() < rate {
			genes[i] += rng.NormFloat64()
		}
	}
	return &Chromosome{Genes: genes, Type: types.ChromosomeMutation}
}

// Score derives the fitness objective from a run summary: higher is
// better, so pending time and failures are both penalized (spec.md
// §4.7 "−(total_pending_duration + α·num_failed_jobs)").
func Score(s report.Summary) float64 {
	return -(float64(s.TotalPendingDurationMs) + config.UnsatisfiableJobPenalty*float64(s.NumFailedJobs))
}
