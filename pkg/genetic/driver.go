package genetic

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/clustersim/simga/config"
	"github.com/clustersim/simga/pkg/genetic/store"
	"github.com/clustersim/simga/pkg/report"
	"github.com/clustersim/simga/pkg/simerrors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// Driver runs the generational loop from spec.md §4.8 (C9), evaluating
// fitness in parallel across a worker pool sized to the host's
// hardware concurrency (spec.md §5, mirroring the teacher's
// errgroup-bounded worker pools — _examples/armadaproject-armada's
// dependency on golang.org/x/sync/errgroup is exercised here since the
// teacher itself has no parallel-fitness analogue).
type Driver struct {
	cfg config.GAConfig
	env *Environment
	rng *rand.Rand
	log klog.Logger

	population []*Chromosome
	offspring  []*Chromosome

	recordDir string

	// Observer, if set, is called at the end of every generation with
	// the generation index, the best fitness and genes found so far,
	// and the current population size. pkg/monitor wires this to
	// publish a Status snapshot for its HTTP endpoints.
	Observer func(generation int, bestFitness float64, bestGenes []float64, populationSize int)
}

// NewDriver constructs a Driver bound to env. recordDir is where the
// population blob, best chromosome, epoch record and summary are
// persisted.
func NewDriver(cfg config.GAConfig, env *Environment, rng *rand.Rand, recordDir string, log klog.Logger) *Driver {
	return &Driver{cfg: cfg, env: env, rng: rng, recordDir: recordDir, log: log}
}

// Seed initializes the population, either from a loaded blob (which
// must contain exactly cfg.NumPopulationToKeep chromosomes of
// cfg.GeneCount genes, or IncompatiblePopulation is returned) or from
// cfg.NumPopulationToKeep random chromosomes, then evaluates the
// initial population and its first offspring generation (spec.md §4.8
// "Initialization").
func (d *Driver) Seed(initial []*Chromosome) error {
	if initial != nil {
		if len(initial) != d.cfg.NumPopulationToKeep {
			return &simerrors.IncompatiblePopulation{
				Reason: fmt.Sprintf("want %d chromosomes, got %d", d.cfg.NumPopulationToKeep, len(initial)),
			}
		}
		for _, c := range initial {
			if len(c.Genes) != d.cfg.GeneCount {
				return &simerrors.IncompatiblePopulation{
					Reason: fmt.Sprintf("want %d genes, got %d", d.cfg.GeneCount, len(c.Genes)),
				}
			}
		}
		d.population = initial
	} else {
		pop := make([]*Chromosome, d.cfg.NumPopulationToKeep)
		for i := range pop {
			pop[i] = Random(d.rng, d.cfg.GeneCount)
		}
		d.population = pop
	}

	d.evaluateAll(d.population)
	d.offspring = d.generateOffspring()
	d.evaluateAll(d.offspring)
	return nil
}

// Population returns the current population.
func (d *Driver) Population() []*Chromosome { return d.population }

// Best returns the highest-fitness member of the current population.
func (d *Driver) Best() *Chromosome {
	best := d.population[0]
	bf := fitnessOf(best)
	for _, c := range d.population[1:] {
		if f := fitnessOf(c); f > bf {
			best, bf = c, f
		}
	}
	return best
}

// Run executes iterations generations, persisting progress every
// cfg.SaveInterval generations and final artifacts once complete
// (spec.md §4.8 "After the final iteration").
func (d *Driver) Run(iterations int) error {
	for iter := 0; iter < iterations; iter++ {
		d.runGeneration(iter)

		if d.cfg.ConsoleOutput {
			d.log.Info("generation complete", "iter", iter, "best_fitness", fitnessOf(d.Best()))
		}

		if (iter+1)%d.cfg.SaveInterval == 0 {
			if err := d.persistPopulation(); err != nil {
				return err
			}
		}
	}
	return d.persistFinal()
}

// runGeneration performs one generation's worth of the loop in
// spec.md §4.8 steps 1-7.
func (d *Driver) runGeneration(iter int) {
	d.offspring = d.generateOffspring()
	d.evaluateAll(d.offspring)

	mutants := d.generateMutants(d.population, d.offspring)
	d.evaluateAll(mutants)

	d.population = SelectSurvivors(d.cfg.NumPopulationToKeep, d.population, d.offspring, mutants)

	for _, c := range d.population {
		c.IncreaseAge()
	}

	if err := report.AppendEpochRecord(d.recordDir, report.EpochRecord{
		Generation:  iter,
		BestFitness: fitnessOf(d.Best()),
		MeanFitness: d.meanFitness(),
	}); err != nil {
		d.log.Error(err, "failed to append epoch record", "iter", iter)
	}

	if d.Observer != nil {
		best := d.Best()
		d.Observer(iter, fitnessOf(best), best.Genes, len(d.population))
	}
}

func (d *Driver) generateOffspring() []*Chromosome {
	offspring := make([]*Chromosome, d.cfg.NumOffspring)
	for i := range offspring {
		p1 := d.tournamentSelect()
		p2 := d.tournamentSelect()
		offspring[i] = Crossover(d.rng, p1, p2)
	}
	return offspring
}

// tournamentSelect implements tournament-k=2 selection (spec.md §4.8
// step 1).
func (d *Driver) tournamentSelect() *Chromosome {
	a := d.population[d.rng.Intn(len(d.population))]
	b := d.population[d.rng.Intn(len(d.population))]
	if fitnessOf(a) >= fitnessOf(b) {
		return a
	}
	return b
}

// generateMutants independently mutates each member of the given
// pools with probability cfg.MutationRate (spec.md §4.8 step 3).
func (d *Driver) generateMutants(pools ...[]*Chromosome) []*Chromosome {
	var mutants []*Chromosome
	for _, pool := range pools {
		for _, c := range pool {
			if d.rng.Float64() < d.cfg.MutationRate {
				mutants = append(mutants, Mutate(d.rng, c, d.cfg.MutationRate))
			}
		}
	}
	return mutants
}

// evaluateAll computes fitness for every chromosome in pop concurrently
// on a worker pool sized to runtime.NumCPU() (spec.md §5). A worker
// that errors assigns its chromosome -Inf fitness rather than failing
// the generation, since one bad simulation run must not abort the
// whole GA search.
func (d *Driver) evaluateAll(pop []*Chromosome) {
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, c := range pop {
		c := c
		if _, ok := c.CachedFitness(); ok {
			continue
		}
		g.Go(func() error {
			if _, err := c.Fitness(d.env); err != nil {
				d.log.Error(err, "fitness evaluation failed")
				c.SetFitness(math.Inf(-1))
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (d *Driver) meanFitness() float64 {
	sum := 0.0
	for _, c := range d.population {
		sum += fitnessOf(c)
	}
	return sum / float64(len(d.population))
}

func fitnessOf(c *Chromosome) float64 {
	f, ok := c.CachedFitness()
	if !ok {
		return math.Inf(-1)
	}
	return f
}

// SelectSurvivors merges every chromosome across pools and keeps the
// top n by fitness, ties broken by lower age then by original
// insertion order (spec.md §4.8 step 5).
func SelectSurvivors(n int, pools ...[]*Chromosome) []*Chromosome {
	var all []*Chromosome
	for _, pool := range pools {
		all = append(all, pool...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		fi, fj := fitnessOf(all[i]), fitnessOf(all[j])
		if fi != fj {
			return fi > fj
		}
		return all[i].Age < all[j].Age
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}

func (d *Driver) persistPopulation() error {
	return d.savePopulationTo(filepath.Join(d.recordDir, config.LastPopulationFile), d.population)
}

func (d *Driver) persistFinal() error {
	if err := d.persistPopulation(); err != nil {
		return err
	}
	best := d.Best()
	if err := d.savePopulationTo(filepath.Join(d.recordDir, config.BestChromosomeFile), []*Chromosome{best}); err != nil {
		return err
	}
	summary, err := d.env.Evaluate(best.Genes)
	if err != nil {
		return err
	}
	return report.WriteSummary(d.recordDir, summary)
}

func (d *Driver) savePopulationTo(path string, pop []*Chromosome) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &simerrors.IOError{Path: path, Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return &simerrors.IOError{Path: path, Err: err}
	}
	defer f.Close()

	records := make([]store.ChromosomeRecord, len(pop))
	for i, c := range pop {
		fit, ok := c.CachedFitness()
		records[i] = store.ChromosomeRecord{
			Age: c.Age, Type: c.Type, FitnessPresent: ok, Fitness: fit, Genes: c.Genes,
		}
	}
	if err := store.Save(f, d.cfg.GeneCount, records); err != nil {
		return &simerrors.IOError{Path: path, Err: err}
	}
	return nil
}

// LoadPopulation reads a population blob and decodes it back into
// Chromosomes, without validating its size against any GAConfig — the
// caller (Driver.Seed) does that check so the error it returns names
// the expectation that failed.
func LoadPopulation(path string) ([]*Chromosome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &simerrors.IOError{Path: path, Err: err}
	}
	defer f.Close()

	_, records, err := store.Load(f)
	if err != nil {
		return nil, &simerrors.IOError{Path: path, Err: err}
	}

	pop := make([]*Chromosome, len(records))
	for i, r := range records {
		c := &Chromosome{Genes: r.Genes, Age: r.Age, Type: r.Type}
		if r.FitnessPresent {
			c.SetFitness(r.Fitness)
		}
		pop[i] = c
	}
	return pop, nil
}
