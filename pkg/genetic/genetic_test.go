package genetic

import (
	"math/rand"
	"testing"

	"github.com/clustersim/simga/config"
	"github.com/clustersim/simga/pkg/common/types"
	"github.com/clustersim/simga/pkg/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

func withFitness(genes []float64, fitness float64) *Chromosome {
	c := New(genes, types.ChromosomeInitial)
	c.SetFitness(fitness)
	return c
}

func fitnessesDesc(pop []*Chromosome) []float64 {
	out := make([]float64, len(pop))
	for i, c := range pop {
		f, _ := c.CachedFitness()
		out[i] = f
	}
	return out
}

func TestSelectSurvivorsKeepsTopNAcrossPools(t *testing.T) {
	population := []*Chromosome{
		withFitness([]float64{0}, 10),
		withFitness([]float64{0}, 7),
		withFitness([]float64{0}, 5),
		withFitness([]float64{0}, 1),
	}
	offspring := []*Chromosome{
		withFitness([]float64{0}, 12),
		withFitness([]float64{0}, 3),
	}
	mutants := []*Chromosome{
		withFitness([]float64{0}, 0),
		withFitness([]float64{0}, 15),
	}

	survivors := SelectSurvivors(4, population, offspring, mutants)
	require.Len(t, survivors, 4)
	assert.Equal(t, []float64{15, 12, 10, 7}, fitnessesDesc(survivors))
}

func TestSelectSurvivorsBreaksTiesByLowerAge(t *testing.T) {
	older := withFitness([]float64{0}, 5)
	older.Age = 3
	younger := withFitness([]float64{0}, 5)
	younger.Age = 0

	survivors := SelectSurvivors(1, []*Chromosome{older, younger})
	require.Len(t, survivors, 1)
	assert.Same(t, younger, survivors[0])
}

func TestCrossoverProducesGeneFromEitherParent(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := New([]float64{1, 1, 1}, types.ChromosomeInitial)
	b := New([]float64{2, 2, 2}, types.ChromosomeInitial)

	child := Crossover(rng, a, b)
	require.Len(t, child.Genes, 3)
	for _, g := range child.Genes {
		assert.Contains(t, []float64{1, 2}, g)
	}
	assert.Equal(t, types.ChromosomeCrossover, child.Type)
}

func TestMutateAtRateOnePerturbsEveryGene(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c := New([]float64{0, 0, 0}, types.ChromosomeInitial)

	mutant := Mutate(rng, c, 1.0)
	assert.Equal(t, types.ChromosomeMutation, mutant.Type)
	for i, g := range mutant.Genes {
		assert.NotEqual(t, 0.0, g, "gene %d was not perturbed", i)
	}
}

func TestMutateAtRateZeroLeavesGenesUnchanged(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c := New([]float64{0.5, -0.5, 1.5}, types.ChromosomeInitial)

	mutant := Mutate(rng, c, 0.0)
	assert.Equal(t, c.Genes, mutant.Genes)
}

func TestDriverSeedAndRunGenerationIsMonotoneNonDecreasing(t *testing.T) {
	entries := []job.Entry{
		{SubmitTimeMs: 0, SlotRequired: 1, MemRequired: 1, CPUTimeMs: 1000, NonCPUTimeMs: 0, QueueName: "default"},
		{SubmitTimeMs: 0, SlotRequired: 1, MemRequired: 1, CPUTimeMs: 2000, NonCPUTimeMs: 0, QueueName: "default"},
	}
	hosts := []HostSpec{{Name: "h1", TotalSlots: 2, TotalMemory: 1_000_000, CPUFactor: 1.0}}
	env := NewEnvironment(config.DefaultSimulationConfig(), entries, hosts, klog.Background())

	cfg := config.DefaultGAConfig()
	cfg.NumPopulationToKeep = 4
	cfg.NumOffspring = 2
	cfg.GeneCount = 8
	cfg.MutationRate = 0.5

	d := NewDriver(cfg, env, rand.New(rand.NewSource(42)), t.TempDir(), klog.Background())
	require.NoError(t, d.Seed(nil))
	require.Len(t, d.Population(), cfg.NumPopulationToKeep)

	prevBest := fitnessOf(d.Best())
	for iter := 0; iter < 3; iter++ {
		d.runGeneration(iter)
		assert.Len(t, d.Population(), cfg.NumPopulationToKeep)
		best := fitnessOf(d.Best())
		assert.GreaterOrEqual(t, best, prevBest)
		prevBest = best
	}
}

func TestPopulationRoundTripsThroughSaveAndLoad(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	population := make([]*Chromosome, 8)
	for i := range population {
		c := Random(rng, 5)
		c.Age = uint32(i)
		c.SetFitness(float64(i) * 1.5)
		population[i] = c
	}

	dir := t.TempDir()
	env := NewEnvironment(config.DefaultSimulationConfig(), nil, nil, klog.Background())
	cfg := config.DefaultGAConfig()
	cfg.NumPopulationToKeep = len(population)
	cfg.GeneCount = 5

	d := NewDriver(cfg, env, rng, dir, klog.Background())
	require.NoError(t, d.Seed(population))
	require.NoError(t, d.persistPopulation())

	loaded, err := LoadPopulation(dir + "/" + config.LastPopulationFile)
	require.NoError(t, err)
	require.Len(t, loaded, len(population))

	for i, want := range population {
		got := loaded[i]
		assert.Equal(t, want.Genes, got.Genes)
		assert.Equal(t, want.Age, got.Age)
		wantFitness, ok := want.CachedFitness()
		require.True(t, ok)
		gotFitness, ok := got.CachedFitness()
		require.True(t, ok)
		assert.Equal(t, wantFitness, gotFitness)
	}
}

func TestDriverSeedRejectsWrongSizedPopulation(t *testing.T) {
	env := NewEnvironment(config.DefaultSimulationConfig(), nil, nil, klog.Background())
	cfg := config.DefaultGAConfig()
	cfg.NumPopulationToKeep = 4

	d := NewDriver(cfg, env, rand.New(rand.NewSource(1)), t.TempDir(), klog.Background())
	err := d.Seed([]*Chromosome{New([]float64{0}, types.ChromosomeInitial)})
	assert.Error(t, err)
}
