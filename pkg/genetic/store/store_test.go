package store

import (
	"bytes"
	"testing"

	"github.com/clustersim/simga/pkg/common/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	records := []ChromosomeRecord{
		{Age: 3, Type: types.ChromosomeInitial, FitnessPresent: true, Fitness: -12.5, Genes: []float64{1, 2, 3}},
		{Age: 0, Type: types.ChromosomeCrossover, FitnessPresent: false, Genes: []float64{0.1, -0.2, 4}},
		{Age: 7, Type: types.ChromosomeMutation, FitnessPresent: true, Fitness: 0, Genes: []float64{-1, -2, -3}},
	}

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, 3, records))

	geneCount, got, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, 3, geneCount)
	assert.Equal(t, records, got)
}

func TestLoadRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("XXXX")
	_, _, err := Load(&buf)
	assert.Error(t, err)
}

func TestSaveRejectsGeneCountMismatch(t *testing.T) {
	records := []ChromosomeRecord{{Genes: []float64{1, 2}}}
	var buf bytes.Buffer
	err := Save(&buf, 3, records)
	assert.Error(t, err)
}

func TestSaveLoadEmptyPopulation(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, 5, nil))

	geneCount, got, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, 5, geneCount)
	assert.Empty(t, got)
}
