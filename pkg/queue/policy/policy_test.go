package policy

import (
	"testing"

	"github.com/clustersim/simga/pkg/cluster"
	"github.com/clustersim/simga/pkg/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOLBPicksHostWithMostFreeSlots(t *testing.T) {
	small := cluster.NewHost("small", 2, 10, 1)
	big := cluster.NewHost("big", 8, 10, 1)

	counter := job.NewCounter()
	j := job.New(counter, job.Entry{SlotRequired: 1, MemRequired: 1}, nil)

	algo := NewOLB()
	assignments := algo.Match([]*job.Job{j}, []*cluster.Host{small, big})
	require.Len(t, assignments, 1)
	assert.Equal(t, "big", assignments[0].Host.Name)
}

func TestOLBRespectsBudgetAcrossMultipleJobs(t *testing.T) {
	h := cluster.NewHost("h", 2, 10, 1)
	counter := job.NewCounter()
	j1 := job.New(counter, job.Entry{SlotRequired: 2, MemRequired: 1}, nil)
	j2 := job.New(counter, job.Entry{SlotRequired: 1, MemRequired: 1}, nil)

	algo := NewOLB()
	assignments := algo.Match([]*job.Job{j1, j2}, []*cluster.Host{h})
	require.Len(t, assignments, 1) // only j1 fits; j2 has nothing left
	assert.Equal(t, j1, assignments[0].Job)
}

func TestQSimpleOrdersByPriorityThenFIFO(t *testing.T) {
	counter := job.NewCounter()
	low := job.New(counter, job.Entry{SubmitTimeMs: 0}, nil)
	low.Priority = 1
	low.PendStartTimeMs = 100
	high := job.New(counter, job.Entry{SubmitTimeMs: 0}, nil)
	high.Priority = 5
	high.PendStartTimeMs = 200

	jobs := []*job.Job{low, high}
	NewQSimple().Sort(jobs)
	assert.Equal(t, high, jobs[0])
}

func TestMunkresPicksFeasibleTightestFit(t *testing.T) {
	loose := cluster.NewHost("loose", 8, 64, 1)
	tight := cluster.NewHost("tight", 2, 8, 1)

	counter := job.NewCounter()
	j := job.New(counter, job.Entry{SlotRequired: 2, MemRequired: 8}, nil)

	algo := NewMunkres()
	assignments := algo.Match([]*job.Job{j}, []*cluster.Host{loose, tight})
	require.Len(t, assignments, 1)
	assert.Equal(t, "tight", assignments[0].Host.Name)
}

func TestLookupReturnsErrorForUnknownName(t *testing.T) {
	_, err := Lookup("does-not-exist")
	assert.Error(t, err)
}

func TestLookupReturnsKnownPolicies(t *testing.T) {
	for _, name := range []string{"olb", "qsimple", "munkres"} {
		algo, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, algo.Name())
	}
}
