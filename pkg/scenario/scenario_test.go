package scenario

import (
	"strings"
	"testing"

	"github.com/clustersim/simga/pkg/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSVHappyPath(t *testing.T) {
	input := "0,1,1048576,1000,0,default\n0,2,2097152,5000,0,default\n"
	s, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count())

	e, ok := s.PopNext()
	require.True(t, ok)
	assert.Equal(t, job.Entry{
		SubmitTimeMs: 0, SlotRequired: 1, MemRequired: 1048576,
		CPUTimeMs: 1000, NonCPUTimeMs: 0, QueueName: "default",
	}, e)
	assert.Equal(t, 1, s.Count())
}

func TestParseCSVRejectsNonMonotonicSubmitTime(t *testing.T) {
	input := "100,1,1,1,0,default\n50,1,1,1,0,default\n"
	_, err := ParseCSV(strings.NewReader(input))
	assert.Error(t, err)
}

func TestParseCSVRejectsWrongColumnCount(t *testing.T) {
	input := "0,1,1,1,0\n"
	_, err := ParseCSV(strings.NewReader(input))
	assert.Error(t, err)
}

func TestCountAndPopNextOnExhaustedScenario(t *testing.T) {
	s := New(nil)
	assert.Equal(t, 0, s.Count())
	_, ok := s.PopNext()
	assert.False(t, ok)
}

func TestPeekDoesNotConsume(t *testing.T) {
	s := New([]job.Entry{{SubmitTimeMs: 42}})
	e, ok := s.Peek()
	require.True(t, ok)
	assert.Equal(t, int64(42), e.SubmitTimeMs)
	assert.Equal(t, 1, s.Count())
}
