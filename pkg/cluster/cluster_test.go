package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJob struct {
	slots int
	mem   int64
}

func (f fakeJob) SlotRequired() int   { return f.slots }
func (f fakeJob) MemRequired() int64  { return f.mem }

func TestTryAllocateRespectsCapacityAndBumpsVersion(t *testing.T) {
	c := New()
	h := NewHost("h1", 4, 16, 1.0)
	c.AddHost(h)

	v0 := c.Version()
	ok := h.TryAllocate(fakeJob{slots: 2, mem: 4})
	require.True(t, ok)
	assert.Greater(t, c.Version(), v0)
	assert.Equal(t, 2, h.FreeSlots)
	assert.Equal(t, int64(12), h.FreeMemory)

	// Exceeds remaining capacity.
	ok = h.TryAllocate(fakeJob{slots: 3, mem: 1})
	assert.False(t, ok)
	assert.Equal(t, 2, h.FreeSlots)
}

func TestReleaseRestoresCapacity(t *testing.T) {
	c := New()
	h := NewHost("h1", 4, 16, 1.0)
	c.AddHost(h)

	require.True(t, h.TryAllocate(fakeJob{slots: 2, mem: 4}))
	h.Release(fakeJob{slots: 2, mem: 4})

	assert.Equal(t, h.TotalSlots, h.FreeSlots)
	assert.Equal(t, h.TotalMemory, h.FreeMemory)
}

func TestIsEligibleStaticVsDynamic(t *testing.T) {
	h := NewHost("h1", 4, 16, 1.0)
	require.True(t, h.TryAllocate(fakeJob{slots: 4, mem: 16})) // host now fully busy

	// Static mode: total capacity would satisfy the job, so eligible
	// even though nothing is currently free.
	assert.True(t, h.IsEligible(fakeJob{slots: 2, mem: 2}, true))
	// Dynamic mode: no free resources, not eligible.
	assert.False(t, h.IsEligible(fakeJob{slots: 2, mem: 2}, false))
}

func TestIsEligibleFalseWhenHostNotOK(t *testing.T) {
	h := NewHost("h1", 4, 16, 1.0)
	h.Status = "CLOSED"
	assert.False(t, h.IsEligible(fakeJob{slots: 1, mem: 1}, true))
}

func TestCanEverSatisfy(t *testing.T) {
	h := NewHost("h1", 2, 4, 1.0)
	assert.False(t, h.CanEverSatisfy(fakeJob{slots: 8, mem: 1}))
	assert.True(t, h.CanEverSatisfy(fakeJob{slots: 2, mem: 4}))
}

func TestExpectedRunTimeZeroFactorTreatedAsOne(t *testing.T) {
	h := NewHost("h1", 1, 1, 0)
	assert.Equal(t, int64(1000), h.ExpectedRunTime(1000, 0, 1.0))
}

func TestExpectedRunTimeAppliesRuntimeMultiplier(t *testing.T) {
	h := NewHost("h1", 1, 1, 1.0)
	assert.Equal(t, int64(2000), h.ExpectedRunTime(1000, 0, 2.0))
}

func TestClusterHostLookup(t *testing.T) {
	c := New()
	c.AddHost(NewHost("h1", 1, 1, 1))
	c.AddHost(NewHost("h2", 1, 1, 1))

	h, err := c.Host("h2")
	require.NoError(t, err)
	assert.Equal(t, "h2", h.Name)

	_, err = c.Host("missing")
	assert.Error(t, err)

	assert.Equal(t, []string{"h1", "h2"}, namesOf(c.Hosts()))
}

func namesOf(hosts []*Host) []string {
	names := make([]string, len(hosts))
	for i, h := range hosts {
		names[i] = h.Name
	}
	return names
}
