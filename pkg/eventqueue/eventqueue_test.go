package eventqueue

import (
	"testing"

	"github.com/clustersim/simga/pkg/common/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopMinOrdersByTimeThenPriorityThenID(t *testing.T) {
	q := New()
	q.Push(100, func() {}, 0, types.EventScenario)
	q.Push(100, func() {}, 5, types.EventDispatch) // same time, higher priority
	q.Push(50, func() {}, 0, types.EventLog)
	q.Push(100, func() {}, 5, types.EventDispatch) // same time+priority, later id

	var order []int64
	var priorities []uint8
	var ids []uint64
	for q.Size() > 0 {
		item, ok := q.PopMin()
		require.True(t, ok)
		order = append(order, item.Time)
		priorities = append(priorities, item.Priority)
		ids = append(ids, item.ID)
	}

	assert.Equal(t, []int64{50, 100, 100, 100}, order)
	assert.Equal(t, []uint8{0, 5, 5, 0}, priorities)
	assert.Equal(t, []uint64{3, 2, 4, 1}, ids)
}

func TestFindByIDAndErase(t *testing.T) {
	q := New()
	id1 := q.Push(10, func() {}, 0, types.EventScenario)
	id2 := q.Push(20, func() {}, 0, types.EventScenario)

	item, ok := q.FindByID(id1)
	require.True(t, ok)
	assert.Equal(t, int64(10), item.Time)

	q.Erase(id1)
	_, ok = q.FindByID(id1)
	assert.False(t, ok)

	_, ok = q.FindByID(id2)
	assert.True(t, ok)
	assert.Equal(t, 1, q.Size())
}

func TestFindByIDAbsentReturnsFalse(t *testing.T) {
	q := New()
	_, ok := q.FindByID(9999)
	assert.False(t, ok)
}

func TestAddDelayReordersQueue(t *testing.T) {
	q := New()
	idA := q.Push(100, func() {}, 0, types.EventJobFinished)
	q.Push(150, func() {}, 0, types.EventJobFinished)

	q.AddDelay(idA, 100) // now at 200, should pop second

	item, ok := q.PopMin()
	require.True(t, ok)
	assert.Equal(t, int64(150), item.Time)

	item, ok = q.PopMin()
	require.True(t, ok)
	assert.Equal(t, int64(200), item.Time)
}

func TestAddDelayOnAbsentIDIsNoOp(t *testing.T) {
	q := New()
	q.Push(10, func() {}, 0, types.EventScenario)
	q.AddDelay(9999, 50) // no-op, must not panic
	assert.Equal(t, 1, q.Size())
}

func TestEraseOnAbsentIDIsNoOp(t *testing.T) {
	q := New()
	q.Erase(1) // no-op, must not panic
	assert.Equal(t, 0, q.Size())
}

func TestPopMinOnEmptyQueue(t *testing.T) {
	q := New()
	_, ok := q.PopMin()
	assert.False(t, ok)
}
