// Package eventqueue implements the ordered event set described in
// spec.md §4.1 (C1). It pairs a container/heap binary heap with a
// by-id index so dispatch events can be rescheduled and job-finish
// events can be delayed in place without a linear scan — the
// "ordered tree with a hash index from id to node" the spec
// recommends, built from the stdlib heap since nothing in the
// retrieved corpus ships a third-party priority queue.
package eventqueue

import (
	"container/heap"

	"github.com/clustersim/simga/pkg/common/types"
)

// Action is the work an EventItem performs when popped. Tagged-variant
// payloads (spec.md §9 "Function-valued event actions") would make the
// queue itself serializable, but the engine that owns these events is
// never persisted mid-run, so a plain closure captured by the engine
// is the idiomatic Go equivalent and is what's used here.
type Action func()

// Item is a single timestamped, prioritized action (spec.md §3
// EventItem). Earlier Time sorts first; among equal times, higher
// Priority sorts first; among equal time and priority, lower ID (i.e.
// insertion order) sorts first — this resolves the "dispatch
// tie-breaking" open question in spec.md §9.
type Item struct {
	ID       uint64
	Time     int64 // milliseconds since epoch
	Action   Action
	Priority uint8
	Type     types.EventType

	index int // heap index, maintained by container/heap
}

func less(a, b *Item) bool {
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.ID < b.ID
}

// Queue is the ordered, by-id-addressable event set (C1).
type Queue struct {
	heap  itemHeap
	byID  map[uint64]*Item
	idGen uint64
}

// New returns an empty event queue.
func New() *Queue {
	return &Queue{
		heap: make(itemHeap, 0),
		byID: make(map[uint64]*Item),
	}
}

// Push enqueues a new event at the given time with the given action,
// priority and type, and returns its id.
func (q *Queue) Push(timeMs int64, action Action, priority uint8, typ types.EventType) uint64 {
	q.idGen++
	item := &Item{
		ID:       q.idGen,
		Time:     timeMs,
		Action:   action,
		Priority: priority,
		Type:     typ,
	}
	heap.Push(&q.heap, item)
	q.byID[item.ID] = item
	return item.ID
}

// PopMin removes and returns the earliest-time, highest-priority,
// lowest-id item. Returns nil, false if the queue is empty.
func (q *Queue) PopMin() (*Item, bool) {
	if q.heap.Len() == 0 {
		return nil, false
	}
	item := heap.Pop(&q.heap).(*Item)
	delete(q.byID, item.ID)
	return item, true
}

// FindByID returns the item with the given id, or nil, false if it is
// absent or has already been popped.
func (q *Queue) FindByID(id uint64) (*Item, bool) {
	item, ok := q.byID[id]
	return item, ok
}

// Erase removes the item with the given id. No-op if absent.
func (q *Queue) Erase(id uint64) {
	item, ok := q.byID[id]
	if !ok {
		return
	}
	heap.Remove(&q.heap, item.index)
	delete(q.byID, id)
}

// AddDelay shifts the item's time forward by deltaMs and re-establishes
// heap order. No-op if the id is absent.
func (q *Queue) AddDelay(id uint64, deltaMs int64) {
	item, ok := q.byID[id]
	if !ok {
		return
	}
	item.Time += deltaMs
	heap.Fix(&q.heap, item.index)
}

// Size returns the number of items still in the queue.
func (q *Queue) Size() int { return q.heap.Len() }

// itemHeap implements container/heap.Interface over *Item, keeping
// each item's index field current so FindByID/Erase/AddDelay can
// operate by id in O(log n) instead of a linear scan.
type itemHeap []*Item

func (h itemHeap) Len() int            { return len(h) }
func (h itemHeap) Less(i, j int) bool  { return less(h[i], h[j]) }
func (h itemHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *itemHeap) Push(x any) {
	item := x.(*Item)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	item.index = -1
	return item
}
