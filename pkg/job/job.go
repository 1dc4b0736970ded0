// Package job implements the Job component from spec.md §4.4 (C5).
package job

import (
	"sync/atomic"

	"github.com/clustersim/simga/pkg/cluster"
	"github.com/clustersim/simga/pkg/common/types"
)

// QueueRef is the narrow view of a Queue a Job needs: its name, used
// by reports, and nothing else. Jobs reference their managing queue
// by this interface rather than owning it, resolving the Job<->Queue
// cyclic reference (spec.md §9).
type QueueRef interface {
	Name() string
}

// ClusterView is the narrow view of a Cluster a Job needs to compute
// its eligible hosts (spec.md §4.4).
type ClusterView interface {
	Hosts() []*cluster.Host
}

// Entry is the minimal submission data a Job is constructed from,
// matching a scenario row (spec.md §4.5).
type Entry struct {
	SubmitTimeMs int64
	SlotRequired int
	MemRequired  int64
	CPUTimeMs    int64
	NonCPUTimeMs int64
	QueueName    string
}

// Counter is an engine-local monotonic job-id generator; there is no
// process-wide id counter, and every Simulation uses its own *Counter
// (see NewCounter) so GA workers stay independent (spec.md §9,
// "Static global counters").
type Counter struct{ next int64 }

// NewCounter returns a fresh, engine-local monotonic id generator.
func NewCounter() *Counter { return &Counter{} }

func (c *Counter) next_() int { return int(atomic.AddInt64(&c.next, 1)) }

// Job is a workload record with lifecycle state and timing accounting
// (spec.md §3).
type Job struct {
	ID           int
	SlotReq      int
	MemReq       int64
	SubmitTimeMs int64
	CPUTimeMs    int64
	NonCPUTimeMs int64

	// RunTimeMs is the derived run time, computed at dispatch
	// (spec.md §3): cpu_time/host_factor + non_cpu_time, scaled by
	// the configured runtime multiplier (see Host.ExpectedRunTime).
	RunTimeMs int64

	Queue     QueueRef
	HostName  string
	State     types.JobState
	Priority  int

	StartTimeMs      int64
	FinishTimeMs     int64
	PendStartTimeMs  int64
	pendStarted      bool
	TotalPendingMs   int64
}

// New constructs a Job bound to a queue, using the given id counter
// (spec.md §4.4 "Constructor binds submit time and queue").
func New(counter *Counter, entry Entry, queue QueueRef) *Job {
	return &Job{
		ID:           counter.next_(),
		SlotReq:      entry.SlotRequired,
		MemReq:       entry.MemRequired,
		SubmitTimeMs: entry.SubmitTimeMs,
		CPUTimeMs:    entry.CPUTimeMs,
		NonCPUTimeMs: entry.NonCPUTimeMs,
		Queue:        queue,
		State:        types.JobWait,
	}
}

// SlotRequired and MemRequired implement cluster.Job.
func (j *Job) SlotRequired() int  { return j.SlotReq }
func (j *Job) MemRequired() int64 { return j.MemReq }

// SetPending transitions the job to PEND and records pend_start_time
// only on the first such transition (spec.md §4.4).
func (j *Job) SetPending(nowMs int64) {
	j.State = types.JobPend
	if !j.pendStarted {
		j.PendStartTimeMs = nowMs
		j.pendStarted = true
	}
}

// UpdateTotalPendingDuration recomputes total_pending_duration as
// (start_time or current_time) - pend_start_time (spec.md §3).
func (j *Job) UpdateTotalPendingDuration(nowMs int64) {
	j.TotalPendingMs = nowMs - j.PendStartTimeMs
}

// GetEligibleHosts scans the cluster for hosts that pass the
// eligibility predicate, in cluster insertion order (spec.md §4.4).
func (j *Job) GetEligibleHosts(view ClusterView, useStaticTable bool) []*cluster.Host {
	var eligible []*cluster.Host
	for _, h := range view.Hosts() {
		if h.IsEligible(j, useStaticTable) {
			eligible = append(eligible, h)
		}
	}
	return eligible
}

// CanEverBeSatisfied reports whether any host in the cluster could
// ever run this job, regardless of current load (spec.md §4.6, §7
// UnsatisfiableJob).
func (j *Job) CanEverBeSatisfied(view ClusterView) bool {
	for _, h := range view.Hosts() {
		if h.CanEverSatisfy(j) {
			return true
		}
	}
	return false
}
