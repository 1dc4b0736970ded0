// Package queue implements the Queue and QueueAlgorithm components
// from spec.md §4.3 (C4), generalizing the teacher's job-queue +
// pluggable-scheduling-algorithm split (_examples/heyfey-vodascheduler's
// pkg/scheduler/queue.go JobQueue interface and pkg/algorithm Strategy
// objects) from a single fixed FIFO to a registry of named,
// pluggable dispatch policies.
package queue

import (
	"github.com/clustersim/simga/pkg/cluster"
	"github.com/clustersim/simga/pkg/common/types"
	"github.com/clustersim/simga/pkg/job"
)

// Assignment pairs a pending job with the host a policy chose for it.
type Assignment struct {
	Job  *job.Job
	Host *cluster.Host
}

// Algorithm is the pluggable dispatch strategy (spec.md §4.3). Sort
// defines a strict weak order over pending jobs, stable under ties.
// Match produces a dispatch plan for the given jobs against the given
// eligible hosts, each job paired with at most one host and each
// host's capacity budget respected across the returned plan.
type Algorithm interface {
	Name() string
	Sort(jobs []*job.Job)
	Match(jobs []*job.Job, hosts []*cluster.Host) []Assignment
}

// ClusterView is the narrow view of a Cluster needed to compute
// eligible hosts for a job.
type ClusterView = job.ClusterView

// Hooks lets the owning Simulation Engine react to dispatch-time
// events without Queue importing the simulation package (spec.md §9,
// cyclic references resolved via narrow injected interfaces).
type Hooks interface {
	// OnDispatched fires after a job has been allocated to a host,
	// moved to RUN and had its pending duration finalized. The queue
	// has already committed the host allocation; the hook schedules
	// the JOB_FINISHED event at finishAtMs with priority 2.
	OnDispatched(j *job.Job, h *cluster.Host, finishAtMs int64)
	// OnUnsatisfiable fires for a job that can never be satisfied by
	// any host in the cluster, or whose estimated run time would be
	// non-positive. The queue has already set the job's state to
	// EXIT; the hook increments the engine's failed-job counter.
	OnUnsatisfiable(j *job.Job)
}

// Config carries the per-dispatch-cycle parameters Queue needs that
// come from the engine's configuration record (spec.md §9
// "Compile-time flag explosion").
type Config struct {
	NowMs              int64
	UseStaticHostTable bool
	RuntimeMultiplier  float64
}

// Queue holds pending jobs for one named priority class and the
// policy used to dispatch them (spec.md §3, §4.3).
type Queue struct {
	name      string
	priority  int
	pending   []*job.Job
	algorithm Algorithm
}

// New constructs a Queue with the given name, numeric priority and
// dispatch algorithm.
func New(name string, priority int, algorithm Algorithm) *Queue {
	return &Queue{name: name, priority: priority, algorithm: algorithm}
}

// Name implements job.QueueRef.
func (q *Queue) Name() string { return q.name }

// Priority returns the queue's numeric priority.
func (q *Queue) Priority() int { return q.priority }

// Enqueue adds a job to this queue's pending set. A job is pending in
// at most one queue at a time (spec.md §3 invariant) — callers are
// responsible for not double-enqueuing.
func (q *Queue) Enqueue(j *job.Job) {
	q.pending = append(q.pending, j)
}

// NumPending returns the number of jobs currently pending in this
// queue.
func (q *Queue) NumPending() int { return len(q.pending) }

// Dispatch runs one dispatch pass (spec.md §4.3 Queue::dispatch):
// sort the pending jobs, then for each in order compute its eligible
// hosts and invoke Match for that job against that host slice. Each
// committed (job, host) pair is allocated, moved to RUN, and reported
// via hooks so the engine can schedule its JOB_FINISHED event. Jobs
// that can never be satisfied, or whose estimated run time would be
// non-positive, are reported as unsatisfiable and dropped from the
// pending set. Returns true iff at least one job remains pending
// after this pass.
func (q *Queue) Dispatch(cfg Config, view ClusterView, hooks Hooks) bool {
	q.algorithm.Sort(q.pending)

	remaining := q.pending[:0:0]
	for _, j := range q.pending {
		if isNonPositiveEstimate(j) || !j.CanEverBeSatisfied(view) {
			j.State = types.JobExit
			hooks.OnUnsatisfiable(j)
			continue
		}

		eligible := j.GetEligibleHosts(view, cfg.UseStaticHostTable)
		if len(eligible) == 0 {
			remaining = append(remaining, j)
			continue
		}

		pairs := q.algorithm.Match([]*job.Job{j}, eligible)
		if len(pairs) == 0 {
			remaining = append(remaining, j)
			continue
		}

		pair := pairs[0]
		if !pair.Host.TryAllocate(j) {
			// Host lost eligibility between selection and commit
			// (spec.md §7 DispatchSkip): job stays PEND, retried
			// next cycle.
			remaining = append(remaining, j)
			continue
		}

		j.HostName = pair.Host.Name
		j.State = types.JobRun
		j.StartTimeMs = cfg.NowMs
		j.UpdateTotalPendingDuration(cfg.NowMs)
		j.RunTimeMs = pair.Host.ExpectedRunTime(j.CPUTimeMs, j.NonCPUTimeMs, cfg.RuntimeMultiplier)

		hooks.OnDispatched(j, pair.Host, cfg.NowMs+j.RunTimeMs)
	}

	q.pending = remaining
	return len(q.pending) > 0
}

func isNonPositiveEstimate(j *job.Job) bool {
	return j.CPUTimeMs <= 0 && j.NonCPUTimeMs <= 0
}
