// Package simulation implements the Simulation Engine component from
// spec.md §4.6 (C7): it owns the event queue, the cluster, the set of
// queues and the accumulated run statistics, and drives the
// discrete-event main loop.
package simulation

import (
	"fmt"

	"github.com/clustersim/simga/config"
	"github.com/clustersim/simga/pkg/cluster"
	"github.com/clustersim/simga/pkg/common/types"
	"github.com/clustersim/simga/pkg/eventqueue"
	"github.com/clustersim/simga/pkg/job"
	"github.com/clustersim/simga/pkg/queue"
	"github.com/clustersim/simga/pkg/report"
	"github.com/clustersim/simga/pkg/scenario"
	"github.com/clustersim/simga/pkg/simerrors"
	"k8s.io/klog/v2"
)

// Engine is the Simulation Engine (C7). It implements queue.Hooks so
// pkg/queue never imports this package (spec.md §9, cyclic references
// resolved via narrow injected interfaces).
type Engine struct {
	cfg config.SimulationConfig
	log klog.Logger

	currentTimeMs int64
	events        *eventqueue.Queue
	cluster       *cluster.Cluster
	scenario      *scenario.Scenario
	counter       *job.Counter
	recorder      *report.Recorder

	queuesByName     map[string]*queue.Queue
	queueOrder       []string
	defaultQueueName string

	nextDispatchReserved bool
	lastClusterVersion   uint64
	numDispatchedSlots   int

	numSubmittedJobs       int
	newlySubmittedJobs     int
	numSuccessfulJobs      int
	numFailedJobs          int
	numPendingJobs         int
	totalPendingDurationMs int64
	totalQueuingTimeMs     int64
	latestFinishTimeMs     int64
	jobSubmitCumulative    int

	err error
}

// New constructs an Engine, draining scenario into SCENARIO events and
// arming the periodic LOG and counting events (spec.md §4.6
// Initialization). queues must be non-empty; when cfg.UseOnlyDefaultQueue
// is set every submitted job is routed to queues[0] regardless of its
// scenario entry's queue name.
func New(
	cfg config.SimulationConfig,
	scn *scenario.Scenario,
	clus *cluster.Cluster,
	queues []*queue.Queue,
	counter *job.Counter,
	rec *report.Recorder,
	log klog.Logger,
) (*Engine, error) {
	if len(queues) == 0 {
		return nil, fmt.Errorf("simulation: at least one queue is required")
	}

	e := &Engine{
		cfg:          cfg,
		log:          log,
		events:       eventqueue.New(),
		cluster:      clus,
		scenario:     scn,
		counter:      counter,
		recorder:     rec,
		queuesByName: make(map[string]*queue.Queue, len(queues)),
	}
	for _, q := range queues {
		e.queuesByName[q.Name()] = q
		e.queueOrder = append(e.queueOrder, q.Name())
	}
	e.defaultQueueName = queues[0].Name()

	if first, ok := scn.Peek(); ok {
		e.currentTimeMs = first.SubmitTimeMs
	}

	for {
		entry, ok := scn.PopNext()
		if !ok {
			break
		}
		e.events.Push(entry.SubmitTimeMs, func() { e.onScenario(entry) }, 0, types.EventScenario)
	}

	e.events.Push(e.currentTimeMs+cfg.LoggingFrequency.Milliseconds(), e.onLog, 0, types.EventLog)
	e.events.Push(e.currentTimeMs+cfg.CountingFrequency.Milliseconds(), e.onCountNewJobs, 0, types.EventLog)

	return e, nil
}

// CurrentTimeMs returns the engine's simulated clock.
func (e *Engine) CurrentTimeMs() int64 { return e.currentTimeMs }

// Run drives the main loop (spec.md §4.6 "Main Loop"): pop the
// earliest event, advance current_time to its time, execute its
// action, repeat until the event queue is empty. Returns the first
// structural error encountered by an action, if any (spec.md §7).
func (e *Engine) Run() error {
	for {
		item, ok := e.events.PopMin()
		if !ok {
			break
		}
		e.currentTimeMs = item.Time
		item.Action()
		if e.err != nil {
			return e.err
		}
	}
	return nil
}

// Summary reports the run's accumulated statistics (spec.md §4.7
// Chromosome.fitness derives its score from these).
func (e *Engine) Summary() report.Summary {
	return report.Summary{
		NumSubmittedJobs:       e.numSubmittedJobs,
		NumSuccessfulJobs:      e.numSuccessfulJobs,
		NumFailedJobs:          e.numFailedJobs,
		TotalPendingDurationMs: e.totalPendingDurationMs,
		TotalQueuingTimeMs:     e.totalQueuingTimeMs,
		LatestFinishTimeMs:     e.latestFinishTimeMs,
	}
}

func (e *Engine) onScenario(entry job.Entry) {
	qname := entry.QueueName
	if e.cfg.UseOnlyDefaultQueue {
		qname = e.defaultQueueName
	}
	q, ok := e.queuesByName[qname]
	if !ok {
		e.err = &simerrors.UnknownQueue{Name: qname}
		return
	}

	j := job.New(e.counter, entry, q)
	j.SetPending(e.currentTimeMs)
	q.Enqueue(j)

	e.numSubmittedJobs++
	e.newlySubmittedJobs++
	e.numPendingJobs++
	e.jobSubmitCumulative++
	e.recorder.RecordJobSubmit(e.currentTimeMs, e.jobSubmitCumulative)

	e.reserveDispatchEvent()
}

// reserveDispatchEvent is idempotent (spec.md §4.6 "Dispatcher"): a
// second call while a dispatch is already armed is a no-op.
func (e *Engine) reserveDispatchEvent() {
	if e.nextDispatchReserved {
		return
	}
	e.nextDispatchReserved = true
	e.events.Push(e.currentTimeMs+e.cfg.DispatchFrequency.Milliseconds(), e.dispatch, 1, types.EventDispatch)
}

func (e *Engine) dispatch() {
	version := e.cluster.Version()
	if version == e.lastClusterVersion {
		if e.scenario.Count() == 0 && e.numPendingJobs == 0 {
			e.nextDispatchReserved = false
			return
		}
		e.events.Push(e.currentTimeMs+e.cfg.DispatchFrequency.Milliseconds(), e.dispatch, 1, types.EventDispatch)
		return
	}
	e.lastClusterVersion = version

	cfg := queue.Config{
		NowMs:              e.currentTimeMs,
		UseStaticHostTable: e.cfg.UseStaticHostTableForJobs,
		RuntimeMultiplier:  e.cfg.RuntimeMultiplier,
	}

	anyPending := false
	for _, name := range e.queueOrder {
		if e.queuesByName[name].Dispatch(cfg, e.cluster, e) {
			anyPending = true
		}
	}

	total := 0
	for _, name := range e.queueOrder {
		total += e.queuesByName[name].NumPending()
	}
	e.numPendingJobs = total

	if anyPending {
		e.events.Push(e.currentTimeMs+e.cfg.DispatchFrequency.Milliseconds(), e.dispatch, 1, types.EventDispatch)
	} else {
		e.nextDispatchReserved = false
		e.lastClusterVersion = 0
	}

	e.recorder.RecordSlotsInUse(e.currentTimeMs, e.numDispatchedSlots)
	e.recorder.RecordPending(e.currentTimeMs, e.numPendingJobs)
}

// OnDispatched implements queue.Hooks. It schedules the JOB_FINISHED
// event and tracks slots in use (spec.md §4.3, §4.6).
func (e *Engine) OnDispatched(j *job.Job, h *cluster.Host, finishAtMs int64) {
	e.numDispatchedSlots += j.SlotRequired()
	e.events.Push(finishAtMs, func() { e.onJobFinished(j, h) }, 2, types.EventJobFinished)
}

// OnUnsatisfiable implements queue.Hooks (spec.md §4.6 "Failure
// semantics"). The job's state is already EXIT; only the counter is
// this hook's job.
func (e *Engine) OnUnsatisfiable(j *job.Job) {
	e.numFailedJobs++
}

func (e *Engine) onJobFinished(j *job.Job, h *cluster.Host) {
	h.Release(j)
	j.FinishTimeMs = e.currentTimeMs
	j.State = types.JobDone

	e.numSuccessfulJobs++
	e.numDispatchedSlots -= j.SlotRequired()
	if e.currentTimeMs > e.latestFinishTimeMs {
		e.latestFinishTimeMs = e.currentTimeMs
	}
	e.totalQueuingTimeMs += j.FinishTimeMs - j.SubmitTimeMs
	e.totalPendingDurationMs += j.TotalPendingMs

	e.recorder.RecordJobmart(report.JobmartRow{
		StartTimeMs:  j.StartTimeMs,
		FinishTimeMs: j.FinishTimeMs,
		QueueName:    j.Queue.Name(),
		ExecHostname: j.HostName,
		NumSlots:     j.SlotRequired(),
		JobID:        j.ID,
		PendTimeMs:   j.TotalPendingMs,
		RunTimeMs:    j.FinishTimeMs - j.StartTimeMs,
	})

	e.reserveDispatchEvent()
}

// hasRemainingWork reports whether periodic housekeeping actions
// should keep rescheduling themselves. Without this guard LOG and
// counting events would requeue forever and the event queue could
// never reach empty, so run() would never satisfy its termination
// condition (spec.md §4.6 "Main Loop").
func (e *Engine) hasRemainingWork() bool {
	return e.numPendingJobs > 0 || e.scenario.Count() > 0 || e.nextDispatchReserved
}

func (e *Engine) onLog() {
	e.log.V(2).Info("status",
		"time_ms", e.currentTimeMs,
		"pending_jobs", e.numPendingJobs,
		"dispatched_slots", e.numDispatchedSlots,
		"successful_jobs", e.numSuccessfulJobs,
		"failed_jobs", e.numFailedJobs,
	)
	if e.cfg.ConsoleOutput {
		fmt.Printf("time_ms=%d pending_jobs=%d dispatched_slots=%d successful_jobs=%d failed_jobs=%d\n",
			e.currentTimeMs, e.numPendingJobs, e.numDispatchedSlots, e.numSuccessfulJobs, e.numFailedJobs)
	}
	if e.hasRemainingWork() {
		e.events.Push(e.currentTimeMs+e.cfg.LoggingFrequency.Milliseconds(), e.onLog, 0, types.EventLog)
	}
}

func (e *Engine) onCountNewJobs() {
	e.log.V(3).Info("new submissions", "time_ms", e.currentTimeMs, "count", e.newlySubmittedJobs)
	e.newlySubmittedJobs = 0
	if e.hasRemainingWork() {
		e.events.Push(e.currentTimeMs+e.cfg.CountingFrequency.Milliseconds(), e.onCountNewJobs, 0, types.EventLog)
	}
}
