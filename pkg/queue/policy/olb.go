// Package policy collects built-in QueueAlgorithm implementations
// (spec.md §4.3), registered by name the way the teacher's
// pkg/algorithm registers FIFO, SRJF and Tiresias variants for its
// scheduler.
package policy

import (
	"sort"

	"github.com/clustersim/simga/pkg/cluster"
	"github.com/clustersim/simga/pkg/job"
	"github.com/clustersim/simga/pkg/queue"
)

// OLB ("One Level Back") ranks hosts by free slots descending and
// greedily first-fits jobs in FIFO order of pend start (spec.md
// §4.3). It is the simulator's baseline built-in policy.
type OLB struct{}

// NewOLB constructs the OLB policy.
func NewOLB() *OLB { return &OLB{} }

func (OLB) Name() string { return "olb" }

// Sort orders pending jobs by pend_start_time ascending (FIFO),
// stable under ties so insertion order is preserved.
func (OLB) Sort(jobs []*job.Job) {
	sort.SliceStable(jobs, func(i, j2 int) bool {
		return jobs[i].PendStartTimeMs < jobs[j2].PendStartTimeMs
	})
}

// Match greedily assigns the given jobs to the host with the most
// free slots among the given eligible hosts, first-fit.
func (OLB) Match(jobs []*job.Job, hosts []*cluster.Host) []queue.Assignment {
	if len(jobs) == 0 || len(hosts) == 0 {
		return nil
	}

	ranked := make([]*cluster.Host, len(hosts))
	copy(ranked, hosts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FreeSlots > ranked[j].FreeSlots
	})

	budgetSlots := make(map[string]int, len(ranked))
	budgetMem := make(map[string]int64, len(ranked))
	for _, h := range ranked {
		budgetSlots[h.Name] = h.FreeSlots
		budgetMem[h.Name] = h.FreeMemory
	}

	var assignments []queue.Assignment
	for _, j := range jobs {
		for _, h := range ranked {
			if budgetSlots[h.Name] >= j.SlotRequired() && budgetMem[h.Name] >= j.MemRequired() {
				assignments = append(assignments, queue.Assignment{Job: j, Host: h})
				budgetSlots[h.Name] -= j.SlotRequired()
				budgetMem[h.Name] -= j.MemRequired()
				break
			}
		}
	}
	return assignments
}
