package policy

import (
	"sort"

	"github.com/clustersim/simga/pkg/cluster"
	"github.com/clustersim/simga/pkg/job"
	"github.com/clustersim/simga/pkg/queue"
)

// QSimple orders jobs by priority descending, then by pend start
// ascending (FIFO within a priority class), and first-fits each job
// onto the first eligible host with enough free capacity in cluster
// insertion order. Named after the "QSimple" plug-in referenced in
// spec.md §4.3.
type QSimple struct{}

// NewQSimple constructs the QSimple policy.
func NewQSimple() *QSimple { return &QSimple{} }

func (QSimple) Name() string { return "qsimple" }

func (QSimple) Sort(jobs []*job.Job) {
	sort.SliceStable(jobs, func(i, j2 int) bool {
		if jobs[i].Priority != jobs[j2].Priority {
			return jobs[i].Priority > jobs[j2].Priority
		}
		return jobs[i].PendStartTimeMs < jobs[j2].PendStartTimeMs
	})
}

func (QSimple) Match(jobs []*job.Job, hosts []*cluster.Host) []queue.Assignment {
	budgetSlots := make(map[string]int, len(hosts))
	budgetMem := make(map[string]int64, len(hosts))
	for _, h := range hosts {
		budgetSlots[h.Name] = h.FreeSlots
		budgetMem[h.Name] = h.FreeMemory
	}

	var assignments []queue.Assignment
	for _, j := range jobs {
		for _, h := range hosts {
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
