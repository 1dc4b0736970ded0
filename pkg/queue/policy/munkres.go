package policy

import (
	"sort"

	munkres "github.com/heyfey/munkres"

	"github.com/clustersim/simga/pkg/cluster"
	"github.com/clustersim/simga/pkg/job"
	"github.com/clustersim/simga/pkg/queue"
)

// Munkres assigns jobs to hosts by solving the square assignment
// problem over a job x host value matrix with the teacher's own
// assignment-problem dependency (the same one
// _examples/heyfey-vodascheduler's placement manager uses to rebind
// nodes to minimize churn). Each row prefers the tightest-fitting
// eligible host, so the solver favors bin-packing over OLB's
// worst-fit spread.
type Munkres struct{}

// NewMunkres constructs the Munkres policy.
func NewMunkres() *Munkres { return &Munkres{} }

func (Munkres) Name() string { return "munkres" }

func (Munkres) Sort(jobs []*job.Job) {
	sort.SliceStable(jobs, func(i, j2 int) bool {
		return jobs[i].PendStartTimeMs < jobs[j2].PendStartTimeMs
	})
}

func (Munkres) Match(jobs []*job.Job, hosts []*cluster.Host) []queue.Assignment {
	if len(jobs) == 0 || len(hosts) == 0 {
		return nil
	}

	size := len(jobs)
	if len(hosts) > size {
		size = len(hosts)
	}

	m := munkres.NewMatrix(size)
	m.A = make([]int64, size*size)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			var value int64
			if row < len(jobs) && col < len(hosts) {
				value = fitScore(jobs[row], hosts[col])
			}
			m.A[row*size+col] = value
		}
	}

	result := munkres.ComputeMunkresMax(m)

	var assignments []queue.Assignment
	for _, pos := range result {
		if pos.Row >= len(jobs) || pos.Col >= len(hosts) {
			continue
		}
		j := jobs[pos.Row]
		h := hosts[pos.Col]
		if h.FreeSlots < j.SlotRequired() || h.FreeMemory < j.MemRequired() {
			continue
		}
		assignments = append(assignments, queue.Assignment{Job: j, Host: h})
	}
	return assignments
}

// fitScore rewards hosts that leave the least capacity unused,
// favoring tight bin-packing. An infeasible pair scores 0, the same
// as the dummy rows/columns padding the matrix to a square; a feasible
// pair scores 1_000_000 minus its leftover slots and memory, which is
// positive only while that leftover stays below 1_000_000.
func fitScore(j *job.Job, h *cluster.Host) int64 {
	leftoverSlots := int64(h.FreeSlots - j.SlotRequired())
	leftoverMem := h.FreeMemory - j.MemRequired()
	if leftoverSlots < 0 || leftoverMem < 0 {
		return 0
	}
	return 1_000_000 - leftoverSlots - leftoverMem
}
