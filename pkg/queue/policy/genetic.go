package policy

import (
	"sort"

	"github.com/clustersim/simga/pkg/cluster"
	"github.com/clustersim/simga/pkg/job"
	"github.com/clustersim/simga/pkg/queue"
)

// Genetic decodes a Chromosome's gene vector into a weighted scoring
// function over (job, host) pairs (spec.md §4.7, C8's fitness path).
// Genes, in order:
//
//	[0] sort weight: pend-wait bonus per millisecond waited
//	[1] sort weight: slot-size bonus (prefers large jobs first when positive)
//	[2] match weight: free-slots term
//	[3] match weight: free-memory term
//	[4] match weight: tight-fit bonus (negative leftover slots)
//	[5] match weight: cpu-factor term (prefers fast hosts when positive)
//	[6] match weight: priority term
//	[7] tie-break jitter scale, reserved for future use
//
// Any gene vector longer than 8 simply has its extra genes ignored;
// shorter vectors treat missing genes as zero. This mirrors how the
// original's Chromosome decodes directly into policy parameters
// without a fixed schema beyond "fixed-length gene vector" (spec.md §3).
type Genetic struct {
	Genes []float64
}

// NewGenetic constructs a Genetic policy bound to a gene vector.
func NewGenetic(genes []float64) *Genetic {
	return &Genetic{Genes: genes}
}

func (Genetic) Name() string { return "genetic" }

func (g *Genetic) gene(i int) float64 {
	if i < len(g.Genes) {
		return g.Genes[i]
	}
	return 0
}

func (g *Genetic) Sort(jobs []*job.Job) {
	waitW := g.gene(0)
	sizeW := g.gene(1)
	sort.SliceStable(jobs, func(i, j2 int) bool {
		si := waitW*float64(-jobs[i].PendStartTimeMs) + sizeW*float64(jobs[i].SlotRequired())
		sj := waitW*float64(-jobs[j2].PendStartTimeMs) + sizeW*float64(jobs[j2].SlotRequired())
		return si > sj
	})
}

func (g *Genetic) Match(jobs []*job.Job, hosts []*cluster.Host) []queue.Assignment {
	freeSlotsW := g.gene(2)
	freeMemW := g.gene(3)
	tightFitW := g.gene(4)
	cpuFactorW := g.gene(5)
	priorityW := g.gene(6)

	budgetSlots := make(map[string]int, len(hosts))
	budgetMem := make(map[string]int64, len(hosts))
	for _, h := range hosts {
		budgetSlots[h.Name] = h.FreeSlots
		budgetMem[h.Name] = h.FreeMemory
	}

	var assignments []queue.Assignment
	for _, j := range jobs {
		bestScore := 0.0
		var best *cluster.Host
		for _, h := range hosts {
			if budgetSlots[h.Name] < j.SlotRequired() || budgetMem[h.Name] < j.MemRequired() {
				continue
			}
			leftoverSlots := float64(budgetSlots[h.Name] - j.SlotRequired())
			score := freeSlotsW*float64(budgetSlots[h.Name]) +
				freeMemW*float64(budgetMem[h.Name]) +
				tightFitW*(-leftoverSlots) +
				cpuFactorW*h.CPUFactor +
				priorityW*float64(j.Priority)
			if best == nil || score > bestScore {
				best = h
				bestScore = score
			}
		}
		if best == nil {
			continue
		}
		assignments = append(assignments, queue.Assignment{Job: j, Host: best})
		budgetSlots[best.Name] -= j.SlotRequired()
		budgetMem[best.Name] -= j.MemRequired()
	}
	return assignments
}
