// Package cluster implements the Host and Cluster components from
// spec.md §4.2 and §4.1 (C2, C3), adapted from the teacher's
// node/placement bookkeeping (_examples/heyfey-vodascheduler's
// pkg/placement nodeState) into a plain resource-accounting model with
// no Kubernetes dependency.
package cluster

import (
	"github.com/clustersim/simga/pkg/common/types"
)

// Job is the minimal view of a job that Host needs to decide
// eligibility and allocation, kept narrow so pkg/cluster does not
// import pkg/job (spec.md §9, cyclic references resolved via narrow
// interfaces rather than mutual ownership).
type Job interface {
	SlotRequired() int
	MemRequired() int64
}

// Host is a resource unit within a Cluster (spec.md §4.2).
type Host struct {
	Name   string
	Status types.HostStatus

	TotalSlots int
	FreeSlots  int

	TotalMemory int64
	FreeMemory  int64

	// CPUFactor scales a job's cpu_time at dispatch (spec.md §4.2,
	// ExpectedRunTime). A factor of zero is treated as 1.
	CPUFactor float64

	cluster *Cluster
}

// NewHost constructs a Host with full free capacity and OK status.
func NewHost(name string, totalSlots int, totalMemory int64, cpuFactor float64) *Host {
	if cpuFactor == 0 {
		cpuFactor = 1
	}
	return &Host{
		Name:        name,
		Status:      types.HostOK,
		TotalSlots:  totalSlots,
		FreeSlots:   totalSlots,
		TotalMemory: totalMemory,
		FreeMemory:  totalMemory,
		CPUFactor:   cpuFactor,
	}
}

// TryAllocate attempts to reserve the job's required slots and memory.
// Succeeds iff the host is OK and has enough free capacity; on success
// it decrements free resources and bumps the owning Cluster's version.
// Single-threaded within one simulation run, so no locking is needed
// (spec.md §5).
func (h *Host) TryAllocate(job Job) bool {
	if h.Status != types.HostOK {
		return false
	}
	if h.FreeSlots < job.SlotRequired() || h.FreeMemory < job.MemRequired() {
		return false
	}
	h.FreeSlots -= job.SlotRequired()
	h.FreeMemory -= job.MemRequired()
	h.bumpVersion()
	return true
}

// Release returns a job's resources to the host's free pool.
func (h *Host) Release(job Job) {
	h.FreeSlots += job.SlotRequired()
	h.FreeMemory += job.MemRequired()
	h.bumpVersion()
}

// IsEligible reports whether this host could ever (static mode) or
// could right now (dynamic mode) run the given job (spec.md §4.2).
// The mode is selected by useStaticTable, mirroring the compile-time
// flag USE_STATIC_HOST_TABLE_FOR_JOBS now carried in
// config.SimulationConfig instead of being baked in at build time.
func (h *Host) IsEligible(job Job, useStaticTable bool) bool {
	if h.Status != types.HostOK {
		return false
	}
	if useStaticTable {
		return h.TotalSlots >= job.SlotRequired() && h.TotalMemory >= job.MemRequired()
	}
	return h.FreeSlots >= job.SlotRequired() && h.FreeMemory >= job.MemRequired()
}

// CanEverSatisfy reports whether this host's total capacity could
// ever satisfy the job, regardless of current free resources. Used to
// detect UnsatisfiableJob (spec.md §4.6, §7).
func (h *Host) CanEverSatisfy(job Job) bool {
	return h.TotalSlots >= job.SlotRequired() && h.TotalMemory >= job.MemRequired()
}

// ExpectedRunTime computes cpu_time/cpu_factor + non_cpu_time, rounded
// to whole milliseconds toward zero, then scaled by the configured
// runtime multiplier (spec.md §4.2, §9 open question on
// RUNTIME_MULTIPLIER).
func (h *Host) ExpectedRunTime(cpuTimeMs, nonCPUTimeMs int64, runtimeMultiplier float64) int64 {
	factor := h.CPUFactor
	if factor == 0 {
		factor = 1
	}
	runMs := int64(float64(cpuTimeMs)/factor) + nonCPUTimeMs
	if runtimeMultiplier != 0 {
		runMs = int64(float64(runMs) * runtimeMultiplier)
	}
	return runMs
}

func (h *Host) bumpVersion() {
	if h.cluster != nil {
		h.cluster.bumpVersion()
	}
}
