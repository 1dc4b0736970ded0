// Package types holds value types shared across the simulator and the
// genetic optimizer, the way the teacher's common/types package holds
// enums shared between its scheduler and jobmaster.
package types

// JobState is the lifecycle state of a Job (spec.md §3). All twelve
// values from the original header are kept even though this simulator
// only ever drives a job through WAIT -> PEND -> RUN -> {DONE, EXIT};
// the remaining values exist so reports and fixtures that reference
// externally-injected states (e.g. replaying a jobmart trace) have
// somewhere to land.
type JobState string

const (
	JobWait     JobState = "WAIT"
	JobPend     JobState = "PEND"
	JobRun      JobState = "RUN"
	JobDone     JobState = "DONE"
	JobExit     JobState = "EXIT"
	JobPSusp    JobState = "PSUSP"
	JobUSusp    JobState = "USUSP"
	JobSSusp    JobState = "SSUSP"
	JobPostDone JobState = "POST_DONE"
	JobPostErr  JobState = "POST_ERR"
	JobUnknown  JobState = "UNKWN"
	JobZombie   JobState = "ZOMBI"
)

// HostStatus is the operational status of a Host (spec.md §4.2).
type HostStatus string

const (
	HostOK      HostStatus = "OK"
	HostClosed  HostStatus = "CLOSED"
	HostUnavail HostStatus = "UNAVAIL"
)

// ChromosomeType tags the operator that produced a Chromosome
// (spec.md §4.7, GLOSSARY).
type ChromosomeType string

const (
	ChromosomeInitial   ChromosomeType = "INITIAL"
	ChromosomeCrossover ChromosomeType = "CROSSOVER"
	ChromosomeMutation  ChromosomeType = "MUTATION"
)

// EventType tags the kind of action an EventItem carries (spec.md
// §3, §9 "Function-valued event actions").
type EventType string

const (
	EventScenario    EventType = "SCENARIO"
	EventJobFinished EventType = "JOB_FINISHED"
	EventJobReserved EventType = "JOB_RESERVED"
	EventDispatch    EventType = "DISPATCH"
	EventLog         EventType = "LOG"
)
