package config

import "time"

// Identity and monitoring-server constants, in the spirit of the
// teacher's own config package.
const (
	Name       = "simga"
	Msg        = "Cluster Simulator & Genetic Policy Optimizer"
	Version    = "0.1.0"
	Port       = "58080"
	EntryPoint = "/status"
	Namespace  = "simga"
)

// Default simulation-engine timing constants (spec.md §6 compile-time
// configuration flags). These are the defaults baked into
// DefaultSimulationConfig(); every one of them can be overridden by
// the caller, which is how "compile-time flag explosion" (spec.md §9)
// is resolved without losing any of the original behavior.
const (
	DispatchFrequency = 1000 * time.Millisecond
	LoggingFrequency  = 10000 * time.Millisecond
	CountingFrequency = 10000 * time.Millisecond
	RuntimeMultiplier = 1.0

	LogDirectory        = "logs"
	LogOutputFileName   = "log_output.txt"
	JobmartFileName     = "jobmart_raw_replica.txt"
	PerformanceFileName = "performance.txt"
	PendingFileName     = "pending.txt"
	JobSubmitFileName   = "job_submit.txt"
)

// Default genetic-algorithm constants (spec.md §4.8, §6).
const (
	NumPopulationToKeep = 32
	NumOffspring         = 16
	NumIterations         = 200
	MutationRate          = 0.05
	SaveInterval          = 10

	LastPopulationFile = "last_population.bin"
	BestChromosomeFile = "best_chromosome.bin"
	EpochRecordFile    = "records.csv"
	SummaryFile        = "summary.txt"

	// UnsatisfiableJobPenalty scales num_failed_jobs in the fitness
	// objective (spec.md §4.7).
	UnsatisfiableJobPenalty = 100000.0
)

// SimulationConfig is the explicit configuration record that replaces
// the original's compile-time booleans (spec.md DESIGN NOTES,
// "Compile-time flag explosion"). It is passed once at construction
// of a Simulation Engine.
type SimulationConfig struct {
	// UseOnlyDefaultQueue routes every submitted job into a single
	// default Queue regardless of the scenario entry's queue name.
	UseOnlyDefaultQueue bool
	// UseStaticHostTableForJobs selects the eligibility rule in
	// Host.IsEligible: static capacity table vs. current free
	// resources (spec.md §4.2).
	UseStaticHostTableForJobs bool
	// ConsoleOutput mirrors the teacher's CONSOLE_OUTPUT flag.
	ConsoleOutput bool
	LogFileOutput bool
	JobmartFileOutput bool
	SlotsFileOutput   bool
	JobSubmitFileOutput bool
	DebugEvents bool

	DispatchFrequency time.Duration
	LoggingFrequency  time.Duration
	CountingFrequency time.Duration
	RuntimeMultiplier float64

	LogDirectory string
}

// DefaultSimulationConfig returns the configuration that reproduces
// the original C++ simulator's compile-time defaults.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		UseOnlyDefaultQueue:       true,
		UseStaticHostTableForJobs: true,
		ConsoleOutput:             false,
		LogFileOutput:             true,
		JobmartFileOutput:         true,
		SlotsFileOutput:           true,
		JobSubmitFileOutput:       true,
		DebugEvents:               false,
		DispatchFrequency:         DispatchFrequency,
		LoggingFrequency:          LoggingFrequency,
		CountingFrequency:         CountingFrequency,
		RuntimeMultiplier:         RuntimeMultiplier,
		LogDirectory:              LogDirectory,
	}
}

// GAConfig holds the genetic algorithm's tunable constants (spec.md
// §4.8, §6). Passed once to genetic.NewDriver.
type GAConfig struct {
	NumPopulationToKeep int
	NumOffspring        int
	NumIterations       int
	MutationRate        float64
	SaveInterval        int
	ConsoleOutput       bool
	GeneCount           int
}

// DefaultGAConfig returns the defaults mirroring the original binary.
func DefaultGAConfig() GAConfig {
	return GAConfig{
		NumPopulationToKeep: NumPopulationToKeep,
		NumOffspring:        NumOffspring,
		NumIterations:       NumIterations,
		MutationRate:        MutationRate,
		SaveInterval:        SaveInterval,
		ConsoleOutput:       false,
		GeneCount:           8,
	}
}
