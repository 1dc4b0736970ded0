// Command simga is the cluster simulator and genetic policy optimizer
// entry point (spec.md §6), generalizing the teacher's pkg/main.go
// flag-parsing-then-serve shape into an urfave/cli/v2 command with a
// subcommand per mode of operation.
package main

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/clustersim/simga/config"
	"github.com/clustersim/simga/pkg/cluster"
	"github.com/clustersim/simga/pkg/common/logger"
	"github.com/clustersim/simga/pkg/genetic"
	"github.com/clustersim/simga/pkg/job"
	"github.com/clustersim/simga/pkg/monitor"
	"github.com/clustersim/simga/pkg/queue"
	"github.com/clustersim/simga/pkg/queue/policy"
	"github.com/clustersim/simga/pkg/report"
	"github.com/clustersim/simga/pkg/scenario"
	"github.com/clustersim/simga/pkg/simerrors"
	"github.com/clustersim/simga/pkg/simulation"
	"github.com/clustersim/simga/pkg/topology"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

func main() {
	fmt.Printf("%s (v%s)\n", config.Msg, config.Version)

	logger.InitLogger()
	defer logger.Flush()

	app := &cli.App{
		Name:  config.Name,
		Usage: config.Msg,
		Commands: []*cli.Command{
			runCommand(),
			optimizeCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		logger.GetLogger().Error(err, "simga exited with error")
		os.Exit(1)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "run one simulation over a scenario and topology",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scenario", Required: true, Usage: "path to the scenario CSV file"},
			&cli.StringFlag{Name: "topology", Required: true, Usage: "path to the cluster topology CSV file"},
			&cli.StringFlag{Name: "policy", Value: "olb", Usage: "queue algorithm: one of " + fmt.Sprint(policy.Names())},
			&cli.StringFlag{Name: "out", Value: config.LogDirectory, Usage: "directory to write report files into"},
			&cli.BoolFlag{Name: "console", Value: false, Usage: "mirror log output to stdout"},
			&cli.StringFlag{Name: "mongo", Usage: "mirror jobmart rows into the named Mongo database in addition to the output files"},
		},
		Action: func(c *cli.Context) error {
			log := logger.GetLogger().WithValues("run_id", uuid.New().String())

			scn, clus, err := loadInputs(c.String("scenario"), c.String("topology"))
			if err != nil {
				return err
			}

			algo, err := policy.Lookup(c.String("policy"))
			if err != nil {
				return err
			}
			q := queue.New("default", 0, algo)

			cfg := config.DefaultSimulationConfig()
			cfg.ConsoleOutput = c.Bool("console")
			cfg.LogDirectory = c.String("out")

			rec := report.New(c.String("out"), cfg.JobmartFileOutput, cfg.SlotsFileOutput, cfg.JobSubmitFileOutput)

			if db := c.String("mongo"); db != "" {
				sink, err := report.ConnectMongoSink(db)
				if err != nil {
					return err
				}
				defer sink.Close()
				rec.SetMongoSink(sink)
			}

			eng, err := simulation.New(cfg, scn, clus, []*queue.Queue{q}, job.NewCounter(), rec, log)
			if err != nil {
				return err
			}
			if err := eng.Run(); err != nil {
				return err
			}
			if err := rec.Flush(); err != nil {
				return err
			}
			summary := eng.Summary()
			if err := report.WriteSummary(c.String("out"), summary); err != nil {
				return err
			}

			log.Info("simulation complete",
				"submitted", summary.NumSubmittedJobs,
				"successful", summary.NumSuccessfulJobs,
				"failed", summary.NumFailedJobs,
				"total_pending_ms", summary.TotalPendingDurationMs,
			)
			return nil
		},
	}
}

func optimizeCommand() *cli.Command {
	return &cli.Command{
		Name:  "optimize",
		Usage: "search queue-policy parameters with the genetic algorithm driver",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scenario", Required: true, Usage: "path to the scenario CSV file"},
			&cli.StringFlag{Name: "topology", Required: true, Usage: "path to the cluster topology CSV file"},
			&cli.StringFlag{Name: "population", Usage: "path to a saved population blob to resume from"},
			&cli.IntFlag{Name: "iterations", Value: config.NumIterations, Usage: "number of generations to run"},
			&cli.IntFlag{Name: "pop-size", Value: config.NumPopulationToKeep, Usage: "population size"},
			&cli.IntFlag{Name: "offspring", Value: config.NumOffspring, Usage: "offspring per generation"},
			&cli.IntFlag{Name: "genes", Value: 8, Usage: "gene count per chromosome"},
			&cli.Float64Flag{Name: "mutation-rate", Value: config.MutationRate, Usage: "per-gene mutation probability"},
			&cli.IntFlag{Name: "save-interval", Value: config.SaveInterval, Usage: "generations between population checkpoints"},
			&cli.StringFlag{Name: "out", Value: "reports", Usage: "directory to write GA artifacts into"},
			&cli.BoolFlag{Name: "console", Value: false, Usage: "log each generation's best fitness"},
			&cli.BoolFlag{Name: "serve", Value: false, Usage: "expose /status, /best and /metrics while optimizing"},
		},
		Action: func(c *cli.Context) error {
			log := logger.GetLogger().WithValues("run_id", uuid.New().String())

			scn, clus, err := loadInputs(c.String("scenario"), c.String("topology"))
			if err != nil {
				return err
			}

			hosts := make([]genetic.HostSpec, 0, len(clus.Hosts()))
			for _, h := range clus.Hosts() {
				hosts = append(hosts, genetic.HostSpec{
					Name: h.Name, TotalSlots: h.TotalSlots, TotalMemory: h.TotalMemory, CPUFactor: h.CPUFactor,
				})
			}
			var entries []job.Entry
			for {
				e, ok := scn.PopNext()
				if !ok {
					break
				}
				entries = append(entries, e)
			}

			simCfg := config.DefaultSimulationConfig()
			env := genetic.NewEnvironment(simCfg, entries, hosts, log)

			gaCfg := config.DefaultGAConfig()
			gaCfg.NumPopulationToKeep = c.Int("pop-size")
			gaCfg.NumOffspring = c.Int("offspring")
			gaCfg.GeneCount = c.Int("genes")
			gaCfg.MutationRate = c.Float64("mutation-rate")
			gaCfg.SaveInterval = c.Int("save-interval")
			gaCfg.ConsoleOutput = c.Bool("console")

			rng := rand.New(rand.NewSource(time.Now().UnixNano()))
			driver := genetic.NewDriver(gaCfg, env, rng, c.String("out"), log)

			var initial []*genetic.Chromosome
			if p := c.String("population"); p != "" {
				initial, err = genetic.LoadPopulation(p)
				if err != nil {
					return err
				}
			}
			if err := driver.Seed(initial); err != nil {
				var incompatible *simerrors.IncompatiblePopulation
				if errors.As(err, &incompatible) {
					fmt.Println("Incompatible population.")
					return nil
				}
				return err
			}

			if c.Bool("serve") {
				m := monitor.New()
				driver.Observer = m.Observe
				go func() {
					log.Info("monitor listening", "port", config.Port)
					if err := http.ListenAndServe(":"+config.Port, m.Router); err != nil {
						log.Error(err, "monitor server exited")
					}
				}()
			}

			return driver.Run(c.Int("iterations"))
		},
	}
}

func loadInputs(scenarioPath, topologyPath string) (*scenario.Scenario, *cluster.Cluster, error) {
	sf, err := os.Open(scenarioPath)
	if err != nil {
		return nil, nil, err
	}
	defer sf.Close()
	scn, err := scenario.ParseCSV(sf)
	if err != nil {
		return nil, nil, err
	}

	tf, err := os.Open(topologyPath)
	if err != nil {
		return nil, nil, err
	}
	defer tf.Close()
	clus, err := topology.ParseCSV(tf)
	if err != nil {
		return nil, nil, err
	}

	return scn, clus, nil
}
