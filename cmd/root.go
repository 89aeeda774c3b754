package cmd

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/urgentcare-sim/urgentcare-sim/sim/clinic"
	"github.com/urgentcare-sim/urgentcare-sim/sim/report"
)

var (
	logLevel     string  // Log verbosity level
	horizon      float64 // Simulated run length per replication (minutes)
	replications int     // Number of independent replications
	baseSeed     int64   // Base seed; replication i uses baseSeed+i
	scenarioPath string  // Optional scenario YAML overriding defaults
	arrivalsPath string  // Optional CSV arrival profile overriding the scenario's
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "urgentcare-sim",
	Short: "Discrete-event simulator for urgent-care patient flow",
}

// runCmd executes the simulation batch using parameters from flags and the
// optional scenario file
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the urgent-care simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := clinic.DefaultConfig()
		if scenarioPath != "" {
			if err := LoadScenario(scenarioPath, cfg); err != nil {
				logrus.Fatalf("unable to read scenario config: %v", err)
			}
		}
		if arrivalsPath != "" {
			rates, err := LoadArrivalProfile(arrivalsPath)
			if err != nil {
				logrus.Fatalf("unable to read arrival profile: %v", err)
			}
			cfg.ArrivalRates = rates
		}

		// Flags override both defaults and the scenario file.
		if cmd.Flags().Changed("horizon") {
			cfg.Horizon = horizon
		}
		if cmd.Flags().Changed("replications") {
			cfg.Replications = replications
		}
		if cmd.Flags().Changed("seed") {
			cfg.BaseSeed = baseSeed
		}

		records, err := clinic.RunReplications(cfg)
		if err != nil {
			logrus.Fatalf("simulation failed: %v", err)
		}
		summary, err := report.Aggregate(records)
		if err != nil {
			logrus.Fatalf("aggregation failed: %v", err)
		}
		printSummary(summary)
	},
}

// printSummary renders the KPI report as a terminal table.
func printSummary(s *report.Summary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetTitle("KPIs over %d replications", s.Replications)
	tw.AppendRow(table.Row{"Mean arrivals", "", s.MeanArrivals})
	tw.AppendRow(table.Row{"Throughput (completed)", "", s.Throughput})
	tw.AppendSeparator()
	for _, name := range s.ResourceNames() {
		kpi := s.Resources[name]
		tw.AppendRow(table.Row{"Mean wait (min)", name, kpi.MeanWait})
		tw.AppendRow(table.Row{"Utilization", name, kpi.Utilization})
	}
	tw.AppendSeparator()
	for _, class := range s.Classes() {
		tw.AppendRow(table.Row{"Mean time in system (min)", class, s.MeanTimeInSystem[class]})
	}
	tw.Render()
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().Float64Var(&horizon, "horizon", 1080, "Simulated run length per replication, in minutes")
	runCmd.Flags().IntVar(&replications, "replications", 5, "Number of independent replications")
	runCmd.Flags().Int64Var(&baseSeed, "seed", 42, "Base seed; replication i runs with seed+i")
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a scenario YAML file")
	runCmd.Flags().StringVar(&arrivalsPath, "arrivals", "", "Path to a CSV arrival profile (period,rate-per-hour)")

	rootCmd.AddCommand(runCmd)
}
