package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cachesim/cachesim/sim"
	"github.com/cachesim/cachesim/sim/trace"
	"github.com/cachesim/cachesim/sim/workload"
)

var (
	// Cache configuration
	capacity  int      // Resident capacity of every cache
	kValue    int      // LRU-K promotion threshold
	maxK      int      // Upper bound for adaptive K growth
	adaptiveK bool     // Adjust K from the recent hit rate
	policies  []string // Policies to simulate

	// Workload configuration
	workloadKind string  // Workload kind
	workloadSize int     // Number of accesses to generate
	keySpace     int     // Number of distinct keys
	seed         int64   // Seed for workload generation
	theta        float64 // Zipf skew exponent
	scriptPath   string  // Lua script defining key(step, key_space)
	customKeys   string  // Delimited key sequence for custom workloads
	workloadFile string  // YAML workload spec; overrides the workload flags

	// Output
	tracePath string // Step trace destination (.zst compresses)
)

// runCmd replays one workload through the configured policies
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a cache simulation and print the hit-rate summary",
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := runSpec()
		if err != nil {
			logrus.Fatalf("Invalid workload: %v", err)
		}
		keys, err := workload.Generate(spec)
		if err != nil {
			logrus.Fatalf("Invalid workload: %v", err)
		}

		active, err := sim.ActivePoliciesFromNames(policies)
		if err != nil {
			logrus.Fatalf("Invalid policies: %v", err)
		}
		driver, err := sim.NewDriver(sim.Config{
			Capacity:  capacity,
			K:         kValue,
			MaxK:      maxK,
			AdaptiveK: adaptiveK,
			Active:    active,
		}, keys)
		if err != nil {
			logrus.Fatalf("Invalid simulation config: %v", err)
		}

		var recorder *trace.Recorder
		if tracePath != "" {
			recorder, err = trace.Create(tracePath)
			if err != nil {
				logrus.Fatalf("Cannot create trace: %v", err)
			}
		}

		logrus.Infof("Starting simulation: %d steps, %s workload", driver.TotalSteps(), spec.Kind)
		startTime := time.Now()

		summary := trace.NewSummary()
		for event := range driver.Run(context.Background()) {
			summary.Observe(event)
			if recorder != nil {
				if err := recorder.Record(event); err != nil {
					logrus.Fatalf("Cannot write trace: %v", err)
				}
			}
		}
		if recorder != nil {
			if err := recorder.Close(); err != nil {
				logrus.Fatalf("Cannot close trace: %v", err)
			}
			logrus.Infof("Trace written to %s (%d steps)", tracePath, recorder.Steps())
		}

		fmt.Print(summary.Table())
		logrus.Infof("Simulation complete in %s.", time.Since(startTime).Round(time.Millisecond))
	},
}

// runSpec assembles the workload spec from --workload-file or the
// individual workload flags.
func runSpec() (workload.Spec, error) {
	if workloadFile != "" {
		spec, err := workload.LoadSpec(workloadFile)
		if err != nil {
			return workload.Spec{}, err
		}
		return *spec, nil
	}
	spec := workload.Spec{
		Kind:       workloadKind,
		Size:       workloadSize,
		KeySpace:   keySpace,
		Seed:       seed,
		Theta:      theta,
		ScriptFile: scriptPath,
	}
	if customKeys != "" {
		keys, err := workload.ParseKeys(customKeys)
		if err != nil {
			return workload.Spec{}, err
		}
		spec.Keys = keys
	}
	return spec, nil
}

// addWorkloadFlags registers the workload flags shared by run and bench
func addWorkloadFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&workloadKind, "workload", "realistic", "Workload kind (realistic, scan, random, zipf, custom, lua)")
	cmd.Flags().IntVar(&workloadSize, "size", 100, "Number of accesses to generate")
	cmd.Flags().IntVar(&keySpace, "key-space", 20, "Number of distinct keys")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Seed for workload generation")
	cmd.Flags().Float64Var(&theta, "theta", workload.DefaultTheta, "Zipf skew exponent")
	cmd.Flags().StringVar(&scriptPath, "script", "", "Lua script defining key(step, key_space)")
	cmd.Flags().StringVar(&customKeys, "keys", "", "Comma- or space-delimited keys for custom workloads")
	cmd.Flags().StringVar(&workloadFile, "workload-file", "", "YAML workload spec (overrides the workload flags)")
}

// init sets up CLI flags for the run subcommand
func init() {
	runCmd.Flags().IntVar(&capacity, "capacity", 3, "Resident capacity of every cache")
	runCmd.Flags().IntVar(&kValue, "k", 2, "LRU-K promotion threshold")
	runCmd.Flags().IntVar(&maxK, "max-k", 0, "Upper bound for adaptive K growth (0 = default)")
	runCmd.Flags().BoolVar(&adaptiveK, "adaptive", false, "Adjust K from the recent hit rate")
	runCmd.Flags().StringSliceVar(&policies, "policies", []string{"lru", "lfu", "lruk"}, "Policies to simulate (lru, lfu, lruk)")

	addWorkloadFlags(runCmd)

	runCmd.Flags().StringVar(&tracePath, "trace", "", "Write per-step events to this file (.zst compresses)")

	rootCmd.AddCommand(runCmd)
}
