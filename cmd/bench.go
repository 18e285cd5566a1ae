package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cachesim/cachesim/sim/bench"
	"github.com/cachesim/cachesim/sim/workload"
)

var (
	benchSizes  []int    // Cache capacities to sweep
	benchCaches []string // Cache names to include (default all)
	benchList   bool     // List cache names and exit
)

// benchCmd replays the workload against real cache libraries
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Replay a workload against production cache libraries",
	Long: "Replay the generated workload against the simulated policies and a set of production\n" +
		"cache libraries, printing each cache's hit rate at every capacity.",
	Run: func(cmd *cobra.Command, args []string) {
		if benchList {
			for _, name := range bench.AvailableNames() {
				fmt.Println(name)
			}
			return
		}

		spec, err := runSpec()
		if err != nil {
			logrus.Fatalf("Invalid workload: %v", err)
		}
		keys, err := workload.Generate(spec)
		if err != nil {
			logrus.Fatalf("Invalid workload: %v", err)
		}

		bench.SetFilter(benchCaches)
		logrus.Infof("Benchmarking %d caches over %d accesses", len(bench.All()), len(keys))
		results := bench.RunHitRate(keys, benchSizes)
		fmt.Print(bench.Table(results, benchSizes))
	},
}

// init sets up CLI flags for the bench subcommand
func init() {
	addWorkloadFlags(benchCmd)

	benchCmd.Flags().IntSliceVar(&benchSizes, "sizes", bench.DefaultSizes, "Cache capacities to sweep")
	benchCmd.Flags().StringSliceVar(&benchCaches, "caches", nil, "Cache names to include (default all)")
	benchCmd.Flags().BoolVar(&benchList, "list", false, "List cache names and exit")

	rootCmd.AddCommand(benchCmd)
}
