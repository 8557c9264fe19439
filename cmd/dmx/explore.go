package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	dmx "github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/config"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/document"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/engine"
	"github.com/spf13/cobra"
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Search for runs that break mutual exclusion.",
	Long: "`explore --algorithm RA --processes 3 --crash-recovery 1 --out fail.json` simulates random runs " +
		"with crash faults and writes the first run that breaks mutual exclusion as a replayable script.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("algorithm")
		n, _ := cmd.Flags().GetInt("processes")
		alg, err := engine.ParseAlgorithm(name)
		if err != nil {
			return err
		}

		opts, err := simulatorOptions(cmd)
		if err != nil {
			return err
		}
		if path, _ := cmd.Flags().GetString("tree"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			opts = append(opts, config.ExportOption{W: f})
		}

		report, err := dmx.PrepareSimulation(alg, n, opts...).
			WithModelOptions(engine.TraceLimitOption{Limit: env.TraceLimit}).
			Run()
		if err != nil {
			return err
		}

		ok, desc := report.Response.Response()
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "Runs:\t%d\n", report.Runs)
		fmt.Fprintf(tw, "Distinct runs:\t%d\n", report.DistinctRuns)
		fmt.Fprintf(tw, "Holds:\t%v\n", ok)
		tw.Flush()
		fmt.Fprintln(cmd.OutOrStdout(), desc)
		if ok {
			return nil
		}

		if path, _ := cmd.Flags().GetString("out"); path != "" {
			raw, err := document.Marshal(report.Response.Script())
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, raw, 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Counterexample written to %s\n", path)
		}
		return errViolation
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
	exploreCmd.Flags().StringP("algorithm", "a", document.AlgorithmTokenRing, "TokenRing or RA")
	exploreCmd.Flags().IntP("processes", "n", 3, "Number of processes")
	exploreCmd.Flags().Int("runs", 1000, "Maximum number of runs")
	exploreCmd.Flags().Int("depth", 60, "Maximum number of events in a run")
	exploreCmd.Flags().Int64("seed", 1, "Seed of the random scheduler")
	exploreCmd.Flags().Int("concurrent", 0, "Number of runs simulated at the same time. Defaults to GOMAXPROCS")
	exploreCmd.Flags().Bool("exhaustive", false, "Explore every run up to the depth instead of random runs")
	exploreCmd.Flags().Int("crash-recovery", 0, "Let processes crash and recover, at most this many crashes per run")
	exploreCmd.Flags().IntSlice("fail", nil, "Processes that may crash and never recover")
	exploreCmd.Flags().Bool("omissions", false, "Let runs drop the token and messages")
	exploreCmd.Flags().String("out", "", "Write the first violating run to this file as a script")
	exploreCmd.Flags().String("tree", "", "Write the explored runs to this file in Newick format")
}

func simulatorOptions(cmd *cobra.Command) ([]config.SimulatorOption, error) {
	runs, _ := cmd.Flags().GetInt("runs")
	depth, _ := cmd.Flags().GetInt("depth")
	seed, _ := cmd.Flags().GetInt64("seed")
	concurrent, _ := cmd.Flags().GetInt("concurrent")
	exhaustive, _ := cmd.Flags().GetBool("exhaustive")
	crashes, _ := cmd.Flags().GetInt("crash-recovery")
	failing, _ := cmd.Flags().GetIntSlice("fail")
	omissions, _ := cmd.Flags().GetBool("omissions")

	opts := []config.SimulatorOption{
		dmx.MaxRuns(runs),
		dmx.MaxDepth(depth),
		dmx.Seed(seed),
	}
	if concurrent > 0 {
		opts = append(opts, dmx.NumConcurrent(concurrent))
	}
	if exhaustive {
		opts = append(opts, dmx.PrefixScheduler())
	}
	switch {
	case crashes > 0 && len(failing) > 0:
		return nil, errors.New("--crash-recovery and --fail can not be used together")
	case crashes > 0:
		opts = append(opts, dmx.WithCrashRecoveryFailureManager(crashes))
	case len(failing) > 0:
		opts = append(opts, dmx.WithPerfectFailureManager(failing...))
	}
	if omissions {
		opts = append(opts, dmx.WithOmissionFaults())
	}
	return opts, nil
}
