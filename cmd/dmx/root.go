package main

import (
	"log"
	"os"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/config"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/engine"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/recorder"
	"github.com/spf13/cobra"
)

// Settings shared by all commands, read before any command runs
var env config.Env

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dmx",
	Short: "Explore distributed mutual exclusion algorithms.",
	Long: `dmx runs Token Ring and Ricart-Agrawala with injected faults. ` +
		`It can replay scripted scenarios, search for runs that break mutual exclusion ` +
		`and serve an interactive session over gRPC and HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		files, _ := cmd.Flags().GetStringSlice("env")
		var err error
		env, err = config.LoadEnv(files...)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("trace-db") {
			env.TraceDB, _ = cmd.Flags().GetString("trace-db")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("env", nil, "Environment files to read. Defaults to .env if it exists")
	rootCmd.PersistentFlags().String("trace-db", "", "Record the trace to this sqlite database")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Write trace entries to stderr as they happen")
}

// The options for the models created by a command.
//
// The returned recorder is nil unless the trace is recorded. The caller must close it.
func modelOptions(cmd *cobra.Command) ([]engine.ModelOption, *recorder.Recorder, error) {
	opts := []engine.ModelOption{engine.TraceLimitOption{Limit: env.TraceLimit}}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		opts = append(opts, engine.LoggerOption{Logger: log.New(os.Stderr, "", 0)})
	}
	if env.TraceDB == "" {
		return opts, nil, nil
	}
	rec, err := recorder.New(env.TraceDB)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("Recording run %v to %v", rec.RunID(), rec.DBName())
	return append(opts, engine.TraceSinkOption{Sink: rec}), rec, nil
}
