package main

import (
	"fmt"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/document"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/engine"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Print the snapshot of a fresh model.",
	Long:  "`new --algorithm RA --processes 3 --steps 2` prints the snapshot after two steps.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("algorithm")
		n, _ := cmd.Flags().GetInt("processes")
		steps, _ := cmd.Flags().GetInt("steps")

		alg, err := engine.ParseAlgorithm(name)
		if err != nil {
			return err
		}
		opts, rec, err := modelOptions(cmd)
		if err != nil {
			return err
		}
		if rec != nil {
			defer rec.Close()
		}

		m, err := engine.New(alg, n, opts...)
		if err != nil {
			return err
		}
		for i := 0; i < steps; i++ {
			m.Step()
		}

		raw, err := document.Marshal(m.Snapshot())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(raw))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringP("algorithm", "a", document.AlgorithmTokenRing, "TokenRing or RA")
	newCmd.Flags().IntP("processes", "n", 4, "Number of processes")
	newCmd.Flags().Int("steps", 0, "Number of steps to take before printing")
}
