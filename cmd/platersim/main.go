package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:          "platersim",
		Short:        "Plating line cycle-time and throughput simulator",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log search progress to stderr")

	rootCmd.AddCommand(simulateCmd(&verbose))
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(sweepCmd(&verbose))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func simulateCmd(verbose *bool) *cobra.Command {
	opts := simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate [line-file]",
		Short: "Run a full simulation and print cycle time, hoists and throughput",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.hoistsSet = cmd.Flags().Changed("hoists")
			return runSimulate(cmd.Context(), args[0], opts, *verbose)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result record as JSON")
	cmd.Flags().IntVar(&opts.hoists, "hoists", 0, "force a hoist count (overrides the file)")
	cmd.Flags().StringVar(&opts.target, "target", "", "optimization target: throughput, hoists or balanced")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "abort the run after this long")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [line-file]",
		Short: "Check a line file without scheduling it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func sweepCmd(verbose *bool) *cobra.Command {
	var maxHoists int

	cmd := &cobra.Command{
		Use:   "sweep [line-file]",
		Short: "Tabulate cycle time and output for each hoist count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd.Context(), args[0], maxHoists, *verbose)
		},
	}

	cmd.Flags().IntVar(&maxHoists, "max-hoists", 0, "largest hoist count to try (default: one per station)")
	return cmd
}
