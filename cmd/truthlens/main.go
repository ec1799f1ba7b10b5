package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/truthlens/truthlens/logging"
)

var (
	flagConfig   string
	flagModelDir string
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "truthlens",
	Short: "Voice authenticity scoring for deepfake detection",
	Long: `truthlens scores voice recordings for synthetic-speech likelihood.

It extracts a deterministic acoustic feature vector from a clip, runs a
two-model tree ensemble over it, measures how far the clip sits from the
reference population, and emits a tamper-evident forensic record.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			logging.SetLevel(logging.DebugLevel)
		} else {
			logging.SetLevel(logging.WarnLevel)
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVarP(&flagModelDir, "models", "m", "", "model artifact directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(verifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
