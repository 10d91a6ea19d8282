package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/propshield/credit-iapp/internal/config"
	"github.com/propshield/credit-iapp/internal/iapp"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "credit-iapp",
	Short: "Score a rent roll and emit a credit summary",
	Long: `Reads rent_roll.csv from $IEXEC_IN, computes the annualized verified income,
a 0-100 credit score and a LOW/MEDIUM/HIGH risk rating, and writes result.json
to $IEXEC_OUT. Both directories default to the working directory.

A computed.json manifest is also written to $IEXEC_OUT. On failure result.json
is not written, but computed.json is still written with an error-message entry
(set CREDIT_OUTPUT_COMPUTED_MANIFEST=false to disable it). The exit code is 1.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return score(cmd, afero.NewOsFs(), cmd.OutOrStdout())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// score runs the iApp once and surfaces a failed outcome as the command error.
func score(cmd *cobra.Command, fs afero.Fs, stdout io.Writer) error {
	outcome := iapp.NewRunner(fs, cfg, stdout).Run(cmd.Context())
	if !outcome.OK() {
		return outcome.Err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
