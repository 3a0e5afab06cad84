package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/printlayout/internal/config"
	"github.com/lehigh-university-libraries/printlayout/internal/logging"
)

// rootOptions carries the global flags and the configuration they resolve to
type rootOptions struct {
	configPath string
	verbose    bool
	cfg        config.Config
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "printlayout",
		Short: "Lay out images on a print canvas and price the result",
		Long: `Printlayout places images on a fixed-size canvas, lets you move and resize
them on a snapping grid, and prices each one by its printed area.

It can run as a web interface, as a terminal UI, or as a batch quote over a
layout manifest.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			logging.Setup(os.Stderr, opts.verbose)

			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML or TOML config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")

	// Add subcommands
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newQuoteCmd(opts))
	cmd.AddCommand(newTUICmd(opts))

	return cmd
}
