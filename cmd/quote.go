package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/printlayout/internal/assets"
	"github.com/lehigh-university-libraries/printlayout/internal/infopanel"
	"github.com/lehigh-university-libraries/printlayout/internal/quote"
)

func newQuoteCmd(opts *rootOptions) *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "quote <manifest>",
		Short: "Price a layout described by a manifest",
		Long: `Places every image listed in a YAML layout manifest, applies its scale and
position, and prints the resulting cost listing.

Manifest format:
  images:
    - path: poster.png
      name: Poster
      left: 200
      top: 150
      scale_x: 1.5
      scale_y: 1.5`,
		Example: `  # Print the quote as text
  printlayout quote layout.yaml

  # Export metrics rows as Parquet
  printlayout quote layout.yaml --format parquet --output quote.parquet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case infopanel.FormatText, infopanel.FormatJSON, infopanel.FormatYAML, quote.FormatParquet:
			default:
				return fmt.Errorf("invalid format %q (supported: text, json, yaml, parquet)", format)
			}
			if format == quote.FormatParquet && output == "" {
				return fmt.Errorf("--output is required for parquet")
			}

			manifest, err := quote.LoadManifest(args[0])
			if err != nil {
				return err
			}

			fetcher := assets.NewFetcher()
			fetcher.MaxBytes = opts.cfg.MaxUploadBytes

			report, err := quote.Build(cmd.Context(), opts.cfg, fetcher, manifest)
			if err != nil {
				return err
			}

			if output == "" {
				return quote.Write(cmd.OutOrStdout(), report, format)
			}
			if err := writeFile(output, report, format); err != nil {
				return err
			}
			slog.Info("Quote written", "output", output, "images", len(report.Entries), "total", report.Total)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", infopanel.FormatText, "Output format (text, json, yaml, parquet)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}

// writeFile writes the quote to path, reporting a failed close as an error
func writeFile(path string, report infopanel.Report, format string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close output: %w", cerr))
		}
	}()

	return quote.Write(f, report, format)
}
