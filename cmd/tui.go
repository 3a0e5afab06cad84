package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/printlayout/internal/assets"
	"github.com/lehigh-university-libraries/printlayout/internal/session"
	"github.com/lehigh-university-libraries/printlayout/internal/tui"
)

func newTUICmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui [image...]",
		Short: "Arrange images on the canvas from the terminal",
		Long: `Opens an interactive terminal view of a layout session.

Configured preload assets are placed first, then every image given on the
command line. Use tab to select an image, the arrow keys to move it, +/- to
scale it and h to show its cost.`,
		Example: `  printlayout tui poster.png banner.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fetcher := assets.NewFetcher()
			fetcher.MaxBytes = opts.cfg.MaxUploadBytes

			sess := session.New("tui", opts.cfg, nil)
			defer sess.Close()

			sess.Preload(ctx, fetcher)
			for _, src := range args {
				data, err := fetcher.Fetch(ctx, src)
				if err != nil {
					return fmt.Errorf("%s: %w", src, err)
				}
				if _, err := sess.Place(data, filepath.Base(src)); err != nil {
					return fmt.Errorf("%s: %w", src, err)
				}
			}
			slog.Debug("Starting TUI", "images", sess.Summary().Images)

			_, err := tea.NewProgram(tui.New(sess), tea.WithContext(ctx), tea.WithAltScreen()).Run()
			return err
		},
	}

	return cmd
}
