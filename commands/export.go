package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tripkit-ai/tripkit/export"
	"github.com/tripkit-ai/tripkit/storage"
)

func exportCmd() *cobra.Command {
	var (
		format        string
		outDir        string
		startDate     string
		startLocation string
	)

	cmd := &cobra.Command{
		Use:   "export <session-id>",
		Short: "Export a planned itinerary",
		Long: `Export renders a saved session's itinerary to a file.

Formats: pdf (default), ics, json. Calendar export needs --start-date
to anchor day 1; without it the trip is assumed to start tomorrow.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			app, err := NewApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			sess, err := app.Store.Load(cmd.Context(), args[0])
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("session %s not found", args[0])
			}
			if err != nil {
				return err
			}

			opts := export.Options{StartLocation: startLocation}
			if startDate != "" {
				start, err := time.ParseInLocation("2006-01-02", startDate, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --start-date (want YYYY-MM-DD): %w", err)
				}
				opts.TripStart = start
			}

			data, err := export.Render(f, sess, opts)
			if err != nil {
				return err
			}

			if outDir == "" {
				outDir = app.Config.Export.OutputDir
			}
			path := filepath.Join(outDir, export.Filename(f, sess))
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}

			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "Export format (pdf, ics, json)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default from config)")
	cmd.Flags().StringVar(&startDate, "start-date", "", "Trip start date for calendar export (YYYY-MM-DD)")
	cmd.Flags().StringVar(&startLocation, "start-location", "", "Departure point or lodging shown on the PDF")

	return cmd
}
