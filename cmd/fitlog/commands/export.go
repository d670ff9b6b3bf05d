package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/2beens/fitlog/internal/fitness/export"
	"github.com/2beens/fitlog/pkg"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var (
		format string
		kind   string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export workouts or weights to CSV or JSON",
		Long: `Export workouts or weights to CSV or JSON. Without --out the file
is named after the kind and format, e.g. workouts_export.csv.
Use --out - to write to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			exportFormat, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			exportKind, err := export.ParseKind(kind)
			if err != nil {
				return err
			}

			return opts.runWithApp(cmd.Context(), func(ctx context.Context, a *app) error {
				profile, err := a.reports.Profile(ctx)
				if err != nil {
					return err
				}

				if out == "-" {
					return export.Write(opts.out, profile, exportKind, exportFormat, a.cfg.DateFormat)
				}

				path := out
				if path == "" {
					path = export.DefaultFileName(exportKind, exportFormat)
				}
				if path, err = pkg.ExpandHome(path); err != nil {
					return err
				}

				if err := writeFile(path, func(w io.Writer) error {
					return export.Write(w, profile, exportKind, exportFormat, a.cfg.DateFormat)
				}); err != nil {
					return err
				}

				log.Debugf("exported %s as %s to [%s]", exportKind, exportFormat, path)
				fmt.Fprintf(opts.out, "Exported %s to %s\n", exportKind, path)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", string(export.FormatCSV), "export format [csv | json]")
	cmd.Flags().StringVar(&kind, "kind", string(export.KindWorkouts), "what to export [workouts | weights]")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, - for stdout")

	return cmd
}

// writeFile writes into a temp file next to path and renames it over path
// only once write succeeded, so a failed export or archive leaves no file.
func writeFile(path string, write func(w io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	tmpPath := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			if rmErr := os.Remove(tmpPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				log.Errorf("remove temp file [%s]: %s", tmpPath, rmErr)
			}
		}
	}()

	if err := f.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}
	if err := write(f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
