package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/2beens/fitlog/pkg"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newBackupCommand(opts *rootOptions) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up the fitness profile",
		Long: `Copy the fitness profile to a backup file in the data directory.
Without --name the backup is named after the current time,
e.g. backup_20240615_120000. Old backups beyond max_backups are removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.runWithApp(cmd.Context(), func(ctx context.Context, a *app) error {
				info, err := a.store.Backup(ctx, a.now(), name)
				if err != nil {
					return err
				}
				a.renderer.BackupCreated(info)

				if _, err := a.store.PruneBackups(ctx, a.cfg.MaxBackups); err != nil {
					a.renderer.Warn("removing old backups failed: %s", err)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "backup name")

	cmd.AddCommand(
		newBackupListCommand(opts),
		newBackupArchiveCommand(opts),
	)

	return cmd
}

func newBackupListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backups, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.runWithApp(cmd.Context(), func(ctx context.Context, a *app) error {
				backups, err := a.store.ListBackups(ctx)
				if err != nil {
					return err
				}
				a.renderer.Backups(backups, a.now())
				return nil
			})
		},
	}
}

func newBackupArchiveCommand(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Pack the profile and all backups into a tar.gz archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.runWithApp(cmd.Context(), func(ctx context.Context, a *app) error {
				path := out
				if path == "" {
					path = fmt.Sprintf("fitlog_%s.tar.gz", a.now().Format("20060102_150405"))
				}
				path, err := pkg.ExpandHome(path)
				if err != nil {
					return err
				}

				var filesCount int
				counter := &countingWriter{}
				if err := writeFile(path, func(w io.Writer) error {
					var archiveErr error
					filesCount, archiveErr = a.store.Archive(ctx, pkg.NewCombinedWriter(w, counter))
					return archiveErr
				}); err != nil {
					return err
				}

				log.Debugf("archived %d files to [%s]", filesCount, path)
				fmt.Fprintf(opts.out, "Archived %d files to %s (%s)\n", filesCount, path, humanize.Bytes(counter.written))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "archive file, defaults to fitlog_<time>.tar.gz")

	return cmd
}

type countingWriter struct {
	written uint64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.written += uint64(len(p))
	return len(p), nil
}
