package commands

import (
	"io"
	"time"

	"github.com/spf13/cobra"
)

var (
	// Version and Commit are set at build time via -ldflags.
	Version = "0.1.0"
	Commit  = "unknown"
)

type rootOptions struct {
	env        string
	configPath string
	out        io.Writer
	now        func() time.Time
}

// NewRootCommand builds the fitlog command tree. Reports are written to out,
// logs go to stderr or the configured log file.
func NewRootCommand(out io.Writer) *cobra.Command {
	return newRootCommand(&rootOptions{
		out: out,
		now: time.Now,
	})
}

func newRootCommand(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fitlog",
		Short: "Personal fitness logger",
		Long: `fitlog tracks workouts and body weight, and computes statistics
over them: workout frequency, weekly summaries, weight trend,
consistency score and insights.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(opts.out)

	rootCmd.PersistentFlags().StringVar(&opts.env, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "./config.toml", "path for the TOML config file")

	rootCmd.AddCommand(
		newWorkoutCommand(opts),
		newWeightCommand(opts),
		newStatsCommand(opts),
		newTrendCommand(opts),
		newInsightsCommand(opts),
		newHistoryCommand(opts),
		newExportCommand(opts),
		newBackupCommand(opts),
		newVersionCommand(opts),
	)

	return rootCmd
}

func newVersionCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			_, _ = io.WriteString(opts.out, "fitlog "+Version+" (commit: "+Commit+")\n")
		},
	}
}
