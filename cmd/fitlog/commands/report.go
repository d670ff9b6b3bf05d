package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/fitlog/internal/fitness/analytics"

	"github.com/spf13/cobra"
)

func newStatsCommand(opts *rootOptions) *cobra.Command {
	var (
		period string
		weeks  int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "View fitness statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := analytics.Period(period)
			if !p.IsValid() {
				return fmt.Errorf("invalid period [%s], use week, month or year", period)
			}

			return opts.runWithApp(cmd.Context(), func(ctx context.Context, a *app) error {
				overview, err := a.reports.Overview(ctx, p)
				if err != nil {
					return err
				}
				summary, err := a.reports.WeeklySummary(ctx, weeks)
				if err != nil {
					return err
				}

				a.renderer.Overview(overview)
				a.renderer.WeeklySummary(summary)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&period, "period", string(analytics.PeriodWeek), "statistics period [week | month | year]")
	cmd.Flags().IntVar(&weeks, "weeks", analytics.DefaultSummaryWeeks, "number of weeks in the weekly summary")

	return cmd
}

func newTrendCommand(opts *rootOptions) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show the body weight trend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.runWithApp(cmd.Context(), func(ctx context.Context, a *app) error {
				trend, err := a.reports.WeightTrend(ctx, days)
				if err != nil {
					return err
				}
				a.renderer.WeightTrend(trend)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&days, "days", analytics.DefaultTrendDays, "number of days to look back")

	return cmd
}

func newInsightsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Show insights about recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.runWithApp(cmd.Context(), func(ctx context.Context, a *app) error {
				insights, err := a.reports.Insights(ctx)
				if err != nil {
					return err
				}
				a.renderer.Insights(insights)
				return nil
			})
		},
	}
}

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	var (
		from         string
		to           string
		exerciseType string
		days         int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List logged workouts",
		Example: `  fitlog history --days 14
  fitlog history --from 2024-06-01 --to 2024-06-30 --type run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.runWithApp(cmd.Context(), func(ctx context.Context, a *app) error {
				var fromDate, toDate time.Time
				if from != "" {
					d, err := parseDateFlag(from, a.now)
					if err != nil {
						return err
					}
					fromDate = d
				} else if days > 0 {
					fromDate = a.now().AddDate(0, 0, -days)
				}
				if to != "" {
					d, err := parseDateFlag(to, a.now)
					if err != nil {
						return err
					}
					// whole last day
					toDate = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
				}

				workouts, err := a.reports.ListWorkouts(ctx, fromDate, toDate, exerciseType)
				if err != nil {
					return err
				}
				a.renderer.Workouts(workouts)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD), inclusive")
	cmd.Flags().StringVar(&exerciseType, "type", "", "only list workouts of this type")
	cmd.Flags().IntVar(&days, "days", 30, "list the last N days, ignored when --from is set, 0 for all")

	return cmd
}
