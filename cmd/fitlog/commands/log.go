package commands

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fitlog/internal/fitness"

	"github.com/spf13/cobra"
)

func newWorkoutCommand(opts *rootOptions) *cobra.Command {
	var (
		exerciseType string
		duration     int
		calories     int
		notes        string
		date         string
	)

	cmd := &cobra.Command{
		Use:   "workout",
		Short: "Log a workout session",
		Example: `  fitlog workout --type run --duration 30 --calories 300
  fitlog workout --type yoga --duration 45 --date 2024-06-10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.runWithApp(cmd.Context(), func(ctx context.Context, a *app) error {
				workoutDate, err := parseDateFlag(date, a.now)
				if err != nil {
					return err
				}

				var caloriesBurned *int
				if cmd.Flags().Changed("calories") {
					caloriesBurned = &calories
				}

				entry := fitness.NewWorkoutEntry(
					workoutDate,
					fitness.ParseWorkoutType(exerciseType),
					duration,
					caloriesBurned,
					strings.TrimSpace(notes),
				)
				if err := a.reports.LogWorkout(ctx, entry); err != nil {
					return err
				}

				a.renderer.WorkoutLogged(entry)
				if len(a.cfg.WorkoutTypes) > 0 && !slices.Contains(a.cfg.WorkoutTypes, entry.ExerciseType) {
					a.renderer.Warn("note: %s is not one of the configured workout types", entry.ExerciseType)
				}

				a.afterWrite(ctx)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&exerciseType, "type", "", "type of workout, e.g. running, cycling, gym")
	cmd.Flags().IntVar(&duration, "duration", 0, "duration in minutes")
	cmd.Flags().IntVar(&calories, "calories", 0, "calories burned")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&date, "date", "", "workout date (YYYY-MM-DD or ISO-8601), defaults to now")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newWeightCommand(opts *rootOptions) *cobra.Command {
	var (
		unit string
		date string
	)

	cmd := &cobra.Command{
		Use:     "weight VALUE",
		Short:   "Log a weight measurement",
		Example: "  fitlog weight 80.5 --unit kg",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid weight value [%s]: %w", args[0], err)
			}

			return opts.runWithApp(cmd.Context(), func(ctx context.Context, a *app) error {
				if unit == "" {
					unit = a.cfg.DefaultWeightUnit
				}
				weightUnit, err := fitness.ParseWeightUnit(unit)
				if err != nil {
					return err
				}

				weightDate, err := parseDateFlag(date, a.now)
				if err != nil {
					return err
				}

				entry := fitness.NewWeightEntry(weightDate, value, weightUnit)
				if err := a.reports.LogWeight(ctx, entry); err != nil {
					return err
				}

				a.renderer.WeightLogged(entry)
				a.afterWrite(ctx)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&unit, "unit", "", "weight unit [kg | lbs], defaults to the configured unit")
	cmd.Flags().StringVar(&date, "date", "", "measurement date (YYYY-MM-DD or ISO-8601), defaults to now")

	return cmd
}

func parseDateFlag(value string, now func() time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return now(), nil
	}
	date, err := fitness.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date [%s]: %w", value, err)
	}
	return date, nil
}
