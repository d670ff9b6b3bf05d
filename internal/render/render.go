package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/2beens/fitlog/internal/fitness"
	"github.com/2beens/fitlog/internal/fitness/analytics"
	"github.com/2beens/fitlog/internal/fitness/store"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const barLength = 20

// Renderer writes human readable reports to the terminal.
type Renderer struct {
	out        io.Writer
	dateLayout string
}

func New(out io.Writer, dateLayout string) *Renderer {
	if dateLayout == "" {
		dateLayout = "2006-01-02"
	}
	return &Renderer{
		out:        out,
		dateLayout: dateLayout,
	}
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Format.Footer = text.FormatDefault
	return tbl
}

func (r *Renderer) Overview(o analytics.Overview) {
	color.New(color.Bold).Fprintf(r.out, "Fitness overview, last %s (%d days)\n", o.Period, o.Days)

	tbl := newTable()
	tbl.AppendRow(table.Row{"Workouts", o.TotalWorkouts})
	tbl.AppendRow(table.Row{"Total duration", fitness.FormatDuration(o.TotalDuration)})
	tbl.AppendRow(table.Row{"Calories burned", humanize.Comma(int64(o.TotalCalories))})
	tbl.AppendRow(table.Row{"Consistency", consistencyBar(o.ConsistencyScore)})
	tbl.AppendRow(table.Row{"Weight trend", trendText(o.WeightTrend)})
	fmt.Fprintln(r.out, tbl.Render())

	if len(o.Frequency) == 0 {
		return
	}

	freq := newTable()
	freq.AppendHeader(table.Row{"Exercise", "Workouts"})
	for _, c := range o.Frequency {
		freq.AppendRow(table.Row{c.ExerciseType, c.Count})
	}
	fmt.Fprintln(r.out, freq.Render())
}

// WeeklySummary renders one row per week, oldest week first.
func (r *Renderer) WeeklySummary(summary []analytics.WeekSummary) {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Week from", "Workouts", "Duration", "Calories", "Avg duration"})
	for i := len(summary) - 1; i >= 0; i-- {
		week := summary[i]
		tbl.AppendRow(table.Row{
			week.WeekStart.Format(r.dateLayout),
			week.WorkoutsCount,
			fitness.FormatDuration(week.TotalDuration),
			humanize.Comma(int64(week.TotalCalories)),
			fmt.Sprintf("%.0fm", week.AvgDuration),
		})
	}
	fmt.Fprintln(r.out, tbl.Render())
}

func (r *Renderer) WeightTrend(trend analytics.WeightTrend) {
	fmt.Fprintln(r.out, trendText(trend))
}

func trendText(trend analytics.WeightTrend) string {
	switch trend.Trend {
	case analytics.TrendIncreasing:
		return color.YellowString("increasing, +%.1f %s over %d days (%d entries)", trend.Change, trend.Unit, trend.PeriodDays, trend.DataPoints)
	case analytics.TrendDecreasing:
		return color.GreenString("decreasing, %.1f %s over %d days (%d entries)", trend.Change, trend.Unit, trend.PeriodDays, trend.DataPoints)
	case analytics.TrendStable:
		return fmt.Sprintf("stable, %+.1f %s over %d days (%d entries)", trend.Change, trend.Unit, trend.PeriodDays, trend.DataPoints)
	default:
		return "not enough weight entries"
	}
}

func consistencyBar(score float64) string {
	filled := int(score * barLength)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barLength-filled)
	text := fmt.Sprintf("[%s] %.0f%%", bar, score*100)

	switch {
	case score >= analytics.ConsistencyExcellent:
		return color.New(color.FgGreen).Sprint(text)
	case score >= analytics.ConsistencyGood:
		return color.New(color.FgYellow).Sprint(text)
	default:
		return color.New(color.FgRed).Sprint(text)
	}
}

func (r *Renderer) Insights(insights []string) {
	color.New(color.Bold).Fprintln(r.out, "Insights")
	for _, insight := range insights {
		color.New(color.FgCyan).Fprintf(r.out, "  - %s\n", insight)
	}
}

func (r *Renderer) Workouts(workouts []fitness.WorkoutEntry) {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Date", "Exercise", "Duration", "Calories", "Notes"})
	for _, w := range workouts {
		calories := "-"
		if w.CaloriesBurned != nil {
			calories = humanize.Comma(int64(*w.CaloriesBurned))
		}
		tbl.AppendRow(table.Row{
			w.Date.Format(r.dateLayout),
			w.ExerciseType,
			fitness.FormatDuration(w.DurationMinutes),
			calories,
			w.Notes,
		})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d", len(workouts))})
	fmt.Fprintln(r.out, tbl.Render())
}

func (r *Renderer) Backups(backups []store.BackupInfo, now time.Time) {
	if len(backups) == 0 {
		fmt.Fprintln(r.out, "No backups yet")
		return
	}

	tbl := newTable()
	tbl.AppendHeader(table.Row{"Backup", "Size", "Created"})
	for _, b := range backups {
		tbl.AppendRow(table.Row{
			b.Name,
			humanize.Bytes(uint64(b.Size)),
			humanize.RelTime(b.CreatedAt, now, "ago", "from now"),
		})
	}
	fmt.Fprintln(r.out, tbl.Render())
}

func (r *Renderer) WorkoutLogged(w fitness.WorkoutEntry) {
	color.New(color.FgGreen).Fprintf(r.out, "Logged %s workout: %s", w.ExerciseType, fitness.FormatDuration(w.DurationMinutes))
	if w.CaloriesBurned != nil {
		color.New(color.FgGreen).Fprintf(r.out, ", %d kcal", *w.CaloriesBurned)
	}
	fmt.Fprintln(r.out)
}

func (r *Renderer) WeightLogged(w fitness.WeightEntry) {
	color.New(color.FgGreen).Fprintf(r.out, "Logged weight: %.1f %s\n", w.Weight, w.Unit)
}

func (r *Renderer) BackupCreated(b *store.BackupInfo) {
	color.New(color.FgGreen).Fprintf(r.out, "Backup created: %s (%s)\n", b.Path, humanize.Bytes(uint64(b.Size)))
}

func (r *Renderer) Warn(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(r.out, format+"\n", args...)
}
