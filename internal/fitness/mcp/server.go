package mcp

import (
	"github.com/2beens/fitlog/internal/fitness"
	"github.com/2beens/fitlog/internal/telemetry/metrics"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const ServerVersion = "1.0.0"

// NewServer builds an MCP server with fitness tools: frequency, weekly summary,
// weight trend, consistency, insights, workouts listing, and workout/weight logging.
func NewServer(reports reportService, defaultUnit fitness.WeightUnit, metricsManager *metrics.Manager) *mcp.Server {
	svc := NewContextService(reports, defaultUnit)
	h := NewHandler(svc, metricsManager)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "fitlog-context",
		Version: ServerVersion,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_workout_frequency",
		Description: "Returns the number of workouts per exercise type logged within the last N days (default 30). Use when you need to see which activities dominate the training.",
	}, withRecovery("get_workout_frequency", h.metrics, h.GetWorkoutFrequencyTool()))

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_weekly_summary",
		Description: "Returns per-week totals (workouts count, total duration, total calories, avg duration) for the last N weeks (default 4), most recent week first.",
	}, withRecovery("get_weekly_summary", h.metrics, h.GetWeeklySummaryTool()))

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_weight_trend",
		Description: "Returns the body weight trend (increasing, decreasing, stable or insufficient_data), the change, the covered days and data points for the last N days (default 90).",
	}, withRecovery("get_weight_trend", h.metrics, h.GetWeightTrendTool()))

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_consistency_score",
		Description: "Returns a workout consistency score between 0 and 1 for the last N days (default 30), based on the number of distinct workout days and how evenly they are spread.",
	}, withRecovery("get_consistency_score", h.metrics, h.GetConsistencyScoreTool()))

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_insights",
		Description: "Returns short textual remarks about recent activity, weight trend, consistency and the most frequent exercise.",
	}, withRecovery("get_insights", h.metrics, h.GetInsightsTool()))

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_workouts_for_time_range",
		Description: "Returns workouts logged within the given date range. Args: from_date, to_date (YYYY-MM-DD); optional: exercise_type (e.g. running, yoga).",
	}, withRecovery("get_workouts_for_time_range", h.metrics, h.GetWorkoutsForTimeRangeTool()))

	mcp.AddTool(s, &mcp.Tool{
		Name:        "log_workout",
		Description: "Logs a new workout. Args: exercise_type, duration_minutes; optional: calories_burned, notes, date (YYYY-MM-DD, default now). Common aliases like run, bike or gym are normalized.",
	}, withRecovery("log_workout", h.metrics, h.LogWorkoutTool()))

	mcp.AddTool(s, &mcp.Tool{
		Name:        "log_weight",
		Description: "Logs a new body weight measurement taken now. Args: weight; optional: unit (kg or lbs).",
	}, withRecovery("log_weight", h.metrics, h.LogWeightTool()))

	return s
}
