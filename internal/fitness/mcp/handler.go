package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/2beens/fitlog/internal/fitness"
	"github.com/2beens/fitlog/internal/telemetry/metrics"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service contextService
	metrics *metrics.Manager
}

// NewHandler builds a handler with the given service. Without a metrics
// manager the tool calls are counted on a private registry nobody scrapes.
func NewHandler(service contextService, metricsManager *metrics.Manager) *Handler {
	if metricsManager == nil {
		metricsManager = metrics.NewManager("fitlog", "mcp", prometheus.NewRegistry())
	}
	return &Handler{
		service: service,
		metrics: metricsManager,
	}
}

// WindowInput is the input for the tools taking a trailing window of days.
type WindowInput struct {
	Days int `json:"days,omitempty" jsonschema:"Number of days to look back, omit for the default window"`
}

// WeeksInput is the input for get_weekly_summary.
type WeeksInput struct {
	Weeks int `json:"weeks,omitempty" jsonschema:"Number of weeks to summarize, omit for 4 weeks"`
}

// GetWorkoutFrequencyTool returns the MCP tool handler for get_workout_frequency.
func (h *Handler) GetWorkoutFrequencyTool() func(context.Context, *mcp.CallToolRequest, WindowInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in WindowInput) (*mcp.CallToolResult, any, error) {
		freq, err := h.service.GetWorkoutFrequency(ctx, in.Days)
		if err != nil {
			return h.errorResult("get_workout_frequency", "Error computing workout frequency: "+err.Error()), nil, nil
		}
		return h.jsonResult("get_workout_frequency", freq), nil, nil
	}
}

// GetWeeklySummaryTool returns the MCP tool handler for get_weekly_summary.
func (h *Handler) GetWeeklySummaryTool() func(context.Context, *mcp.CallToolRequest, WeeksInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in WeeksInput) (*mcp.CallToolResult, any, error) {
		summary, err := h.service.GetWeeklySummary(ctx, in.Weeks)
		if err != nil {
			return h.errorResult("get_weekly_summary", "Error computing weekly summary: "+err.Error()), nil, nil
		}
		return h.jsonResult("get_weekly_summary", summary), nil, nil
	}
}

// GetWeightTrendTool returns the MCP tool handler for get_weight_trend.
func (h *Handler) GetWeightTrendTool() func(context.Context, *mcp.CallToolRequest, WindowInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in WindowInput) (*mcp.CallToolResult, any, error) {
		trend, err := h.service.GetWeightTrend(ctx, in.Days)
		if err != nil {
			return h.errorResult("get_weight_trend", "Error computing weight trend: "+err.Error()), nil, nil
		}
		return h.jsonResult("get_weight_trend", trend), nil, nil
	}
}

// GetConsistencyScoreTool returns the MCP tool handler for get_consistency_score.
func (h *Handler) GetConsistencyScoreTool() func(context.Context, *mcp.CallToolRequest, WindowInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in WindowInput) (*mcp.CallToolResult, any, error) {
		score, err := h.service.GetConsistencyScore(ctx, in.Days)
		if err != nil {
			return h.errorResult("get_consistency_score", "Error computing consistency score: "+err.Error()), nil, nil
		}
		return h.jsonResult("get_consistency_score", score), nil, nil
	}
}

// GetInsightsTool returns the MCP tool handler for get_insights.
func (h *Handler) GetInsightsTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		insights, err := h.service.GetInsights(ctx)
		if err != nil {
			return h.errorResult("get_insights", "Error computing insights: "+err.Error()), nil, nil
		}
		return h.jsonResult("get_insights", insights), nil, nil
	}
}

// WorkoutsTimeRangeInput is the input for get_workouts_for_time_range.
type WorkoutsTimeRangeInput struct {
	FromDate     string `json:"from_date" jsonschema:"Start date (YYYY-MM-DD)"`
	ToDate       string `json:"to_date" jsonschema:"End date (YYYY-MM-DD), inclusive"`
	ExerciseType string `json:"exercise_type,omitempty" jsonschema:"Filter by exercise type (e.g. running, yoga)"`
}

// GetWorkoutsForTimeRangeTool returns the MCP tool handler for get_workouts_for_time_range.
func (h *Handler) GetWorkoutsForTimeRangeTool() func(context.Context, *mcp.CallToolRequest, WorkoutsTimeRangeInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in WorkoutsTimeRangeInput) (*mcp.CallToolResult, any, error) {
		from, err := time.ParseInLocation(dateLayout, in.FromDate, time.Local)
		if err != nil {
			return h.errorResult("get_workouts_for_time_range", "Invalid from_date: use YYYY-MM-DD"), nil, nil
		}
		to, err := time.ParseInLocation(dateLayout, in.ToDate, time.Local)
		if err != nil {
			return h.errorResult("get_workouts_for_time_range", "Invalid to_date: use YYYY-MM-DD"), nil, nil
		}
		to = time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 999999999, to.Location())

		list, err := h.service.ListWorkouts(ctx, from, to, in.ExerciseType)
		if err != nil {
			return h.errorResult("get_workouts_for_time_range", "Error listing workouts: "+err.Error()), nil, nil
		}
		return h.jsonResult("get_workouts_for_time_range", list), nil, nil
	}
}

// LogWorkoutInput is the input for log_workout.
type LogWorkoutInput struct {
	ExerciseType    string `json:"exercise_type" jsonschema:"Exercise type (e.g. Running, Yoga, gym)"`
	DurationMinutes int    `json:"duration_minutes" jsonschema:"Workout duration in minutes"`
	CaloriesBurned  *int   `json:"calories_burned,omitempty" jsonschema:"Burned calories, if known"`
	Notes           string `json:"notes,omitempty" jsonschema:"Free-form notes"`
	Date            string `json:"date,omitempty" jsonschema:"Workout date (YYYY-MM-DD), omit for now"`
}

// LogWorkoutTool returns the MCP tool handler for log_workout.
func (h *Handler) LogWorkoutTool() func(context.Context, *mcp.CallToolRequest, LogWorkoutInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in LogWorkoutInput) (*mcp.CallToolResult, any, error) {
		params := LogWorkoutParams{
			ExerciseType:    in.ExerciseType,
			DurationMinutes: in.DurationMinutes,
			CaloriesBurned:  in.CaloriesBurned,
			Notes:           in.Notes,
		}
		if in.Date != "" {
			date, err := fitness.ParseDate(in.Date)
			if err != nil {
				return h.errorResult("log_workout", "Invalid date: use YYYY-MM-DD"), nil, nil
			}
			params.Date = date
		}

		entry, err := h.service.LogWorkout(ctx, params)
		if err != nil {
			return h.errorResult("log_workout", "Error logging workout: "+err.Error()), nil, nil
		}
		return h.jsonResult("log_workout", entry), nil, nil
	}
}

// LogWeightInput is the input for log_weight.
type LogWeightInput struct {
	Weight float64 `json:"weight" jsonschema:"Body weight"`
	Unit   string  `json:"unit,omitempty" jsonschema:"Weight unit: kg or lbs, omit for the configured default"`
}

// LogWeightTool returns the MCP tool handler for log_weight.
func (h *Handler) LogWeightTool() func(context.Context, *mcp.CallToolRequest, LogWeightInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in LogWeightInput) (*mcp.CallToolResult, any, error) {
		entry, err := h.service.LogWeight(ctx, in.Weight, in.Unit)
		if err != nil {
			return h.errorResult("log_weight", "Error logging weight: "+err.Error()), nil, nil
		}
		return h.jsonResult("log_weight", entry), nil, nil
	}
}

func (h *Handler) jsonResult(tool string, v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return h.errorResult(tool, "Error encoding response: "+err.Error())
	}
	h.metrics.CounterToolCalls.WithLabelValues(tool, "ok").Inc()
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

func (h *Handler) errorResult(tool, text string) *mcp.CallToolResult {
	log.Debugf("mcp: tool [%s] failed: %s", tool, text)
	h.metrics.CounterToolCalls.WithLabelValues(tool, "error").Inc()
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
