package mcp

import (
	"context"
	"runtime/debug"

	"github.com/2beens/fitlog/internal/telemetry/metrics"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

// withRecovery turns a panic inside the tool into an error result for that call.
// metricsManager must not be nil.
func withRecovery[In any](tool string, metricsManager *metrics.Manager, next func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, any, error)) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (result *mcp.CallToolResult, out any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("mcp: panic in tool %s: %v\n%s", tool, r, debug.Stack())
				metricsManager.CounterToolCalls.WithLabelValues(tool, "panic").Inc()
				result = &mcp.CallToolResult{
					Content: []mcp.Content{&mcp.TextContent{Text: "Internal error in " + tool}},
					IsError: true,
				}
				out, err = nil, nil
			}
		}()

		return next(ctx, req, in)
	}
}
