package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"autogame.dev/internal/history"
	"autogame.dev/internal/logs"
	"autogame.dev/internal/template"
)

// durationEntry is one task of a previous_run response
type durationEntry struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Duration string `json:"duration,omitempty"`
	Known    bool   `json:"known"`
	Fallback bool   `json:"fallback,omitempty"`
}

// registerRunLogTools registers the tools that read past runs
func (s *Server) registerRunLogTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "previous_run",
		Description: "Per-game durations mined from a run log (default: the newest run)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"run_id": map[string]any{
					"type":        "string",
					"description": "Run id (YYYYMMDD_HHMMSS) to read instead of the newest run",
				},
			},
		},
	}, s.handlePreviousRun)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_runs",
		Description: "List recent run logs, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"limit": map[string]any{
					"type":        "number",
					"description": "Maximum number of runs to return (default: 20)",
				},
			},
		},
	}, s.handleListRuns)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "read_run_log",
		Description: "Read the log of a run",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"run_id": map[string]any{
					"type":        "string",
					"description": "Run id to read (default: the newest run)",
				},
				"lines": map[string]any{
					"type":        "number",
					"description": "Number of lines to tail (default: 100, 0 = all)",
				},
				"filter": map[string]any{
					"type":        "string",
					"description": "Regex pattern to filter lines",
				},
			},
		},
	}, s.handleReadRunLog)
}

func (s *Server) handlePreviousRun(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, _ := s.current()
	if cfg == nil {
		return mcp.NewToolResultError("no configuration loaded"), nil
	}

	runID, _ := req.GetArguments()["run_id"].(string)
	run, err := logs.ResolveRun(cfg.GlobalSettings.LogDir, runID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	prev, err := history.ParseRun(run.Path, template.ResolveAll(cfg.Games))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read run log: %v", err)), nil
	}

	entries := make([]durationEntry, 0, len(prev.Durations))
	for _, d := range prev.Durations {
		e := durationEntry{Key: d.Key, Name: d.Name, Known: d.Known, Fallback: d.Fallback}
		if d.Known {
			e.Duration = logs.FormatDuration(d.Duration)
		}
		entries = append(entries, e)
	}

	return jsonResult(map[string]any{
		"run_id": prev.RunID,
		"path":   prev.Path,
		"tasks":  entries,
	})
}

func (s *Server) handleListRuns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, _ := s.current()
	if cfg == nil {
		return mcp.NewToolResultError("no configuration loaded"), nil
	}

	limit := 20
	if l, ok := req.GetArguments()["limit"].(float64); ok {
		limit = int(l)
	}

	runs, err := logs.ListRuns(cfg.GlobalSettings.LogDir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list runs: %v", err)), nil
	}

	newest := make([]logs.RunInfo, 0, len(runs))
	for i := len(runs) - 1; i >= 0; i-- {
		if limit > 0 && len(newest) == limit {
			break
		}
		newest = append(newest, runs[i])
	}
	return jsonResult(newest)
}

func (s *Server) handleReadRunLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, _ := s.current()
	if cfg == nil {
		return mcp.NewToolResultError("no configuration loaded"), nil
	}
	args := req.GetArguments()

	runID, _ := args["run_id"].(string)
	run, err := logs.ResolveRun(cfg.GlobalSettings.LogDir, runID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := logs.ReadOptions{Lines: 100}
	if lines, ok := args["lines"].(float64); ok {
		opts.Lines = int(lines)
	}
	if filter, ok := args["filter"].(string); ok {
		opts.Filter = filter
	}

	lines, err := logs.ReadLog(run.Path, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read run log: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"run_id": run.RunID,
		"lines":  lines,
		"count":  len(lines),
	})
}
