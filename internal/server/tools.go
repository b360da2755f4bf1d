package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"autogame.dev/internal/config"
	"autogame.dev/internal/logs"
	"autogame.dev/internal/task"
)

// configTools are registered only while a configuration is loaded
var configTools = []string{
	"list_tasks", "run_task", "run_all",
	"previous_run", "list_runs", "read_run_log",
	"process_status",
}

// gameEntry is one game in the list_tasks response
type gameEntry struct {
	Key         string          `json:"key"`
	Name        string          `json:"name"`
	Kind        config.TaskKind `json:"kind"`
	Enabled     bool            `json:"enabled"`
	Path        string          `json:"path,omitempty"`
	ProcessName string          `json:"process_name,omitempty"`
}

// taskResponse is one task of a run response
type taskResponse struct {
	Key         string       `json:"key"`
	Name        string       `json:"name"`
	Outcome     task.Outcome `json:"outcome"`
	Duration    string       `json:"duration"`
	Error       string       `json:"error,omitempty"`
	RunDuration string       `json:"process_run_duration,omitempty"`
}

// runResponse is the MCP response for run_task and run_all
type runResponse struct {
	Success   bool           `json:"success"`
	RunID     string         `json:"run_id,omitempty"`
	LogPath   string         `json:"log_path,omitempty"`
	Duration  string         `json:"duration"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Skipped   int            `json:"skipped"`
	Error     string         `json:"error,omitempty"`
	Tasks     []taskResponse `json:"tasks"`
}

func newRunResponse(cfg *config.Config, r *task.BatchResult) runResponse {
	resp := runResponse{
		Success:   r.Success,
		RunID:     r.RunID,
		Duration:  logs.FormatDuration(r.Duration),
		Succeeded: r.Succeeded,
		Failed:    r.Failed,
		Skipped:   r.Skipped,
		Tasks:     make([]taskResponse, 0, len(r.Results)),
	}
	if r.RunID != "" {
		resp.LogPath = logs.GetLogPath(cfg.GlobalSettings.LogDir, r.RunID)
	}
	for _, res := range r.Results {
		tr := taskResponse{
			Key:      res.Key,
			Name:     res.Name,
			Outcome:  res.Outcome,
			Duration: logs.FormatDuration(res.Duration),
			Error:    res.Error,
		}
		if res.Record != nil {
			tr.RunDuration = logs.FormatDuration(res.Record.Duration)
		}
		resp.Tasks = append(resp.Tasks, tr)
	}
	return resp
}

// jsonResult marshals v into a text tool result
func jsonResult(v any) (*mcp.CallToolResult, error) {
	resultJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}

// registerTools registers the tools that need a configuration
func (s *Server) registerTools() {
	if s.cfg == nil {
		return
	}

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_tasks",
		Description: "List the configured games in run order",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: make(map[string]any),
		},
	}, s.handleListTasks)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "run_task",
		Description: "Launch one game and wait until it completes. Runs are serialised; an identical run already in progress is joined.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"key": map[string]any{
					"type":        "string",
					"description": "Key of the game in the games section of the config",
				},
			},
			Required: []string{"key"},
		},
	}, s.handleRunTask)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "run_all",
		Description: "Run every configured game in order. Disabled games are skipped.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: make(map[string]any),
		},
	}, s.handleRunAll)

	s.registerRunLogTools()
	s.registerProcessStatusTool()
}

func (s *Server) handleListTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, _ := s.current()
	if cfg == nil {
		return mcp.NewToolResultError("no configuration loaded"), nil
	}

	entries := make([]gameEntry, 0, len(cfg.Games))
	for _, g := range cfg.Games {
		entries = append(entries, gameEntry{
			Key:         g.Key,
			Name:        g.Name,
			Kind:        g.EffectiveKind(),
			Enabled:     g.Enabled,
			Path:        g.Path,
			ProcessName: g.ProcessName,
		})
	}
	return jsonResult(entries)
}

func (s *Server) handleRunTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, ok := req.GetArguments()["key"].(string)
	if !ok || key == "" {
		return mcp.NewToolResultError("key is required"), nil
	}
	return s.run(ctx, []string{key})
}

func (s *Server) handleRunAll(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.run(ctx, nil)
}

func (s *Server) run(ctx context.Context, keys []string) (*mcp.CallToolResult, error) {
	cfg, manager := s.current()
	if manager == nil {
		return mcp.NewToolResultError("no configuration loaded"), nil
	}

	result, err := manager.RunKeys(ctx, keys)
	if result == nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp := newRunResponse(cfg, result)
	if err != nil {
		resp.Error = err.Error()
	}
	return jsonResult(resp)
}
