package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"autogame.dev/internal/config"
	"autogame.dev/internal/process"
)

// processStatusResponse is the MCP response for process_status
type processStatusResponse struct {
	Processes map[string]bool     `json:"processes"`
	Active    *process.ActiveTask `json:"active,omitempty"`
}

func (s *Server) registerProcessStatusTool() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "process_status",
		Description: "Report whether processes are running, and which task is being supervised",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"names": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Process image names (default: every monitored game's process)",
				},
			},
		},
	}, s.handleProcessStatus)
}

func (s *Server) handleProcessStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, _ := s.current()

	var names []string
	if raw, ok := req.GetArguments()["names"].([]any); ok {
		for _, v := range raw {
			if name, ok := v.(string); ok && name != "" {
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 && cfg != nil {
		names = monitoredProcesses(cfg)
	}

	resp := processStatusResponse{Processes: s.opts.Watcher.Running(ctx, names)}
	active, err := process.ReadActive(s.opts.StateDir)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp.Active = active
	return jsonResult(resp)
}

// monitoredProcesses lists the distinct process names of the configured games
func monitoredProcesses(cfg *config.Config) []string {
	seen := make(map[string]bool)
	var names []string
	for _, g := range cfg.Games {
		if g.ProcessName == "" || seen[g.ProcessName] {
			continue
		}
		seen[g.ProcessName] = true
		names = append(names, g.ProcessName)
	}
	return names
}
