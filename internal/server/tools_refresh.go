package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"autogame.dev/internal/config"
)

// registerRefreshConfigTool registers the refresh_config tool that reloads
// configuration from disk while the server is running.
func (s *Server) registerRefreshConfigTool() {
	tool := mcp.Tool{
		Name:        "refresh_config",
		Description: "Reload the configuration from disk without restarting the server. A run in progress keeps its configuration.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: make(map[string]any),
		},
	}

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := s.Refresh(); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf(`{"success":false,"error":%q}`, err.Error())), nil
		}

		cfg, _ := s.current()
		return jsonResult(map[string]any{
			"success": true,
			"message": "Configuration reloaded successfully",
			"games":   len(cfg.Games),
			"enabled": len(cfg.EnabledGames()),
		})
	}

	s.mcpServer.AddTool(tool, handler)
}

// Refresh reloads configuration from disk, builds a new task manager and
// re-registers the tools. A run in progress finishes on the old manager.
func (s *Server) Refresh() error {
	cfg, path, err := config.LoadConfig(s.opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old := s.collectToolNames(); len(old) > 0 {
		s.mcpServer.DeleteTools(old...)
	}

	// later refreshes read the file that was found
	s.opts.ConfigPath = path
	s.setConfig(cfg)
	s.registerTools()

	return nil
}

// collectToolNames returns the names of the tools that depend on the
// configuration. refresh_config is never removed.
func (s *Server) collectToolNames() []string {
	if s.cfg == nil {
		return []string{"init"}
	}
	return append([]string(nil), configTools...)
}
