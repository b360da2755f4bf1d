package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"autogame.dev/internal/config"
	"autogame.dev/internal/dirs"
)

// registerBuiltInTools registers the tools offered while no config exists
func (s *Server) registerBuiltInTools() {
	s.registerInitTool()
}

// registerInitTool registers the init tool for creating config files
func (s *Server) registerInitTool() {
	tool := mcp.Tool{
		Name:        "init",
		Description: "Create a starter config.json with every game disabled",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "Target path for config file (default: ./config.json; .yaml writes YAML)",
				},
				"overwrite": map[string]any{
					"type":        "boolean",
					"description": "Whether to overwrite existing file (default: false)",
				},
			},
		},
	}

	s.mcpServer.AddTool(tool, s.handleInit)
}

func (s *Server) handleInit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	targetPath := s.opts.ConfigPath
	if path, ok := args["path"].(string); ok && path != "" {
		targetPath = path
	}
	if targetPath == "" {
		targetPath = dirs.ConfigFile
	}

	overwrite := false
	if ow, ok := args["overwrite"].(bool); ok {
		overwrite = ow
	}

	// Convert to absolute path for better error messages
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid path: %v", err)), nil
	}

	if _, err := os.Stat(absPath); err == nil && !overwrite {
		return mcp.NewToolResultError(fmt.Sprintf("file already exists at %s (use overwrite=true to replace)", absPath)), nil
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create directory: %v", err)), nil
	}
	if err := config.Save(absPath, config.Example()); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"success": true,
		"path":    absPath,
		"message": "Created config file. Fill in the game paths, enable them, then call refresh_config.",
	})
}
