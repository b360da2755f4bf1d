package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"autogame.dev/internal/dirs"
	"autogame.dev/internal/process"
	"autogame.dev/internal/task"
)

// remoteTask is one task of a run_task or run_all response
type remoteTask struct {
	Key         string       `json:"key"`
	Name        string       `json:"name"`
	Outcome     task.Outcome `json:"outcome"`
	Duration    string       `json:"duration"`
	Error       string       `json:"error,omitempty"`
	RunDuration string       `json:"process_run_duration,omitempty"`
}

// remoteRunResult is the decoded run_task or run_all response
type remoteRunResult struct {
	Success   bool         `json:"success"`
	RunID     string       `json:"run_id"`
	LogPath   string       `json:"log_path"`
	Duration  string       `json:"duration"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Skipped   int          `json:"skipped"`
	Error     string       `json:"error"`
	Tasks     []remoteTask `json:"tasks"`
}

// mcpEndpoint normalizes an MCP server base address to include the /mcp path,
// since mcp-go's StreamableHTTPServer registers all handlers at /mcp by default.
func mcpEndpoint(addr string) string {
	addr = strings.TrimRight(addr, "/")
	if !strings.HasSuffix(addr, "/mcp") {
		return addr + "/mcp"
	}
	return addr
}

// newMCPClient creates, starts, and initializes an MCP HTTP client against addr.
// The returned cleanup function should be deferred by the caller.
func newMCPClient(ctx context.Context, addr string) (*mcpclient.Client, func(), error) {
	c, err := mcpclient.NewStreamableHttpClient(mcpEndpoint(addr))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create MCP client: %w", err)
	}

	if err := c.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to start MCP client: %w", err)
	}

	if _, err = c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo: mcp.Implementation{
				Name:    "autogame-cli",
				Version: "0.0.1",
			},
		},
	}); err != nil {
		c.Close()
		return nil, nil, fmt.Errorf("failed to initialize MCP client: %w", err)
	}

	return c, func() { c.Close() }, nil
}

// tryRemoteRun forwards a run to the server registered in the state
// directory. handled is false when there is no reachable server.
func tryRemoteRun(key string) (code int, handled bool) {
	sf, err := process.ReadServerFile(dirs.StateDir)
	if err != nil || sf == nil {
		return 0, false
	}
	if !process.Reachable(context.Background(), sf.Addr) {
		return 0, false
	}

	fmt.Fprintf(os.Stderr, "%s %s\n", color(colorDim, "Using server at"), sf.Addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return remoteRun(ctx, sf.Addr, key), true
}

// remoteRun runs one game (or all when key is empty) on the server at addr
func remoteRun(ctx context.Context, addr, key string) int {
	c, cleanup, err := newMCPClient(ctx, addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to server at %s: %v\n", addr, err)
		return 1
	}
	defer cleanup()

	toolName := "run_all"
	args := map[string]any{}
	if key != "" {
		toolName = "run_task"
		args["key"] = key
	}

	result, err := c.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: args,
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return exitInterrupted
		}
		fmt.Fprintf(os.Stderr, "Error calling %s: %v\n", toolName, err)
		return 1
	}

	var text string
	for _, content := range result.Content {
		if tc, ok := mcp.AsTextContent(content); ok {
			text += tc.Text
		}
	}
	if result.IsError {
		fmt.Fprintf(os.Stderr, "%s %s\n", color(colorRed, "Error:"), text)
		return 1
	}

	var r remoteRunResult
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		fmt.Println(text)
		return 1
	}
	printRemoteRunResult(&r)

	if !r.Success {
		return 1
	}
	return 0
}

// printRemoteRunResult prints a forwarded run the way printBatchResult prints a local one
func printRemoteRunResult(r *remoteRunResult) {
	fmt.Fprintln(os.Stderr)
	for _, t := range r.Tasks {
		line := fmt.Sprintf("  %s %s", outcomeLabel(t.Outcome), t.Name)
		if t.Outcome != task.OutcomeSkipped {
			line += "  " + color(colorDim, t.Duration)
		}
		if t.RunDuration != "" {
			line += "  " + color(colorCyan, "运行 "+t.RunDuration)
		}
		fmt.Fprintln(os.Stderr, line)
		if t.Error != "" {
			fmt.Fprintf(os.Stderr, "      %s\n", color(colorRed, t.Error))
		}
	}

	fmt.Fprintln(os.Stderr)
	if r.Success {
		fmt.Fprintf(os.Stderr, "%s  %d ok, %d skipped  %s\n",
			color(colorGreen+colorBold, "[OK]"),
			r.Succeeded, r.Skipped,
			color(colorDim, r.Duration))
	} else {
		fmt.Fprintf(os.Stderr, "%s  %d failed, %d ok, %d skipped  %s\n",
			color(colorRed+colorBold, "[FAIL]"),
			r.Failed, r.Succeeded, r.Skipped,
			color(colorDim, r.Duration))
	}
	if r.Error != "" {
		fmt.Fprintf(os.Stderr, "%s %s\n", color(colorRed, "Error:"), r.Error)
	}
	if r.LogPath != "" {
		fmt.Fprintf(os.Stderr, "%s %s\n", color(colorDim, "Log:"), r.LogPath)
	}
}
