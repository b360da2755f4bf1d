package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"autogame.dev/internal/config"
	"autogame.dev/internal/history"
	"autogame.dev/internal/process"
	"autogame.dev/internal/task"
)

// ProcessWatcher is the process query surface the server needs
type ProcessWatcher interface {
	task.Watcher
	Running(ctx context.Context, names []string) map[string]bool
}

// Options configures a Server. Zero values use the real process table and
// launcher, and stderr for run output.
type Options struct {
	ConfigPath string
	Version    string
	Watcher    ProcessWatcher
	// Launcher overrides the launcher built from the config's interpreter
	Launcher task.Launcher
	Console  io.Writer
	Clock    task.Clock
	// StateDir holds the active-task and server registry files
	StateDir string
}

// Server exposes the launcher over MCP
type Server struct {
	mu        sync.Mutex
	mcpServer *server.MCPServer
	manager   *task.Manager
	cfg       *config.Config
	opts      Options
}

// NewServer creates an MCP server. cfg may be nil when no configuration
// exists yet, in which case only init and refresh_config are offered.
func NewServer(cfg *config.Config, opts Options) *Server {
	if opts.Watcher == nil {
		opts.Watcher = process.NewWatcher()
	}
	if opts.Console == nil {
		// stdout carries the stdio protocol
		opts.Console = os.Stderr
	}

	mcpServer := server.NewMCPServer(
		"autogame",
		opts.Version,
		server.WithToolCapabilities(true),
	)

	s := &Server{
		mcpServer: mcpServer,
		opts:      opts,
	}
	s.setConfig(cfg)

	if cfg == nil {
		s.registerBuiltInTools()
	}
	s.registerRefreshConfigTool()
	s.registerTools()

	return s
}

// setConfig swaps the configuration and the manager built from it
func (s *Server) setConfig(cfg *config.Config) {
	s.cfg = cfg
	if cfg == nil {
		s.manager = nil
		return
	}

	launcher := s.opts.Launcher
	if launcher == nil {
		launcher = process.NewLauncher(cfg.GlobalSettings.Interpreter, s.opts.Console, s.opts.Console)
	}
	s.manager = task.NewManager(cfg, s.opts.Watcher, launcher, task.ManagerOptions{
		Console:  s.opts.Console,
		Clock:    s.opts.Clock,
		Observer: task.ActiveFileObserver(s.opts.StateDir),
		Records: func(dir string) task.RecordSink {
			return history.NewLedger(dir)
		},
	})
}

// current returns the config and manager under the lock
func (s *Server) current() (*config.Config, *task.Manager) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg, s.manager
}

// Serve starts the MCP server over stdio
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeHTTP starts the MCP server as a standalone HTTP server using
// StreamableHTTP transport. It handles graceful shutdown on SIGINT/SIGTERM.
// It writes a server registry file on start and removes it on shutdown.
func (s *Server) ServeHTTP(addr string) error {
	httpServer := server.NewStreamableHTTPServer(s.mcpServer)

	normalizedAddr := normalizeAddr(addr)
	if err := process.WriteServerFile(s.opts.StateDir, process.ServerFile{
		Addr: normalizedAddr,
		PID:  os.Getpid(),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to write server registry: %v\n", err)
	}
	defer process.DeleteServerFile(s.opts.StateDir)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nShutting down HTTP server...")
		if err := httpServer.Shutdown(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error shutting down HTTP server: %v\n", err)
		}
	}()

	fmt.Fprintf(os.Stderr, "autogame MCP server listening on %s\n", normalizedAddr)
	return httpServer.Start(addr)
}

// normalizeAddr expands a bare port like ":8080" to "http://localhost:8080".
func normalizeAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		return "http://" + addr
	}
	return addr
}

// GetMCPServer returns the underlying MCP server
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}
