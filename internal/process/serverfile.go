package process

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"autogame.dev/internal/dirs"
)

const serverFile = "server.json"

// ServerFile is persisted while `autogame serve --addr` is listening, so other
// invocations can hand their runs to it
type ServerFile struct {
	Addr      string    `json:"addr"`
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"started_at"`
}

// ServerFilePath returns the location of the server registry under stateDir
func ServerFilePath(stateDir string) string {
	if stateDir == "" {
		stateDir = dirs.StateDir
	}
	return filepath.Join(stateDir, serverFile)
}

// WriteServerFile records a listening server under stateDir
func WriteServerFile(stateDir string, data ServerFile) error {
	path := ServerFilePath(stateDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if data.StartedAt.IsZero() {
		data.StartedAt = time.Now()
	}
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal server file: %w", err)
	}
	return os.WriteFile(path, b, 0644)
}

// ReadServerFile loads the server registry. A missing file, or one left
// behind by a dead server, returns nil, nil.
func ReadServerFile(stateDir string) (*ServerFile, error) {
	b, err := os.ReadFile(ServerFilePath(stateDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var data ServerFile
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("failed to parse server file: %w", err)
	}
	if data.PID != 0 && !PIDAlive(data.PID) {
		DeleteServerFile(stateDir)
		return nil, nil
	}
	return &data, nil
}

// DeleteServerFile removes the server registry
func DeleteServerFile(stateDir string) {
	_ = os.Remove(ServerFilePath(stateDir))
}

// Reachable reports whether addr answers HTTP at all. Any response, even
// 404 or 405, means something is listening.
func Reachable(ctx context.Context, addr string) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}
