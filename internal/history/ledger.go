package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"autogame.dev/internal/logs"
	"autogame.dev/internal/task"
)

// Ledger is an append-only JSON-lines file of closed run records
type Ledger struct {
	mu   sync.Mutex
	path string
}

// NewLedger returns the ledger kept in the log directory dir
func NewLedger(dir string) *Ledger {
	return &Ledger{path: logs.GetHistoryPath(dir)}
}

// Path returns the ledger file path
func (l *Ledger) Path() string {
	return l.path
}

// Append writes one record and syncs it to disk. A record without an id
// gets a fresh one.
func (l *Ledger) Append(rec task.RunRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	return f.Sync()
}

// Records returns the newest limit records, oldest first (limit 0 means all).
// Lines that do not decode are skipped.
func (l *Ledger) Records(limit int) ([]task.RunRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []task.RunRecord{}, nil
		}
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer f.Close()

	records := []task.RunRecord{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec task.RunRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}

// ForRun returns the records of a single run
func (l *Ledger) ForRun(runID string) ([]task.RunRecord, error) {
	all, err := l.Records(0)
	if err != nil {
		return nil, err
	}
	var out []task.RunRecord
	for _, r := range all {
		if r.RunID == runID {
			out = append(out, r)
		}
	}
	return out, nil
}
