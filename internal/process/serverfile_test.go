package process

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func TestWriteAndReadServerFile(t *testing.T) {
	dir := t.TempDir()

	data := ServerFile{Addr: "http://localhost:8080", PID: os.Getpid()}
	if err := WriteServerFile(dir, data); err != nil {
		t.Fatalf("WriteServerFile: %v", err)
	}
	if _, err := os.Stat(ServerFilePath(dir)); err != nil {
		t.Fatalf("server.json not found: %v", err)
	}

	got, err := ReadServerFile(dir)
	if err != nil {
		t.Fatalf("ReadServerFile: %v", err)
	}
	if got == nil {
		t.Fatal("expected server file for a live PID")
	}
	if got.Addr != data.Addr {
		t.Errorf("Addr = %q, want %q", got.Addr, data.Addr)
	}
	if got.StartedAt.IsZero() {
		t.Error("StartedAt should be filled in")
	}
}

func TestReadServerFileMissing(t *testing.T) {
	got, err := ReadServerFile(t.TempDir())
	if err != nil || got != nil {
		t.Errorf("expected nil, nil for a missing file, got %v, %v", got, err)
	}
}

func TestReadServerFileCorrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(ServerFilePath(dir), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadServerFile(dir); err == nil {
		t.Error("expected error for a corrupt server file")
	}
}

func TestDeleteServerFile(t *testing.T) {
	dir := t.TempDir()
	if err := WriteServerFile(dir, ServerFile{Addr: "http://localhost:1", PID: os.Getpid()}); err != nil {
		t.Fatal(err)
	}
	DeleteServerFile(dir)
	if _, err := os.Stat(ServerFilePath(dir)); !os.IsNotExist(err) {
		t.Error("server file should be gone")
	}
	// Deleting again is a no-op
	DeleteServerFile(dir)
}

func TestReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	if !Reachable(context.Background(), srv.URL) {
		t.Error("a listening server should be reachable")
	}
	srv.Close()

	if Reachable(context.Background(), srv.URL) {
		t.Error("a closed server should not be reachable")
	}
}
