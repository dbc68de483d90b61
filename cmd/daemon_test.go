package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestWithoutFlag(t *testing.T) {
	got := withoutFlag([]string{"daemon", "--detach", "--addr", "x", "--detach=true"}, "--detach")
	want := []string{"daemon", "--addr", "x"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("withoutFlag (-want +got):\n%s", diff)
	}
}

func TestLiveDaemonRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summitd.pid")
	if _, ok := liveDaemon(path); ok {
		t.Fatal("missing pid file reported a live daemon")
	}

	rec := daemonRecord{
		PID:       os.Getpid(),
		Addr:      "127.0.0.1:8787",
		DataDir:   "/tmp/summit",
		Interval:  "5s",
		StartedAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	if err := writeRecord(path, rec); err != nil {
		t.Fatalf("writeRecord: %v", err)
	}
	got, ok := liveDaemon(path)
	if !ok {
		t.Fatal("own process should count as alive")
	}
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Fatalf("record (-want +got):\n%s", diff)
	}
}

func TestReadRecordRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summitd.pid")
	if err := os.WriteFile(path, []byte("12345\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := readRecord(path); err == nil {
		t.Fatal("expected an error for a bare pid")
	}
	if err := os.WriteFile(path, []byte(`{"pid":0}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := readRecord(path); err == nil {
		t.Fatal("expected an error for pid 0")
	}
}
