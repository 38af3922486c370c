package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fenview/internal/storage"
)

func TestRunReleasesResourcesOnStartupError(t *testing.T) {
	dir := t.TempDir()
	pidPath := filepath.Join(dir, "fenviewd.pid")
	dbPath := filepath.Join(dir, "fenview.db")

	args := []string{
		"-pid", pidPath, "-pid-lock",
		"-storage-path", dbPath,
		"-no-cache",
		"-jwt-secret", "too-short",
	}
	err := run(context.Background(), args)
	if err == nil || !strings.Contains(err.Error(), "token secret") {
		t.Fatalf("run with a short secret = %v", err)
	}

	if _, err := os.Stat(pidPath); !os.IsNotExist(err) {
		t.Fatalf("PID file left behind after failed start: %v", err)
	}

	// A second attempt must get past the PID lock again
	err = run(context.Background(), args)
	if err == nil || !strings.Contains(err.Error(), "token secret") {
		t.Fatalf("second run = %v", err)
	}

	store, err := storage.NewStore(dbPath, false)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer store.Close()
	if _, err := store.QueryPositions("*"); err != nil {
		t.Fatalf("schema missing after failed start: %v", err)
	}
}

func TestRunRejectsLockWithoutPIDPath(t *testing.T) {
	err := run(context.Background(), []string{"-pid-lock"})
	if err == nil || !strings.Contains(err.Error(), "-pid") {
		t.Fatalf("run(-pid-lock) = %v", err)
	}
}
