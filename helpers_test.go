package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tim-martinez/node-form/internal/client"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func fixedTime() time.Time {
	return time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
}

func newTestClient() *client.Client {
	return client.New(cfg.Client.ServerURL, nil)
}
