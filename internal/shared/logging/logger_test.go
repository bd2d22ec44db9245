package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"err":     slog.LevelError,
		"trace":   slog.LevelDebug - 2,
		"bogus":   slog.LevelInfo,
	}
	for input, expected := range cases {
		if got := ParseLevel(input); got != expected {
			t.Fatalf("ParseLevel(%q) expected %v got %v", input, expected, got)
		}
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Config{Level: "info", Format: "json"})
	logger.Info("session cleared", slog.String("variant", "admin"))

	out := buf.String()
	if !strings.Contains(out, `"msg":"session cleared"`) {
		t.Fatalf("expected json message, got %s", out)
	}
	if !strings.Contains(out, `"variant":"admin"`) {
		t.Fatalf("expected variant attribute, got %s", out)
	}
}

func TestSetupWritesDatedFile(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	dir := t.TempDir()
	var buf bytes.Buffer
	closer, logger, err := Setup(&buf, Config{Level: "debug", Directory: dir})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	logger.Debug("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || filepath.Ext(entries[0].Name()) != ".log" {
		t.Fatalf("expected one .log file, got %v", entries)
	}
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("expected message on writer, got %q", buf.String())
	}
}
