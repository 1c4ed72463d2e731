package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/config"
)

func TestPrintPages(t *testing.T) {
	var buf bytes.Buffer
	if err := printPages(&buf); err != nil {
		t.Fatalf("printPages: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"PAGE", "hospital", "/hospital", "admin", "dispatcher"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if lines := strings.Count(strings.TrimSpace(out), "\n"); lines != 9 {
		t.Errorf("expected header plus 9 pages, got %d rows", lines)
	}
}

func TestNewLogger_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := newLogger(&config.Config{Env: "production", LogLevel: tt.level}, &bytes.Buffer{})
			if got := l.GetLevel(); got != tt.want {
				t.Errorf("level %q: got %s, want %s", tt.level, got, tt.want)
			}
		})
	}
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hms.log")
	var stdout bytes.Buffer
	l := newLogger(&config.Config{Env: "production", LogLevel: "info", LogFile: path}, &stdout)
	l.Info().Str("action", "appointment.create").Msg("submission succeeded")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"action":"appointment.create"`) {
		t.Errorf("expected JSON event in log file, got %s", data)
	}
	if !strings.Contains(stdout.String(), "submission succeeded") {
		t.Errorf("expected event on stdout too")
	}
}
