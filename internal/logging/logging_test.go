package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestJSONLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Output: &buf})

	log.With(String("scenario", "default")).Info(context.Background(), "sweep complete",
		Int("hits", 41),
		Float("spillover_efficiency", 0.83),
		Bool("focused", true),
		Err(errors.New("boom")),
	)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal log line %q: %v", buf.String(), err)
	}
	if rec["msg"] != "sweep complete" {
		t.Fatalf("msg = %v, want sweep complete", rec["msg"])
	}
	if rec["scenario"] != "default" {
		t.Fatalf("scenario = %v, want default", rec["scenario"])
	}
	if rec["hits"] != float64(41) {
		t.Fatalf("hits = %v, want 41", rec["hits"])
	}
	if rec["error"] != "boom" {
		t.Fatalf("error = %v, want boom", rec["error"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Output: &buf})

	log.Info(context.Background(), "dropped")
	if buf.Len() != 0 {
		t.Fatalf("info line written at warn level: %q", buf.String())
	}
	log.Warn(context.Background(), "kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("warn line missing: %q", buf.String())
	}
}

func TestSweepIDIsAttached(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Format: "json", Output: &buf})

	ctx, id := EnsureSweepID(context.Background())
	if id == "" {
		t.Fatalf("EnsureSweepID returned empty id")
	}
	again, id2 := EnsureSweepID(ctx)
	if id2 != id || SweepIDFromContext(again) != id {
		t.Fatalf("EnsureSweepID not idempotent: %q vs %q", id, id2)
	}

	log.Info(ctx, "frame")
	if !strings.Contains(buf.String(), `"sweep_id":"`+id+`"`) {
		t.Fatalf("sweep_id missing from %q", buf.String())
	}
}

func TestFromContextFallsBack(t *testing.T) {
	if _, ok := FromContext(context.Background(), nil).(noopLogger); !ok {
		t.Fatalf("FromContext without logger should return Noop")
	}
	l := Noop()
	ctx := ContextWithLogger(context.Background(), l)
	if got := FromContext(ctx, New(Config{})); got != l {
		t.Fatalf("FromContext = %v, want stored logger", got)
	}
}
