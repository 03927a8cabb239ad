package core

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/signalsfoundry/dish-optics/internal/logging"
	"github.com/signalsfoundry/dish-optics/model"
)

type staticSource struct {
	s       model.Scenario
	version uint64
}

func (s staticSource) Current() (model.Scenario, uint64) { return s.s, s.version }

func TestEngineEvaluateDefaultScenario(t *testing.T) {
	eng := NewSimulationEngine(staticSource{s: model.DefaultScenario(), version: 3}, nil)
	eng.EfficiencySamples = 512

	var seen []*FrameReport
	eng.RegisterFrameListener(func(r *FrameReport) { seen = append(seen, r) })

	report, err := eng.Evaluate(context.Background(), 7)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if report.Frame != 7 || report.Version != 3 {
		t.Fatalf("report frame/version = %d/%d, want 7/3", report.Frame, report.Version)
	}
	if len(report.Sweep.Rays) != 41 {
		t.Fatalf("len(Rays) = %d, want 41", len(report.Sweep.Rays))
	}
	if !report.Sweep.Lower.IsHit() || !report.Sweep.Upper.IsHit() {
		t.Fatalf("default 90° boundary rays should hit a 3 m f/D 0.5 dish")
	}
	if len(seen) != 1 || seen[0] != report {
		t.Fatalf("listener saw %d reports, want the evaluated one", len(seen))
	}

	stats := report.Stats()
	if stats.Hits != report.Sweep.Hits || stats.LowerOutcome != "hit" {
		t.Fatalf("Stats() = %+v, inconsistent with report", stats)
	}
	if stats.SpilloverEfficiency != report.Efficiency.Spillover {
		t.Fatalf("Stats().SpilloverEfficiency = %v, want %v", stats.SpilloverEfficiency, report.Efficiency.Spillover)
	}
}

func TestEngineSurfacesInvalidSnapshot(t *testing.T) {
	bad := model.DefaultScenario()
	bad.Feed.Beamwidth10dBDeg = 0
	eng := NewSimulationEngine(staticSource{s: bad}, nil)

	if _, err := eng.Evaluate(context.Background(), 0); !errors.Is(err, ErrInvalidFeed) {
		t.Fatalf("Evaluate error = %v, want ErrInvalidFeed", err)
	}
	if err := eng.Run(context.Background(), 3); !errors.Is(err, ErrInvalidFeed) {
		t.Fatalf("Run error = %v, want ErrInvalidFeed", err)
	}
}

func TestEngineRunEvaluatesEveryFrame(t *testing.T) {
	eng := NewSimulationEngine(staticSource{s: model.DefaultScenario()}, nil)
	eng.EfficiencySamples = 64

	frames := 0
	eng.RegisterFrameListener(func(*FrameReport) { frames++ })
	if err := eng.Run(context.Background(), 4); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if frames != 4 {
		t.Fatalf("listener called %d times, want 4", frames)
	}
}

func TestEngineLogsThroughContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctxLog := logging.New(logging.Config{Level: "debug", Output: &buf})
	eng := NewSimulationEngine(staticSource{s: model.DefaultScenario()}, nil)
	eng.EfficiencySamples = 64

	ctx := logging.ContextWithLogger(context.Background(), ctxLog)
	if _, err := eng.Evaluate(ctx, 0); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "frame evaluated") || !strings.Contains(out, "sweep_id=") {
		t.Fatalf("context logger output = %q, want frame evaluated with sweep_id", out)
	}
}
