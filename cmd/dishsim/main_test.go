package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/signalsfoundry/dish-optics/core"
	"github.com/signalsfoundry/dish-optics/internal/logging"
	"github.com/signalsfoundry/dish-optics/model"
)

func runArgs(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("OPTICS_TRACING_ENABLED", "false")
	var out bytes.Buffer
	err := run(context.Background(), args, &out, logging.Noop())
	return out.String(), err
}

func TestRunDefaultScenarioReport(t *testing.T) {
	out, err := runArgs(t)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{
		"focal length", "1.500 m",
		"41 traced",
		"lower edge", "upper edge", "hit",
		"spillover efficiency",
		"aperture efficiency",
		"53.13°",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRunWritesDiagramAndPatternPlot(t *testing.T) {
	dir := t.TempDir()
	svgPath := filepath.Join(dir, "dish.svg")
	plotPath := filepath.Join(dir, "pattern.svg")
	if _, err := runArgs(t, "-svg", svgPath, "-pattern-plot", plotPath, "-show-normals"); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, p := range []string{svgPath, plotPath} {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		if !bytes.Contains(data, []byte("<svg")) {
			t.Fatalf("%s is not an svg document", p)
		}
	}
}

func TestRunConfigFileWithFlagOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.json")
	cfg := `{"name": "bench", "dish": {"diameter_m": 1.2, "f_over_d": 0.4}, "feed": {"beamwidth_10db_deg": 120}}`
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out, err := runArgs(t, "-config", path, "-beamwidth", "60")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"bench", "1.20 m", "0.480 m", "60.0° -10 dB beamwidth"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRunRejectsBadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"dish": {"diameter": 2}}`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := runArgs(t, "-config", path)
	if !errors.Is(err, core.ErrInvalidScenario) {
		t.Fatalf("err = %v, want ErrInvalidScenario", err)
	}
}

func TestRunRejectsOutOfRangeFlag(t *testing.T) {
	_, err := runArgs(t, "-diameter", "20")
	if !errors.Is(err, model.ErrOutOfRange) {
		t.Fatalf("err = %v, want ErrOutOfRange", err)
	}
	if _, err := runArgs(t, "-frames", "0"); err == nil {
		t.Fatalf("expected error for -frames 0")
	}
}

func TestRunAnimatedOffsetEndsDefocusedAndCountsReplacements(t *testing.T) {
	out, err := runArgs(t, "-animate-offset", "-frames", "3", "-metrics")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{
		"+1.500 m",
		"n/a (feed defocused)",
		"optics_config_replacements_total 3",
		"optics_sweep_duration_seconds_count 3",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunRealTimeFrames(t *testing.T) {
	if _, err := runArgs(t, "-frames", "2", "-tick", "5ms"); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestAnimatedOffset(t *testing.T) {
	cases := []struct {
		index, frames int
		want          float64
	}{
		{0, 1, 0},
		{0, 5, -2},
		{2, 5, 0},
		{4, 5, 2},
	}
	for _, c := range cases {
		if got := animatedOffset(2, c.index, c.frames); math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("animatedOffset(2, %d, %d) = %v, want %v", c.index, c.frames, got, c.want)
		}
	}
}

func TestHelpExitsZero(t *testing.T) {
	_, err := runArgs(t, "-h")
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("run(-h) err = %v, want flag.ErrHelp", err)
	}
	if code := exitCode(err); code != 0 {
		t.Fatalf("exitCode(-h) = %d, want 0", code)
	}
}

func TestExitCodes(t *testing.T) {
	_, err := runArgs(t, "-no-such-flag")
	if code := exitCode(err); code != 2 {
		t.Fatalf("exitCode(unknown flag) = %d, want 2 (err %v)", code, err)
	}
	_, err = runArgs(t, "-frames", "0")
	if code := exitCode(err); code != 2 {
		t.Fatalf("exitCode(-frames 0) = %d, want 2", code)
	}
	_, err = runArgs(t, "-diameter", "20")
	if code := exitCode(err); code != 1 {
		t.Fatalf("exitCode(out of range) = %d, want 1", code)
	}
	if code := exitCode(nil); code != 0 {
		t.Fatalf("exitCode(nil) = %d, want 0", code)
	}
}
