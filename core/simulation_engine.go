package core

import (
	"context"
	"sync"
	"time"

	"github.com/signalsfoundry/dish-optics/internal/logging"
	"github.com/signalsfoundry/dish-optics/internal/observability"
	"github.com/signalsfoundry/dish-optics/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// SnapshotSource hands out the configuration snapshot to evaluate.
// kb.ConfigStore satisfies it.
type SnapshotSource interface {
	Current() (model.Scenario, uint64)
}

// FrameReport is everything computed for one frame.
type FrameReport struct {
	Frame      int
	Version    uint64
	Scenario   model.Scenario
	Optics     Optics
	Sweep      *SweepResult
	Efficiency Efficiency
	Duration   time.Duration
}

// SimulationEngine evaluates the current snapshot once per frame. It keeps no
// optics state between frames.
type SimulationEngine struct {
	Source            SnapshotSource
	EfficiencySamples int
	Workers           int

	log       logging.Logger
	mu        sync.Mutex
	listeners []func(*FrameReport)
}

// NewSimulationEngine constructs an engine reading from src.
func NewSimulationEngine(src SnapshotSource, log logging.Logger) *SimulationEngine {
	if log == nil {
		log = logging.Noop()
	}
	return &SimulationEngine{
		Source:            src,
		EfficiencySamples: DefaultEfficiencySamples,
		log:               log,
	}
}

// RegisterFrameListener adds a callback invoked after every evaluated frame.
func (se *SimulationEngine) RegisterFrameListener(fn func(*FrameReport)) {
	se.mu.Lock()
	defer se.mu.Unlock()
	se.listeners = append(se.listeners, fn)
}

// Evaluate builds the optics for the current snapshot, sweeps it and
// computes its efficiency figures. A logger attached to ctx takes precedence
// over the engine's own.
func (se *SimulationEngine) Evaluate(ctx context.Context, frame int) (*FrameReport, error) {
	ctx, _ = logging.EnsureSweepID(ctx)
	log := logging.FromContext(ctx, se.log)
	scenario, version := se.Source.Current()

	ctx, span := observability.StartSpan(ctx, "optics.frame",
		attribute.Int("frame", frame),
		attribute.Int64("config_version", int64(version)),
		attribute.String("scenario", scenario.Name),
	)
	defer span.End()

	start := time.Now()
	optics, err := NewOptics(scenario)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error(ctx, "invalid configuration snapshot", logging.Int("frame", frame), logging.Err(err))
		return nil, err
	}
	optics.Sweep.Workers = se.Workers

	sweepCtx, sweepSpan := observability.StartSpan(ctx, "optics.sweep", attribute.Int("rays", optics.Sweep.Rays+1))
	sweep, err := Sweep(sweepCtx, optics.Tracer, optics.Sweep)
	sweepSpan.End()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	_, effSpan := observability.StartSpan(ctx, "optics.efficiency", attribute.Int("samples", se.EfficiencySamples))
	eff, err := ComputeEfficiency(optics.Tracer, optics.Pattern, se.EfficiencySamples)
	effSpan.End()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	report := &FrameReport{
		Frame:      frame,
		Version:    version,
		Scenario:   scenario,
		Optics:     optics,
		Sweep:      sweep,
		Efficiency: eff,
		Duration:   time.Since(start),
	}
	span.SetAttributes(
		attribute.Int("hits", sweep.Hits),
		attribute.Int("spillovers", sweep.Spillovers),
		attribute.Float64("spillover_efficiency", eff.Spillover),
	)
	log.Debug(ctx, "frame evaluated",
		logging.Int("frame", frame),
		logging.Int("hits", sweep.Hits),
		logging.Int("spillovers", sweep.Spillovers),
		logging.Int("misses", sweep.Misses),
		logging.String("lower_edge", sweep.Lower.Outcome.String()),
		logging.String("upper_edge", sweep.Upper.Outcome.String()),
		logging.Float("spillover_efficiency", eff.Spillover),
		logging.Float("edge_taper_db", eff.EdgeTaperDB),
	)

	se.mu.Lock()
	listeners := append([]func(*FrameReport){}, se.listeners...)
	se.mu.Unlock()
	for _, fn := range listeners {
		fn(report)
	}
	return report, nil
}

// Run evaluates frames back to back, stopping at the first error.
func (se *SimulationEngine) Run(ctx context.Context, frames int) error {
	for frame := 0; frame < frames; frame++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := se.Evaluate(ctx, frame); err != nil {
			return err
		}
	}
	return nil
}

// Stats converts the report into the collector's frame summary.
func (r *FrameReport) Stats() observability.FrameStats {
	return observability.FrameStats{
		Hits:                r.Sweep.Hits,
		Spillovers:          r.Sweep.Spillovers,
		Misses:              r.Sweep.Misses,
		LowerOutcome:        r.Sweep.Lower.Outcome.String(),
		UpperOutcome:        r.Sweep.Upper.Outcome.String(),
		SpilloverRatio:      r.Sweep.SpilloverRatio(),
		SpilloverEfficiency: r.Efficiency.Spillover,
		ApertureEfficiency:  r.Efficiency.Aperture,
		EdgeTaperDB:         r.Efficiency.EdgeTaperDB,
		Duration:            r.Duration,
	}
}
