// Command dishsim traces a feed's rays onto a parabolic dish and reports
// spillover, edge taper and efficiency figures. It can render the traced
// cross-section as SVG and plot the feed pattern.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/signalsfoundry/dish-optics/core"
	"github.com/signalsfoundry/dish-optics/internal/logging"
	"github.com/signalsfoundry/dish-optics/internal/observability"
	"github.com/signalsfoundry/dish-optics/internal/render"
	"github.com/signalsfoundry/dish-optics/kb"
	"github.com/signalsfoundry/dish-optics/model"
	"github.com/signalsfoundry/dish-optics/timectrl"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log := logging.NewFromEnv()
	err := run(ctx, os.Args[1:], os.Stdout, log)
	code := exitCode(err)
	if code == 1 {
		log.Error(ctx, "dishsim failed", logging.Err(err))
	}
	if code != 0 {
		os.Exit(code)
	}
}

// exitCode maps run's error to a process status: 0 on success or an explicit
// -h, 2 for bad flags, 1 otherwise.
func exitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		return 2
	default:
		return 1
	}
}

// errUsage marks command-line mistakes.
var errUsage = errors.New("usage")

type options struct {
	configPath    string
	svgPath       string
	plotPath      string
	frames        int
	tick          time.Duration
	animateOffset bool
	metrics       bool
	width, height int
}

// run parses args, evaluates the requested frames and writes the report for
// the last one to stdout.
func run(ctx context.Context, args []string, stdout io.Writer, log logging.Logger) error {
	fs := flag.NewFlagSet("dishsim", flag.ContinueOnError)
	def := model.DefaultScenario()

	var opts options
	fs.StringVar(&opts.configPath, "config", "", "path to a JSON scenario; explicit flags override it")
	diameter := fs.Float64("diameter", def.Dish.DiameterM, "dish diameter D in metres")
	fd := fs.Float64("fd", def.Dish.FocalRatio, "focal ratio f/D; focal length is D × f/D")
	beamwidth := fs.Float64("beamwidth", def.Feed.Beamwidth10dBDeg, "feed -10 dB full beamwidth in degrees")
	offset := fs.Float64("offset", def.Feed.HeightOffsetM, "feed height offset from the focus in metres")
	rays := fs.Int("rays", def.Sweep.Rays, "number of sweep intervals (rays+1 rays are traced)")
	span := fs.Float64("span", def.Sweep.SpanFactor, "sweep half-width as a multiple of the -10 dB half-angle")
	showRays := fs.Bool("show-rays", def.Display.ShowRays, "draw traced rays in the SVG")
	showNormals := fs.Bool("show-normals", def.Display.ShowNormals, "draw surface normals at hit points")
	showFeed := fs.Bool("show-feed", def.Display.ShowFeed, "draw the feed power lobe")
	fs.StringVar(&opts.svgPath, "svg", "", "write the traced cross-section to this SVG file")
	fs.StringVar(&opts.plotPath, "pattern-plot", "", "write the feed pattern plot to this file (.svg, .png, .pdf)")
	fs.IntVar(&opts.frames, "frames", 1, "number of frames to evaluate")
	fs.DurationVar(&opts.tick, "tick", 0, "wall-clock delay between frames; 0 runs frames back to back")
	fs.BoolVar(&opts.animateOffset, "animate-offset", false, "step the feed offset across [-f, +f] over the frames")
	fs.BoolVar(&opts.metrics, "metrics", false, "print Prometheus metrics after the run")
	fs.IntVar(&opts.width, "width", 800, "SVG width in pixels")
	fs.IntVar(&opts.height, "height", 600, "SVG height in pixels")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if opts.frames < 1 {
		return fmt.Errorf("%w: -frames must be at least 1, got %d", errUsage, opts.frames)
	}

	scenario := def
	if opts.configPath != "" {
		loaded, err := loadScenarioFile(opts.configPath)
		if err != nil {
			return err
		}
		scenario = loaded
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "diameter":
			scenario.Dish.DiameterM = *diameter
		case "fd":
			scenario.Dish.FocalRatio = *fd
		case "beamwidth":
			scenario.Feed.Beamwidth10dBDeg = *beamwidth
		case "offset":
			scenario.Feed.HeightOffsetM = *offset
		case "rays":
			scenario.Sweep.Rays = *rays
		case "span":
			scenario.Sweep.SpanFactor = *span
		case "show-rays":
			scenario.Display.ShowRays = *showRays
		case "show-normals":
			scenario.Display.ShowNormals = *showNormals
		case "show-feed":
			scenario.Display.ShowFeed = *showFeed
		}
	})

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdown, log)

	collector, err := observability.NewOpticsCollector(prometheus.NewRegistry())
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	store, err := kb.NewConfigStore(scenario, model.Scenario.Validate)
	if err != nil {
		return err
	}
	unsubscribe := store.Subscribe(func(ev kb.Event) {
		collector.RecordConfigReplaced()
		log.Debug(ctx, "configuration replaced",
			logging.Any("version", ev.Version),
			logging.Float("offset_m", ev.Current.Feed.HeightOffsetM),
		)
	})
	defer unsubscribe()

	engine := core.NewSimulationEngine(store, log)
	engine.RegisterFrameListener(func(r *core.FrameReport) {
		collector.RecordFrame(r.Stats())
	})

	last, err := runFrames(ctx, store, engine, opts, log)
	if err != nil {
		return err
	}

	writeReport(stdout, last)

	if opts.svgPath != "" {
		if err := writeSVG(opts, last); err != nil {
			return err
		}
		log.Info(ctx, "wrote diagram", logging.String("path", opts.svgPath))
	}
	if opts.plotPath != "" {
		p, err := render.PatternPlot(last.Optics.Feed, last.Efficiency.EdgeAngle*180/math.Pi)
		if err != nil {
			return err
		}
		if err := render.SavePatternPlot(opts.plotPath, p); err != nil {
			return err
		}
		log.Info(ctx, "wrote pattern plot", logging.String("path", opts.plotPath))
	}
	if opts.metrics {
		if err := collector.WriteText(stdout); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// runFrames drives the engine from a frame controller and returns the last
// report.
func runFrames(ctx context.Context, store *kb.ConfigStore, engine *core.SimulationEngine, opts options, log logging.Logger) (*core.FrameReport, error) {
	mode := timectrl.Accelerated
	if opts.tick > 0 {
		mode = timectrl.RealTime
	}
	tick := opts.tick
	if tick <= 0 {
		tick = time.Second
	}
	fc := timectrl.NewFrameController(time.Now().UTC(), tick, mode)

	base := store.Snapshot()
	log = log.With(logging.String("scenario", base.Name))
	ctx = logging.ContextWithLogger(ctx, log)
	var (
		last     *core.FrameReport
		firstErr error
	)
	fc.AddListener(func(fr timectrl.Frame) {
		if firstErr != nil {
			return
		}
		if opts.animateOffset {
			off := model.OffsetRange.Clamp(animatedOffset(base.Dish.FocalLengthM(), fr.Index, opts.frames))
			if err := store.Update(func(s *model.Scenario) { s.Feed.HeightOffsetM = off }); err != nil {
				firstErr = err
				return
			}
		}
		report, err := engine.Evaluate(ctx, fr.Index)
		if err != nil {
			firstErr = err
			return
		}
		last = report
		log.Info(ctx, "frame",
			logging.Int("frame", fr.Index),
			logging.Float("offset_m", report.Scenario.Feed.HeightOffsetM),
			logging.Int("hits", report.Sweep.Hits),
			logging.Int("spillovers", report.Sweep.Spillovers),
			logging.Float("spillover_efficiency", report.Efficiency.Spillover),
		)
	})

	<-fc.Start(ctx, opts.frames)
	if firstErr != nil {
		return nil, firstErr
	}
	if last == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("no frame was evaluated")
	}
	return last, nil
}

// animatedOffset steps linearly from -f at the first frame to +f at the last.
func animatedOffset(f float64, index, frames int) float64 {
	if frames <= 1 {
		return 0
	}
	return -f + 2*f*float64(index)/float64(frames-1)
}

func loadScenarioFile(path string) (model.Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Scenario{}, fmt.Errorf("open scenario %q: %w", path, err)
	}
	defer f.Close()
	s, err := core.LoadScenario(f)
	if err != nil {
		return model.Scenario{}, fmt.Errorf("load scenario %q: %w", path, err)
	}
	return s, nil
}

func writeSVG(opts options, r *core.FrameReport) error {
	f, err := os.Create(opts.svgPath)
	if err != nil {
		return fmt.Errorf("create %q: %w", opts.svgPath, err)
	}
	view := render.FitView(opts.width, opts.height, r.Optics.Surface, r.Optics.Tracer.FeedPosition())
	err = render.WriteSVG(f, view, render.Diagram{Optics: r.Optics, Sweep: r.Sweep}, render.Options{
		ShowRays:    r.Scenario.Display.ShowRays,
		ShowNormals: r.Scenario.Display.ShowNormals,
		ShowFeed:    r.Scenario.Display.ShowFeed,
		Title:       title(r),
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func title(r *core.FrameReport) string {
	s := r.Scenario
	return fmt.Sprintf("D=%.1f m  f/D=%.2f  f=%.2f m  beam=%.0f°  offset=%.2f m",
		s.Dish.DiameterM, s.Dish.FocalRatio, s.Dish.FocalLengthM(), s.Feed.Beamwidth10dBDeg, s.Feed.HeightOffsetM)
}
