package timectrl

import (
	"context"
	"sync"
	"time"
)

// Mode describes how the FrameController paces frames.
type Mode int

const (
	// RealTime waits one Tick of wall-clock time between frames.
	RealTime Mode = iota
	// Accelerated emits frames back to back while still stepping the frame
	// clock by Tick.
	Accelerated
)

func (m Mode) String() string {
	if m == Accelerated {
		return "accelerated"
	}
	return "realtime"
}

// Frame identifies one animation frame.
type Frame struct {
	Index int
	Time  time.Time
}

// FrameController drives the frame clock and notifies registered listeners
// once per frame, in registration order.
type FrameController struct {
	mu        sync.RWMutex
	StartTime time.Time
	Tick      time.Duration
	Mode      Mode

	current Frame

	listeners []func(Frame)
}

// NewFrameController constructs a controller whose clock starts at start.
func NewFrameController(start time.Time, tick time.Duration, mode Mode) *FrameController {
	return &FrameController{
		StartTime: start,
		Tick:      tick,
		Mode:      mode,
		current:   Frame{Index: -1, Time: start},
	}
}

// Current returns the most recently emitted frame. Index is -1 before the
// first frame.
func (fc *FrameController) Current() Frame {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return fc.current
}

// AddListener registers a callback invoked on every frame.
func (fc *FrameController) AddListener(fn func(Frame)) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.listeners = append(fc.listeners, fn)
}

// Start emits frames in a separate goroutine until frames have been emitted
// (frames <= 0 means unbounded) or ctx is done. The returned channel is
// closed when the loop exits.
func (fc *FrameController) Start(ctx context.Context, frames int) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		var tick <-chan time.Time
		if fc.Mode == RealTime && fc.Tick > 0 {
			ticker := time.NewTicker(fc.Tick)
			defer ticker.Stop()
			tick = ticker.C
		}

		for i := 0; frames <= 0 || i < frames; i++ {
			if tick != nil {
				select {
				case <-ctx.Done():
				case <-tick:
				}
			}
			if ctx.Err() != nil {
				return
			}

			f := Frame{Index: i, Time: fc.StartTime.Add(time.Duration(i) * fc.Tick)}
			fc.mu.Lock()
			fc.current = f
			listeners := append([]func(Frame){}, fc.listeners...)
			fc.mu.Unlock()

			for _, fn := range listeners {
				fn(f)
			}
		}
	}()
	return done
}
