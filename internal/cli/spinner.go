package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

const spinnerInterval = 80 * time.Millisecond

// Spinner animates a single status line while a conversion runs. It
// clears itself when stopped or when its context ends.
type Spinner struct {
	ctx       context.Context
	w         io.Writer
	message   string
	stop      chan struct{}
	wg        sync.WaitGroup
	stopOnce  sync.Once
	cancelled atomic.Bool
}

// newSpinner draws on stderr so JSON written to stdout stays clean.
func newSpinner(ctx context.Context, message string) *Spinner {
	return newSpinnerTo(ctx, os.Stderr, message)
}

func newSpinnerTo(ctx context.Context, w io.Writer, message string) *Spinner {
	return &Spinner{ctx: ctx, w: w, message: message, stop: make(chan struct{})}
}

func (s *Spinner) Start() {
	s.wg.Add(1)
	go s.run()
}

func (s *Spinner) run() {
	defer s.wg.Done()
	defer s.erase()

	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()
	for frame := 0; ; frame = (frame + 1) % len(spinnerFrames) {
		select {
		case <-s.stop:
			return
		case <-s.ctx.Done():
			s.cancelled.Store(true)
			return
		case <-tick.C:
		}
		glyph := styleIconSpinner.Render(string(spinnerFrames[frame]))
		fmt.Fprintf(s.w, "\r%s %s", glyph, StyleDim.Render(s.message))
	}
}

func (s *Spinner) erase() {
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// Stop ends the animation and waits for the line to be cleared. Later
// calls do nothing.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.wg.Wait()
}

// StopWithError stops the spinner and prints message as a failure.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the context ended while the spinner was running.
func (s *Spinner) Cancelled() bool {
	if s.cancelled.Load() {
		return true
	}
	select {
	case <-s.stop:
		return false
	default:
		return s.ctx.Err() != nil
	}
}
