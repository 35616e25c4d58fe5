// Package encoder owns the pixel clock state machine behind the
// encoder IP.
package encoder

import (
	"fmt"

	"github.com/behrlich/go-hdmi/internal/interfaces"
	"github.com/behrlich/go-hdmi/internal/mode"
)

// Encoder gates the pixel clock. Enable and disable are idempotent:
// both are reached from multiple control paths and must tolerate
// repeats.
type Encoder struct {
	clock   interfaces.Clock
	enabled bool
}

// NewEncoder creates the encoder bound to its pixel clock.
func NewEncoder(clock interfaces.Clock) (*Encoder, error) {
	if clock == nil {
		return nil, fmt.Errorf("encoder: requires a pixel clock")
	}
	return &Encoder{clock: clock}, nil
}

// Enabled reports whether the clock is running.
func (e *Encoder) Enabled() bool {
	return e.enabled
}

// Enable prepares and starts the pixel clock. A second Enable is a
// no-op.
func (e *Encoder) Enable() error {
	if e.enabled {
		return nil
	}

	if err := e.clock.Prepare(); err != nil {
		return fmt.Errorf("encoder: prepare clock: %w", err)
	}
	if err := e.clock.Start(); err != nil {
		e.clock.Unprepare()
		return fmt.Errorf("encoder: start clock: %w", err)
	}

	e.enabled = true
	return nil
}

// Disable gates the clock. Disabling an already disabled encoder is a
// no-op.
func (e *Encoder) Disable() {
	if !e.enabled {
		return
	}

	e.clock.Stop()
	e.clock.Unprepare()
	e.enabled = false
}

// SetMode rates the clock for the mode being entered. Must run before
// the timing generator is enabled; timing generation depends on a
// stable, correctly-rated clock. Legal while enabled.
func (e *Encoder) SetMode(m *mode.DisplayMode) error {
	if m == nil {
		return fmt.Errorf("encoder: set mode without a mode")
	}
	if err := e.clock.SetRate(int64(m.Clock) * 1000); err != nil {
		return fmt.Errorf("encoder: set clock rate: %w", err)
	}
	return nil
}
