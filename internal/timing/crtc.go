// Package timing owns the video timing generator lifecycle and the
// per-frame vblank event signaling.
package timing

import (
	"fmt"
	"sync"
	"time"

	"github.com/behrlich/go-hdmi/internal/constants"
	"github.com/behrlich/go-hdmi/internal/interfaces"
	"github.com/behrlich/go-hdmi/internal/logging"
	"github.com/behrlich/go-hdmi/internal/mode"
)

// State is the CRTC lifecycle state.
type State int

const (
	StateDisabled State = iota
	StateEnabling
	StateEnabled
	StateDisabling
)

func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateEnabling:
		return "enabling"
	case StateEnabled:
		return "enabled"
	case StateDisabling:
		return "disabling"
	}
	return "unknown"
}

// Event is the opaque per-frame completion token supplied by the
// commit engine. It must be signaled exactly once.
type Event interface {
	Signal()
}

// CRTC drives the timing generator. The bridge is optional; without
// one the bridge steps are skipped but the settle delay and the
// cross-cutting DMA terminate still run.
//
// Mode enables and disables are serialized by the commit engine. The
// pending vblank event is the one field touched from an asynchronous
// completion path and sits behind its own mutex.
type CRTC struct {
	bridge interfaces.TimingBridge
	dma    interfaces.DMAChannel
	log    *logging.Logger

	state State

	eventMu sync.Mutex
	pending Event

	sleep func(time.Duration)
}

// NewCRTC creates the timing controller. bridge may be nil.
func NewCRTC(bridge interfaces.TimingBridge, dma interfaces.DMAChannel, log *logging.Logger) (*CRTC, error) {
	if dma == nil {
		return nil, fmt.Errorf("timing: crtc requires a DMA channel")
	}
	if log == nil {
		log = logging.Default()
	}

	return &CRTC{
		bridge: bridge,
		dma:    dma,
		log:    log,
		sleep:  time.Sleep,
	}, nil
}

// State returns the current lifecycle state.
func (c *CRTC) State() State {
	return c.state
}

// SettleDelay returns the wait applied after enabling timing
// generation: one refresh period of m, rounded to whole milliseconds
// with a 1 ms floor.
func SettleDelay(m *mode.DisplayMode) time.Duration {
	vrefresh := m.VRefresh()
	if vrefresh <= 0 {
		return constants.SettleDelayFloor
	}

	d := time.Duration(1000/vrefresh) * time.Millisecond
	if d < constants.SettleDelayFloor {
		d = constants.SettleDelayFloor
	}
	return d
}

// Enable programs and starts timing generation for adjustedMode, then
// blocks for one refresh period so the generator settles before the
// first frame. No lock is held across the wait.
func (c *CRTC) Enable(adjustedMode *mode.DisplayMode) error {
	if adjustedMode == nil {
		return fmt.Errorf("timing: enable without a mode")
	}

	c.state = StateEnabling

	if c.bridge != nil {
		vt := adjustedMode.ToTiming()
		if err := c.bridge.SetTiming(vt); err != nil {
			c.state = StateDisabled
			return fmt.Errorf("timing: set bridge timing: %w", err)
		}
		if err := c.bridge.Enable(); err != nil {
			c.state = StateDisabled
			return fmt.Errorf("timing: enable bridge: %w", err)
		}
	}

	delay := SettleDelay(adjustedMode)
	c.log.Debug("timing generator settling", "mode", adjustedMode.String(), "delay", delay)
	c.sleep(delay)

	c.state = StateEnabled
	return nil
}

// Disable stops timing generation and terminates any in-flight plane
// transfer so nothing streams into a torn-down pipeline.
func (c *CRTC) Disable() {
	c.state = StateDisabling

	if c.bridge != nil {
		c.bridge.Disable()
	}

	if err := c.dma.Terminate(); err != nil {
		c.log.Warn("terminate on crtc disable", "err", err)
	}

	c.state = StateDisabled
}

// QueueEvent stores the pending vblank event for the next atomic
// pass. The commit engine queues at most one per frame; a replaced
// event would be lost, so it is logged loudly.
func (c *CRTC) QueueEvent(ev Event) {
	c.eventMu.Lock()
	if c.pending != nil {
		c.log.Error("vblank event queued while one is pending")
	}
	c.pending = ev
	c.eventMu.Unlock()
}

// BeginFrame runs the begin-phase of an atomic pass: if a vblank
// event is pending it is signaled exactly once and cleared, under a
// short critical section. Returns whether an event was signaled.
func (c *CRTC) BeginFrame() bool {
	c.eventMu.Lock()
	defer c.eventMu.Unlock()

	if c.pending == nil {
		return false
	}

	ev := c.pending
	c.pending = nil
	ev.Signal()
	return true
}
