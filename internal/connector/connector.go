// Package connector negotiates display capabilities with the sink:
// mode discovery over the capability channel, validation against the
// device limits, and presence detection.
package connector

import (
	"errors"
	"fmt"

	"github.com/behrlich/go-hdmi/internal/edid"
	"github.com/behrlich/go-hdmi/internal/interfaces"
	"github.com/behrlich/go-hdmi/internal/logging"
	"github.com/behrlich/go-hdmi/internal/mode"
)

// Status is the sink presence state.
type Status int

const (
	// StatusUnknown is reported when no discovery channel exists and
	// presence cannot be established. Never guessed.
	StatusUnknown Status = iota
	StatusConnected
	StatusDisconnected
)

func (s Status) String() string {
	switch s {
	case StatusConnected:
		return "connected"
	case StatusDisconnected:
		return "disconnected"
	}
	return "unknown"
}

var (
	// ErrDiscovery is returned when a configured capability channel
	// cannot be read. Deliberately distinct from having no channel,
	// which falls back to the builtin list.
	ErrDiscovery = errors.New("connector: capability discovery failed")

	// ErrModeRejected is returned by Validate for modes outside the
	// device limits or using an unsupported scan flag.
	ErrModeRejected = errors.New("connector: mode rejected")
)

// Limits are the per-device mode ceilings, fixed at probe time.
type Limits struct {
	// MaxClockKHz is the pixel clock ceiling in kHz.
	MaxClockKHz uint32

	MaxH uint16
	MaxV uint16

	// PrefH and PrefV name the fallback preferred mode, used only
	// when no discovery channel is configured.
	PrefH uint16
	PrefV uint16
}

// SinkInfo is display metadata learned from capability data.
type SinkInfo struct {
	Name     string
	WidthCm  int
	HeightCm int
}

// Connector is the sink negotiator. ddc may be nil, in which case
// modes come from the builtin fallback table and detection reports
// unknown.
type Connector struct {
	ddc    interfaces.DiscoveryChannel
	limits Limits
	log    *logging.Logger

	modes []mode.DisplayMode
	sink  SinkInfo
}

// New creates the negotiator. Limits must name a nonzero clock
// ceiling and preferred sizes within the maxima.
func New(ddc interfaces.DiscoveryChannel, limits Limits, log *logging.Logger) (*Connector, error) {
	if limits.MaxClockKHz == 0 || limits.MaxH == 0 || limits.MaxV == 0 {
		return nil, fmt.Errorf("connector: zero mode limits")
	}
	if limits.PrefH > limits.MaxH || limits.PrefV > limits.MaxV {
		return nil, fmt.Errorf("connector: preferred %dx%d exceeds limits %dx%d",
			limits.PrefH, limits.PrefV, limits.MaxH, limits.MaxV)
	}
	if log == nil {
		log = logging.Default()
	}

	return &Connector{
		ddc:    ddc,
		limits: limits,
		log:    log,
	}, nil
}

// Limits returns the device mode ceilings.
func (c *Connector) Limits() Limits {
	return c.limits
}

// Modes returns the mode list from the last GetModes call.
func (c *Connector) Modes() []mode.DisplayMode {
	return c.modes
}

// Sink returns the display metadata from the last GetModes call.
func (c *Connector) Sink() SinkInfo {
	return c.sink
}

// GetModes populates the mode list and returns the count. With a
// discovery channel, capability data is read and parsed; a failed
// read yields zero modes and an error, never a silent fallback.
// Without a channel, the builtin table filtered to the limits is
// used, with exactly one entry marked preferred.
func (c *Connector) GetModes() (int, error) {
	if c.ddc != nil {
		block, err := c.ddc.ReadBlock(0)
		if err != nil {
			c.modes = nil
			return 0, fmt.Errorf("%w: %v", ErrDiscovery, err)
		}

		parsed, err := edid.Parse(block)
		if err != nil {
			c.modes = nil
			return 0, fmt.Errorf("%w: %v", ErrDiscovery, err)
		}

		c.modes = parsed.Modes
		c.sink = SinkInfo{
			Name:     parsed.MonitorName,
			WidthCm:  parsed.WidthCm,
			HeightCm: parsed.HeightCm,
		}
		return len(c.modes), nil
	}

	c.modes = fallbackModes(c.limits)
	c.sink = SinkInfo{}
	return len(c.modes), nil
}

// fallbackModes synthesizes the no-channel mode list: the builtin
// table filtered to (MaxH, MaxV) plus the preferred entry. When the
// preferred size has no table entry, a mode is estimated for it so
// the preferred entry always exists.
func fallbackModes(l Limits) []mode.DisplayMode {
	modes := mode.Fallback(l.MaxH, l.MaxV)

	marked := false
	for i := range modes {
		modes[i].Type &^= mode.TypePreferred
		if !marked && modes[i].HDisplay == l.PrefH && modes[i].VDisplay == l.PrefV {
			modes[i].Type |= mode.TypePreferred
			marked = true
		}
	}

	if !marked {
		m := mode.Estimate(l.PrefH, l.PrefV)
		m.Type |= mode.TypePreferred
		modes = append(modes, m)
	}

	return modes
}

// Validate accepts a mode iff it uses no interlaced, double-clocked
// or stereo scan flag and fits under the clock and size ceilings.
// Values exactly at a ceiling are accepted.
func (c *Connector) Validate(m *mode.DisplayMode) error {
	if m == nil {
		return fmt.Errorf("%w: nil mode", ErrModeRejected)
	}

	if m.Flags&(mode.FlagInterlace|mode.FlagDoubleClk|mode.Flag3DMask) != 0 {
		return fmt.Errorf("%w: unsupported scan flags %#x", ErrModeRejected, m.Flags)
	}
	if m.Clock > c.limits.MaxClockKHz {
		return fmt.Errorf("%w: clock %d kHz above %d", ErrModeRejected, m.Clock, c.limits.MaxClockKHz)
	}
	if m.HDisplay > c.limits.MaxH || m.VDisplay > c.limits.MaxV {
		return fmt.Errorf("%w: %dx%d above %dx%d", ErrModeRejected,
			m.HDisplay, m.VDisplay, c.limits.MaxH, c.limits.MaxV)
	}

	return nil
}

// Detect probes sink presence. Polled only; there is no hot-plug
// interrupt path.
func (c *Connector) Detect() Status {
	if c.ddc == nil {
		return StatusUnknown
	}

	if err := c.ddc.Probe(); err != nil {
		c.log.Debug("sink probe failed", "err", err)
		return StatusDisconnected
	}
	return StatusConnected
}
