package hdmi

import (
	"errors"

	"github.com/behrlich/go-hdmi/internal/scanout"
	"github.com/behrlich/go-hdmi/internal/timing"
)

// Runtime entry points, invoked by the commit engine at well-defined
// pipeline phases. The engine serializes mode changes and frame
// updates per device; only vblank signaling tolerates concurrency.
// Runtime failures never unwind the pipeline: they are reported and
// the pipeline stays in its last good state.

// SetMode validates the proposed mode and rates the pixel clock for
// it. Must run before Enable; timing generation needs a stable,
// correctly-rated clock.
func (d *Device) SetMode(m *DisplayMode) error {
	if !d.isRegistered() {
		return NewError("SET_MODE", ErrCodeNotRegistered, "")
	}

	if err := d.conn.Validate(m); err != nil {
		return WrapError("SET_MODE", ErrCodeModeRejected, err)
	}
	if err := d.enc.SetMode(m); err != nil {
		return WrapError("SET_MODE", ErrCodeResourceUnavailable, err)
	}

	d.metrics.ModeSets.Add(1)
	d.currentMode = m
	return nil
}

// Enable starts the encoder clock and the timing generator for the
// mode previously applied with SetMode. Blocks for the settle delay.
func (d *Device) Enable() error {
	if !d.isRegistered() {
		return NewError("ENABLE", ErrCodeNotRegistered, "")
	}
	if d.currentMode == nil {
		return NewError("ENABLE", ErrCodeInvalidParameters, "no mode set")
	}

	if err := d.enc.Enable(); err != nil {
		return WrapError("ENABLE", ErrCodeResourceUnavailable, err)
	}
	d.metrics.ClockEnables.Add(1)

	if err := d.crtc.Enable(d.currentMode); err != nil {
		return WrapError("ENABLE", ErrCodeResourceUnavailable, err)
	}

	d.log.WithMode(d.currentMode.String()).Info("pipeline enabled")
	return nil
}

// Disable stops timing generation (terminating any in-flight plane
// transfer with it) and gates the encoder clock. Idempotent.
func (d *Device) Disable() {
	if !d.isRegistered() {
		return
	}

	d.crtc.Disable()
	if d.enc.Enabled() {
		d.enc.Disable()
		d.metrics.ClockDisables.Add(1)
	}
	d.log.Info("pipeline disabled")
}

// Update applies one atomic frame update to the plane: terminate the
// in-flight transfer, rebuild the descriptor, submit and issue. A
// detached or unbound plane is a silent no-op.
func (d *Device) Update(st PlaneState) error {
	if !d.isRegistered() {
		return NewError("FRAME_UPDATE", ErrCodeNotRegistered, "")
	}

	if err := d.plane.Update(st); err != nil {
		d.metrics.FrameErrors.Add(1)
		code := ErrCodeResourceUnavailable
		if errors.Is(err, scanout.ErrInvalidGeometry) || errors.Is(err, scanout.ErrBadFormat) {
			code = ErrCodeInvalidGeometry
		}
		return WrapError("FRAME_UPDATE", code, err)
	}

	d.metrics.FrameUpdates.Add(1)
	return nil
}

// QueueVblank stores the per-frame completion token to be signaled in
// the begin-phase of the next atomic pass.
func (d *Device) QueueVblank(ev VblankEvent) {
	if !d.isRegistered() {
		return
	}
	d.crtc.QueueEvent(ev)
}

// BeginFrame signals a pending vblank event exactly once.
func (d *Device) BeginFrame() {
	if !d.isRegistered() {
		return
	}
	if d.crtc.BeginFrame() {
		d.metrics.VblankEvents.Add(1)
	}
}

// GetModes refreshes the connector's mode list from the sink (or the
// builtin fallback) and returns how many modes were found.
func (d *Device) GetModes() (int, error) {
	if !d.isRegistered() {
		return 0, NewError("GET_MODES", ErrCodeNotRegistered, "")
	}

	count, err := d.conn.GetModes()
	if err != nil {
		d.metrics.DiscoveryErrors.Add(1)
		return 0, WrapError("GET_MODES", ErrCodeDiscoveryFailure, err)
	}

	d.metrics.ModesDiscovered.Store(uint64(count))
	return count, nil
}

// Modes returns the mode list from the last GetModes call.
func (d *Device) Modes() []DisplayMode {
	return d.conn.Modes()
}

// PreferredMode returns the preferred entry of the last discovered
// mode list, or nil when none is marked.
func (d *Device) PreferredMode() *DisplayMode {
	for _, m := range d.conn.Modes() {
		if m.Preferred() {
			m := m
			return &m
		}
	}
	return nil
}

// ValidateMode reports whether the sink/device combination accepts
// the mode. A rejection is not an error condition for the pipeline;
// the mode is simply excluded.
func (d *Device) ValidateMode(m *DisplayMode) error {
	if !d.isRegistered() {
		return NewError("MODE_VALID", ErrCodeNotRegistered, "")
	}
	if err := d.conn.Validate(m); err != nil {
		return WrapError("MODE_VALID", ErrCodeModeRejected, err)
	}
	return nil
}

// Detect polls sink presence. Without a discovery channel the status
// is unknown rather than guessed.
func (d *Device) Detect() Status {
	if !d.isRegistered() {
		return StatusUnknown
	}
	d.metrics.DetectPolls.Add(1)
	return d.conn.Detect()
}

// Sink returns display metadata learned from the last GetModes.
func (d *Device) Sink() SinkInfo {
	return d.conn.Sink()
}

// Limits returns this device's mode ceilings.
func (d *Device) Limits() Limits {
	return d.limits
}

// CurrentMode returns the mode last applied with SetMode, nil before
// the first mode set.
func (d *Device) CurrentMode() *DisplayMode {
	return d.currentMode
}

// EncoderEnabled reports whether the pixel clock is running.
func (d *Device) EncoderEnabled() bool {
	return d.enc.Enabled()
}

// CRTCState returns the timing generator lifecycle state.
func (d *Device) CRTCState() timing.State {
	return d.crtc.State()
}

// Registered reports whether the device is live (probed and not yet
// shut down).
func (d *Device) Registered() bool {
	return d.isRegistered()
}

// Metrics returns the device's metrics counters.
func (d *Device) Metrics() *Metrics {
	return d.metrics
}

func (d *Device) isRegistered() bool {
	return d != nil && d.registered
}
