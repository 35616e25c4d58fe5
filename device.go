// Package hdmi provides the main API for driving a DMA-fed HDMI
// display pipeline: one CRTC, one scanout plane, one encoder and one
// connector over integrator-supplied hardware collaborators.
package hdmi

import (
	"fmt"

	"github.com/behrlich/go-hdmi/internal/connector"
	"github.com/behrlich/go-hdmi/internal/constants"
	"github.com/behrlich/go-hdmi/internal/encoder"
	"github.com/behrlich/go-hdmi/internal/interfaces"
	"github.com/behrlich/go-hdmi/internal/logging"
	"github.com/behrlich/go-hdmi/internal/mode"
	"github.com/behrlich/go-hdmi/internal/scanout"
	"github.com/behrlich/go-hdmi/internal/timing"
)

// Re-exported collaborator interfaces and types. Integrators
// implement these against their hardware.
type (
	Clock            = interfaces.Clock
	DMAChannel       = interfaces.DMAChannel
	TimingBridge     = interfaces.TimingBridge
	DiscoveryChannel = interfaces.DiscoveryChannel
	Framebuffer      = interfaces.Framebuffer
	VideoTiming      = interfaces.VideoTiming

	DisplayMode = mode.DisplayMode
	PlaneState  = scanout.State
	Region      = scanout.Region
	VblankEvent = timing.Event
	SinkInfo    = connector.SinkInfo
	Status      = connector.Status
	Limits      = connector.Limits
)

// Sink presence states.
const (
	StatusUnknown      = connector.StatusUnknown
	StatusConnected    = connector.StatusConnected
	StatusDisconnected = connector.StatusDisconnected
)

// Params configures a pipeline probe. Sources are acquisition
// callbacks, invoked in a fixed order; ClockSource and DMASource are
// required. BridgeSource and DiscoverySource are optional: leave nil
// when the hardware is not declared, or return an error when it is
// declared but not ready yet (the probe then reports a deferred
// error so the caller can retry later).
type Params struct {
	// ClockSource acquires the pixel clock. Required.
	ClockSource func() (Clock, error)

	// DMASource acquires the scanout DMA channel. Required.
	DMASource func() (DMAChannel, error)

	// BridgeSource acquires the timing bridge. Optional.
	BridgeSource func() (TimingBridge, error)

	// DiscoverySource acquires the sink capability channel. Optional.
	DiscoverySource func() (DiscoveryChannel, error)

	// Limits override the builtin mode ceilings. Zero fields keep
	// the defaults.
	Limits Limits
}

// Options contains side-band options for device creation
type Options struct {
	// Logger for pipeline messages (nil uses the package default)
	Logger *logging.Logger
}

// DefaultLimits returns the builtin mode ceilings
func DefaultLimits() Limits {
	return Limits{
		MaxClockKHz: constants.DefaultMaxPixelClockKHz,
		MaxH:        constants.DefaultMaxHorizontal,
		MaxV:        constants.DefaultMaxVertical,
		PrefH:       constants.DefaultPreferredHorizontal,
		PrefV:       constants.DefaultPreferredVertical,
	}
}

// Device is the aggregate display pipeline: exactly one plane on one
// CRTC, one encoder on one connector, plus the acquired hardware
// handles. Created once by Probe, destroyed once by Shutdown.
type Device struct {
	clock  Clock
	dma    DMAChannel
	bridge TimingBridge
	ddc    DiscoveryChannel

	plane *scanout.Plane
	crtc  *timing.CRTC
	enc   *encoder.Encoder
	conn  *connector.Connector

	limits  Limits
	log     *logging.Logger
	metrics *Metrics

	currentMode *DisplayMode
	registered  bool
}

// probeStage identifies a construction step, for fault injection in
// rollback tests.
type probeStage int

const (
	stageNone probeStage = iota
	stagePlane
	stageCRTC
	stageEncoder
	stageConnector
)

// Probe acquires the hardware resources in a fixed order, wires the
// four controllers into a Device and registers it. Any failure
// releases everything acquired so far in exact reverse order before
// returning. A deferred error (optional dependency declared but not
// ready) satisfies IsDeferred.
func Probe(params Params, options *Options) (*Device, error) {
	return probe(params, options, stageNone)
}

func probe(params Params, options *Options, failAt probeStage) (*Device, error) {
	if options == nil {
		options = &Options{}
	}
	log := options.Logger
	if log == nil {
		log = logging.Default()
	}
	log = log.WithDevice("hdmi-tx")

	if params.ClockSource == nil || params.DMASource == nil {
		return nil, NewError("PROBE", ErrCodeInvalidParameters,
			"clock and DMA sources are required")
	}

	// Acquisition chain. Each step pushes its release onto the
	// unwind stack so a later failure rolls back in reverse order.
	var unwind []func()
	release := func() {
		for i := len(unwind) - 1; i >= 0; i-- {
			unwind[i]()
		}
	}

	clock, err := params.ClockSource()
	if err != nil {
		log.Error("failed to find pixel clock", "err", err)
		return nil, WrapError("PROBE", ErrCodeResourceUnavailable, err)
	}
	// Clock handles are provider-managed; no release step.

	dma, err := params.DMASource()
	if err != nil {
		log.Error("DMA channel not ready", "err", err)
		return nil, WrapError("PROBE", ErrCodeResourceUnavailable, err)
	}
	unwind = append(unwind, dma.Release)

	var bridge TimingBridge
	if params.BridgeSource != nil {
		bridge, err = params.BridgeSource()
		if err != nil {
			log.Error("timing bridge instance not found", "err", err)
			release()
			return nil, WrapError("PROBE", ErrCodeProbeDeferred, err)
		}
		unwind = append(unwind, bridge.Put)
	} else {
		log.Warn("no timing bridge declared")
	}

	var ddc DiscoveryChannel
	if params.DiscoverySource != nil {
		ddc, err = params.DiscoverySource()
		if err != nil {
			log.Error("capability channel not found", "err", err)
			release()
			return nil, WrapError("PROBE", ErrCodeProbeDeferred, err)
		}
		unwind = append(unwind, func() { ddc.Close() })
	} else {
		log.Warn("no capability channel declared")
	}

	limits := fillLimits(params.Limits)

	// Construction chain: plane, then CRTC, then encoder, then
	// connector (the connector attaches to the encoder). A failure
	// tears down only what was constructed, then releases the
	// acquired resources.
	plane, err := scanout.NewPlane(dma, log)
	if err != nil || failAt == stagePlane {
		err = orInjected(err, failAt == stagePlane)
		log.Error("failed to create plane", "err", err)
		release()
		return nil, WrapError("PROBE", ErrCodeResourceUnavailable, err)
	}

	crtc, err := timing.NewCRTC(bridge, dma, log)
	if err != nil || failAt == stageCRTC {
		err = orInjected(err, failAt == stageCRTC)
		log.Error("failed to create crtc", "err", err)
		release()
		return nil, WrapError("PROBE", ErrCodeResourceUnavailable, err)
	}

	enc, err := encoder.NewEncoder(clock)
	if err != nil || failAt == stageEncoder {
		err = orInjected(err, failAt == stageEncoder)
		log.Error("failed to create encoder", "err", err)
		release()
		return nil, WrapError("PROBE", ErrCodeResourceUnavailable, err)
	}

	conn, err := connector.New(ddc, limits, log)
	if err != nil || failAt == stageConnector {
		err = orInjected(err, failAt == stageConnector)
		log.Error("failed to create connector", "err", err)
		release()
		return nil, WrapError("PROBE", ErrCodeResourceUnavailable, err)
	}

	d := &Device{
		clock:  clock,
		dma:    dma,
		bridge: bridge,
		ddc:    ddc,

		plane: plane,
		crtc:  crtc,
		enc:   enc,
		conn:  conn,

		limits:  limits,
		log:     log,
		metrics: NewMetrics(),

		registered: true,
	}

	log.Info("display pipeline registered",
		"bridge", bridge != nil,
		"discovery", ddc != nil,
		"fmax_khz", limits.MaxClockKHz,
		"max", formatSize(limits.MaxH, limits.MaxV),
		"pref", formatSize(limits.PrefH, limits.PrefV))

	return d, nil
}

// Shutdown forces the pipeline to a safe inactive state, then
// releases the acquired resources in exact reverse acquisition
// order, then drops the aggregate. Safe to call once.
func (d *Device) Shutdown() {
	if d == nil || !d.registered {
		return
	}

	// Quiesce before releasing anything: stop timing generation and
	// DMA, then gate the clock.
	d.crtc.Disable()
	d.enc.Disable()

	if d.ddc != nil {
		d.ddc.Close()
	}
	if d.bridge != nil {
		d.bridge.Put()
	}
	d.dma.Release()

	d.metrics.Stop()
	d.registered = false
	d.currentMode = nil
	d.log.Info("display pipeline released")
}

func fillLimits(l Limits) Limits {
	def := DefaultLimits()
	if l.MaxClockKHz == 0 {
		l.MaxClockKHz = def.MaxClockKHz
	}
	if l.MaxH == 0 {
		l.MaxH = def.MaxH
	}
	if l.MaxV == 0 {
		l.MaxV = def.MaxV
	}
	if l.PrefH == 0 {
		l.PrefH = def.PrefH
	}
	if l.PrefV == 0 {
		l.PrefV = def.PrefV
	}
	return l
}

func orInjected(err error, injected bool) error {
	if err != nil {
		return err
	}
	if injected {
		return NewError("PROBE", ErrCodeResourceUnavailable, "injected construction failure")
	}
	return nil
}

func formatSize(h, v uint16) string {
	return fmt.Sprintf("%dx%d", h, v)
}
