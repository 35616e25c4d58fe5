// Package interfaces defines the hardware collaborator interfaces the
// display pipeline drives. The core never touches registers directly;
// every hardware block (pixel clock, DMA engine, timing bridge, DDC
// channel) is supplied by the integrator behind one of these
// interfaces, which keeps the pipeline testable off-target.
package interfaces

// Clock is the pixel clock feeding the encoder.
//
// Prepare/Start and Stop/Unprepare pairing follows the common clock
// framework split: Prepare may sleep, Start must not. Implementations
// that have no such distinction can treat them as one step.
type Clock interface {
	// Prepare gets the clock ready to be started. May sleep.
	Prepare() error

	// Start ungates the clock. Must not be called before Prepare.
	Start() error

	// Stop gates the clock.
	Stop()

	// Unprepare undoes Prepare.
	Unprepare()

	// SetRate sets the clock rate in Hz. Permitted while running.
	SetRate(hz int64) error

	// Rate returns the current clock rate in Hz.
	Rate() int64
}

// DMAChannel is the scanout DMA engine. Submission is fire-and-forget:
// the core never waits for transfer completion.
type DMAChannel interface {
	// Submit queues an interleaved transfer described by desc.
	// desc is an opaque handle produced by the descriptor builder;
	// concrete channels type-assert it to their native template.
	Submit(desc interface{}) error

	// Issue starts execution of all queued transfers.
	Issue()

	// Terminate aborts any in-flight and queued transfers. It must
	// succeed when nothing is in flight.
	Terminate() error

	// Release gives the channel back to its provider.
	Release()
}

// VideoTiming is the bridge-native translation of a display mode:
// active size, porch widths and sync polarity per axis, plus the
// pixel clock in Hz.
type VideoTiming struct {
	PixelClockHz int64

	HActive     uint32
	HFrontPorch uint32
	HSyncLen    uint32
	HBackPorch  uint32

	VActive     uint32
	VFrontPorch uint32
	VSyncLen    uint32
	VBackPorch  uint32

	HSyncPositive bool
	VSyncPositive bool
}

// TimingBridge is the video timing controller generating sync and
// blanking signals. Presence is optional; a pipeline without a bridge
// skips the bridge steps but keeps the rest of its sequencing.
type TimingBridge interface {
	// SetTiming programs the bridge with the given timing parameters.
	SetTiming(vt VideoTiming) error

	// Enable starts timing generation. SetTiming must precede it.
	Enable() error

	// Disable stops timing generation. Safe when already disabled.
	Disable()

	// Put releases the bridge handle.
	Put()
}

// DiscoveryChannel is the byte-oriented sink capability channel
// (DDC). Reads address the fixed EDID EEPROM offset.
type DiscoveryChannel interface {
	// ReadBlock reads one 128-byte capability block at the given
	// block index. Failures are I/O errors, never parse errors.
	ReadBlock(index int) ([]byte, error)

	// Probe checks for sink presence without transferring capability
	// data. A nil error means a sink acknowledged the probe.
	Probe() error

	// Close releases the channel.
	Close() error
}

// Framebuffer describes an already-allocated scanout buffer. The core
// never allocates or frees buffer memory; it only reads the layout.
type Framebuffer interface {
	// PhysAddr returns the physical base address of the buffer.
	PhysAddr() uint64

	// Stride returns the row-to-row distance in bytes.
	Stride() uint32

	// BytesPerPixel returns the pixel size in bytes.
	BytesPerPixel() uint32
}
