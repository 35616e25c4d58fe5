package hdmi

import (
	"errors"
	"sync"
)

// Mock hardware collaborators for testing and simulation. They
// implement the collaborator interfaces, track call counts for
// verification, and can be armed with failures.

// MockClock is an in-memory pixel clock.
type MockClock struct {
	mu sync.Mutex

	PrepareErr error
	StartErr   error
	SetRateErr error

	prepared bool
	started  bool
	rate     int64

	prepareCalls int
	startCalls   int
	stopCalls    int
	setRateCalls int
}

func (c *MockClock) Prepare() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prepareCalls++
	if c.PrepareErr != nil {
		return c.PrepareErr
	}
	c.prepared = true
	return nil
}

func (c *MockClock) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startCalls++
	if c.StartErr != nil {
		return c.StartErr
	}
	if !c.prepared {
		return errors.New("mock clock: start before prepare")
	}
	c.started = true
	return nil
}

func (c *MockClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopCalls++
	c.started = false
}

func (c *MockClock) Unprepare() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prepared = false
}

func (c *MockClock) SetRate(hz int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setRateCalls++
	if c.SetRateErr != nil {
		return c.SetRateErr
	}
	c.rate = hz
	return nil
}

func (c *MockClock) Rate() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}

// Running reports whether the clock is prepared and started.
func (c *MockClock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prepared && c.started
}

// PrepareCalls returns how many times Prepare ran.
func (c *MockClock) PrepareCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prepareCalls
}

// StartCalls returns how many times Start ran.
func (c *MockClock) StartCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startCalls
}

// StopCalls returns how many times Stop ran.
func (c *MockClock) StopCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopCalls
}

// MockDMAChannel records submissions to the scanout engine.
type MockDMAChannel struct {
	mu sync.Mutex

	SubmitErr    error
	TerminateErr error

	submitted  []interface{}
	terminates int
	issues     int
	released   bool
}

func (d *MockDMAChannel) Submit(desc interface{}) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.SubmitErr != nil {
		return d.SubmitErr
	}
	d.submitted = append(d.submitted, desc)
	return nil
}

func (d *MockDMAChannel) Issue() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.issues++
}

func (d *MockDMAChannel) Terminate() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.terminates++
	return d.TerminateErr
}

func (d *MockDMAChannel) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.released = true
}

// Submissions returns the descriptors submitted so far.
func (d *MockDMAChannel) Submissions() []interface{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]interface{}(nil), d.submitted...)
}

// Terminates returns how many times Terminate ran.
func (d *MockDMAChannel) Terminates() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.terminates
}

// Issues returns how many times Issue ran.
func (d *MockDMAChannel) Issues() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.issues
}

// Released reports whether the channel was given back.
func (d *MockDMAChannel) Released() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.released
}

// MockBridge is an in-memory timing bridge.
type MockBridge struct {
	mu sync.Mutex

	SetTimingErr error
	EnableErr    error

	timing   VideoTiming
	enabled  bool
	put      bool
	setCalls int
}

func (b *MockBridge) SetTiming(vt VideoTiming) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setCalls++
	if b.SetTimingErr != nil {
		return b.SetTimingErr
	}
	b.timing = vt
	return nil
}

func (b *MockBridge) Enable() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.EnableErr != nil {
		return b.EnableErr
	}
	b.enabled = true
	return nil
}

func (b *MockBridge) Disable() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = false
}

func (b *MockBridge) Put() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.put = true
}

// Enabled reports whether timing generation is on.
func (b *MockBridge) Enabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enabled
}

// Timing returns the last programmed timing parameters.
func (b *MockBridge) Timing() VideoTiming {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.timing
}

// PutCalled reports whether the handle was released.
func (b *MockBridge) PutCalled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.put
}

// MockDiscoveryChannel serves canned capability data.
type MockDiscoveryChannel struct {
	mu sync.Mutex

	Block    []byte
	ReadErr  error
	ProbeErr error

	reads  int
	probes int
	closed bool
}

func (c *MockDiscoveryChannel) ReadBlock(index int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads++
	if c.ReadErr != nil {
		return nil, c.ReadErr
	}
	return append([]byte(nil), c.Block...), nil
}

func (c *MockDiscoveryChannel) Probe() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probes++
	return c.ProbeErr
}

func (c *MockDiscoveryChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Closed reports whether the channel was released.
func (c *MockDiscoveryChannel) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// MockFramebuffer is a fixed buffer layout description.
type MockFramebuffer struct {
	Addr uint64
	Row  uint32
	CPP  uint32
}

func (f *MockFramebuffer) PhysAddr() uint64      { return f.Addr }
func (f *MockFramebuffer) Stride() uint32        { return f.Row }
func (f *MockFramebuffer) BytesPerPixel() uint32 { return f.CPP }

// funcEvent adapts a func to the VblankEvent interface.
type funcEvent struct {
	fn func()
}

func (e *funcEvent) Signal() {
	e.fn()
}

// EventFunc wraps fn as a vblank completion token.
func EventFunc(fn func()) VblankEvent {
	return &funcEvent{fn: fn}
}
