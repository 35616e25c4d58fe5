package encoder

import (
	"errors"
	"testing"

	"github.com/behrlich/go-hdmi/internal/mode"
)

type mockClock struct {
	prepareErr error
	startErr   error
	rateErr    error

	prepared bool
	started  bool
	rate     int64

	prepareCalls int
	startCalls   int
	stopCalls    int
	unprepares   int
}

func (c *mockClock) Prepare() error {
	c.prepareCalls++
	if c.prepareErr != nil {
		return c.prepareErr
	}
	c.prepared = true
	return nil
}

func (c *mockClock) Start() error {
	c.startCalls++
	if c.startErr != nil {
		return c.startErr
	}
	c.started = true
	return nil
}

func (c *mockClock) Stop() {
	c.stopCalls++
	c.started = false
}

func (c *mockClock) Unprepare() {
	c.unprepares++
	c.prepared = false
}

func (c *mockClock) SetRate(hz int64) error {
	if c.rateErr != nil {
		return c.rateErr
	}
	c.rate = hz
	return nil
}

func (c *mockClock) Rate() int64 {
	return c.rate
}

func TestEnableIdempotent(t *testing.T) {
	clk := &mockClock{}
	e, err := NewEncoder(clk)
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}

	if err := e.Enable(); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	if err := e.Enable(); err != nil {
		t.Fatalf("second Enable failed: %v", err)
	}

	if clk.prepareCalls != 1 || clk.startCalls != 1 {
		t.Errorf("prepare/start calls = %d/%d, want exactly 1/1",
			clk.prepareCalls, clk.startCalls)
	}
	if !e.Enabled() {
		t.Error("encoder should report enabled")
	}
}

func TestDisableBeforeEnableIsNoop(t *testing.T) {
	clk := &mockClock{}
	e, _ := NewEncoder(clk)

	e.Disable()

	if clk.stopCalls != 0 || clk.unprepares != 0 {
		t.Errorf("stop/unprepare = %d/%d, want 0/0", clk.stopCalls, clk.unprepares)
	}
	if e.Enabled() {
		t.Error("encoder should stay disabled")
	}
}

func TestDisableIdempotent(t *testing.T) {
	clk := &mockClock{}
	e, _ := NewEncoder(clk)

	if err := e.Enable(); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	e.Disable()
	e.Disable()

	if clk.stopCalls != 1 || clk.unprepares != 1 {
		t.Errorf("stop/unprepare = %d/%d, want exactly 1/1", clk.stopCalls, clk.unprepares)
	}
}

func TestEnableStartFailureUnwinds(t *testing.T) {
	boom := errors.New("pll did not lock")
	clk := &mockClock{startErr: boom}
	e, _ := NewEncoder(clk)

	err := e.Enable()
	if !errors.Is(err, boom) {
		t.Fatalf("expected start failure, got %v", err)
	}
	if clk.unprepares != 1 {
		t.Error("a failed start must unprepare the clock")
	}
	if e.Enabled() {
		t.Error("encoder must stay disabled after a failed enable")
	}

	// A later enable attempt starts from scratch.
	clk.startErr = nil
	if err := e.Enable(); err != nil {
		t.Fatalf("retry Enable failed: %v", err)
	}
	if clk.prepareCalls != 2 {
		t.Errorf("prepareCalls = %d, want 2", clk.prepareCalls)
	}
}

func TestSetModeRatesClock(t *testing.T) {
	clk := &mockClock{}
	e, _ := NewEncoder(clk)

	m := &mode.DisplayMode{Clock: 74250}
	if err := e.SetMode(m); err != nil {
		t.Fatalf("SetMode failed: %v", err)
	}
	if clk.rate != 74250000 {
		t.Errorf("clock rate = %d Hz, want 74250000", clk.rate)
	}
}

func TestSetModeWhileEnabled(t *testing.T) {
	clk := &mockClock{}
	e, _ := NewEncoder(clk)

	if err := e.Enable(); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	if err := e.SetMode(&mode.DisplayMode{Clock: 148500}); err != nil {
		t.Fatalf("rate change while enabled must be permitted: %v", err)
	}
	if clk.rate != 148500000 {
		t.Errorf("clock rate = %d Hz, want 148500000", clk.rate)
	}
}

func TestNewEncoderRequiresClock(t *testing.T) {
	if _, err := NewEncoder(nil); err == nil {
		t.Error("expected error for nil clock")
	}
}
