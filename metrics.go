package hdmi

import (
	"sync/atomic"
	"time"
)

// Metrics tracks operational statistics for one display pipeline
type Metrics struct {
	// Frame path counters
	FrameUpdates atomic.Uint64 // Successful atomic plane updates
	FrameErrors  atomic.Uint64 // Abandoned frame updates

	// Mode path counters
	ModeSets        atomic.Uint64 // Accepted mode sets
	ClockEnables    atomic.Uint64 // Encoder enable transitions
	ClockDisables   atomic.Uint64 // Encoder disable transitions
	ModesDiscovered atomic.Uint64 // Mode count from the last discovery

	// Connector counters
	DetectPolls     atomic.Uint64 // Presence probes issued
	DiscoveryErrors atomic.Uint64 // Failed capability reads

	// Vblank path
	VblankEvents atomic.Uint64 // Events signaled

	// Lifecycle
	StartTime atomic.Int64 // Probe timestamp (UnixNano)
	StopTime  atomic.Int64 // Shutdown timestamp (UnixNano)
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.StartTime.Store(time.Now().UnixNano())
	return m
}

// Stop records pipeline shutdown time
func (m *Metrics) Stop() {
	m.StopTime.Store(time.Now().UnixNano())
}

// Uptime returns how long the pipeline has been live
func (m *Metrics) Uptime() time.Duration {
	start := m.StartTime.Load()
	if start == 0 {
		return 0
	}

	end := m.StopTime.Load()
	if end == 0 {
		end = time.Now().UnixNano()
	}

	return time.Duration(end - start)
}

// MetricsSnapshot is a point-in-time copy of the counters
type MetricsSnapshot struct {
	FrameUpdates uint64 `json:"frame_updates"`
	FrameErrors  uint64 `json:"frame_errors"`

	ModeSets        uint64 `json:"mode_sets"`
	ClockEnables    uint64 `json:"clock_enables"`
	ClockDisables   uint64 `json:"clock_disables"`
	ModesDiscovered uint64 `json:"modes_discovered"`

	DetectPolls     uint64 `json:"detect_polls"`
	DiscoveryErrors uint64 `json:"discovery_errors"`

	VblankEvents uint64 `json:"vblank_events"`

	Uptime time.Duration `json:"uptime"`
}

// Snapshot returns a consistent copy of the current counters
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		FrameUpdates: m.FrameUpdates.Load(),
		FrameErrors:  m.FrameErrors.Load(),

		ModeSets:        m.ModeSets.Load(),
		ClockEnables:    m.ClockEnables.Load(),
		ClockDisables:   m.ClockDisables.Load(),
		ModesDiscovered: m.ModesDiscovered.Load(),

		DetectPolls:     m.DetectPolls.Load(),
		DiscoveryErrors: m.DiscoveryErrors.Load(),

		VblankEvents: m.VblankEvents.Load(),

		Uptime: m.Uptime(),
	}
}
