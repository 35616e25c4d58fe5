// Package mode defines display modes the way the KMS uapi lays them
// out: active size, sync start/end and total per axis, a pixel clock
// in kHz, and flag bits for scan variants and sync polarity.
package mode

import (
	"fmt"

	"github.com/behrlich/go-hdmi/internal/interfaces"
)

// Mode flag bits, matching the KMS uapi encoding.
const (
	FlagPHSync     uint32 = 1 << 0
	FlagNHSync     uint32 = 1 << 1
	FlagPVSync     uint32 = 1 << 2
	FlagNVSync     uint32 = 1 << 3
	FlagInterlace  uint32 = 1 << 4
	FlagDoubleScan uint32 = 1 << 5
	FlagDoubleClk  uint32 = 1 << 12
	Flag3DMask     uint32 = 0x1f << 14
)

// Mode type bits.
const (
	TypePreferred uint32 = 1 << 3
	TypeDriver    uint32 = 1 << 6
)

// DisplayMode is one video mode a sink can consume.
type DisplayMode struct {
	// Clock is the pixel clock in kHz.
	Clock uint32

	HDisplay   uint16
	HSyncStart uint16
	HSyncEnd   uint16
	HTotal     uint16

	VDisplay   uint16
	VSyncStart uint16
	VSyncEnd   uint16
	VTotal     uint16

	Flags uint32
	Type  uint32

	Name string
}

// Preferred reports whether the mode carries the preferred type bit.
func (m *DisplayMode) Preferred() bool {
	return m.Type&TypePreferred != 0
}

// VRefresh returns the refresh rate in Hz, truncated.
func (m *DisplayMode) VRefresh() int {
	total := int(m.HTotal) * int(m.VTotal)
	if total == 0 {
		return 0
	}
	return int(m.Clock) * 1000 / total
}

// String returns the conventional "<w>x<h>" name plus the clock.
func (m *DisplayMode) String() string {
	name := m.Name
	if name == "" {
		name = fmt.Sprintf("%dx%d", m.HDisplay, m.VDisplay)
	}
	return fmt.Sprintf("%s@%dkHz", name, m.Clock)
}

// ToTiming translates the mode into bridge-native timing parameters.
// Porches derive from the sync start/end points the same way the
// kernel's videomode conversion does.
func (m *DisplayMode) ToTiming() interfaces.VideoTiming {
	return interfaces.VideoTiming{
		PixelClockHz: int64(m.Clock) * 1000,

		HActive:     uint32(m.HDisplay),
		HFrontPorch: uint32(m.HSyncStart - m.HDisplay),
		HSyncLen:    uint32(m.HSyncEnd - m.HSyncStart),
		HBackPorch:  uint32(m.HTotal - m.HSyncEnd),

		VActive:     uint32(m.VDisplay),
		VFrontPorch: uint32(m.VSyncStart - m.VDisplay),
		VSyncLen:    uint32(m.VSyncEnd - m.VSyncStart),
		VBackPorch:  uint32(m.VTotal - m.VSyncEnd),

		HSyncPositive: m.Flags&FlagPHSync != 0,
		VSyncPositive: m.Flags&FlagPVSync != 0,
	}
}
