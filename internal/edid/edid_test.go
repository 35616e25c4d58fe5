package edid

import (
	"errors"
	"testing"

	"github.com/behrlich/go-hdmi/internal/mode"
)

// dtd1080p is a detailed timing descriptor for 1920x1080@60 with
// digital separate sync, both polarities positive.
var dtd1080p = [18]byte{
	0x02, 0x3a, // 14850 * 10 kHz
	0x80, 0x18, 0x71, // hactive 1920, hblank 280
	0x38, 0x2d, 0x40, // vactive 1080, vblank 45
	0x58,       // hsync offset 88
	0x2c,       // hsync width 44
	0x45,       // vsync offset 4, width 5
	0x00,       // high bits
	0x00, 0x00, 0x00, 0x00, 0x00, // image size/border
	0x1e, // digital separate, +hsync +vsync
}

// testBlock builds a valid base EDID block with one detailed timing
// and a monitor name descriptor.
func testBlock(t *testing.T) []byte {
	t.Helper()

	block := make([]byte, BlockSize)
	copy(block, header[:])

	block[21] = 53 // width cm
	block[22] = 30 // height cm

	copy(block[54:], dtd1080p[:])

	// Monitor name descriptor in the second slot.
	d := block[72:90]
	d[3] = 0xfc
	copy(d[5:], "TestPanel\n   ")

	var sum byte
	for _, b := range block[:127] {
		sum += b
	}
	block[127] = -sum

	return block
}

func TestParse(t *testing.T) {
	e, err := Parse(testBlock(t))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(e.Modes) != 1 {
		t.Fatalf("got %d modes, want 1", len(e.Modes))
	}

	m := e.Modes[0]
	if m.Clock != 148500 {
		t.Errorf("Clock = %d kHz, want 148500", m.Clock)
	}
	if m.HDisplay != 1920 || m.HSyncStart != 2008 || m.HSyncEnd != 2052 || m.HTotal != 2200 {
		t.Errorf("horizontal timing = %d/%d/%d/%d, want 1920/2008/2052/2200",
			m.HDisplay, m.HSyncStart, m.HSyncEnd, m.HTotal)
	}
	if m.VDisplay != 1080 || m.VSyncStart != 1084 || m.VSyncEnd != 1089 || m.VTotal != 1125 {
		t.Errorf("vertical timing = %d/%d/%d/%d, want 1080/1084/1089/1125",
			m.VDisplay, m.VSyncStart, m.VSyncEnd, m.VTotal)
	}
	if !m.Preferred() {
		t.Error("first detailed timing must carry the preferred bit")
	}
	if m.Flags&mode.FlagPHSync == 0 || m.Flags&mode.FlagPVSync == 0 {
		t.Errorf("Flags = %#x, want positive sync on both axes", m.Flags)
	}
	if m.Flags&mode.FlagInterlace != 0 {
		t.Error("progressive timing parsed as interlaced")
	}

	if e.MonitorName != "TestPanel" {
		t.Errorf("MonitorName = %q, want TestPanel", e.MonitorName)
	}
	if e.WidthCm != 53 || e.HeightCm != 30 {
		t.Errorf("physical size = %dx%d cm, want 53x30", e.WidthCm, e.HeightCm)
	}

	if r := m.VRefresh(); r != 60 {
		t.Errorf("VRefresh = %d, want 60", r)
	}
}

func TestParseInterlaceFlag(t *testing.T) {
	block := testBlock(t)
	block[54+17] |= 0x80
	block[127] -= 0x80

	e, err := Parse(block)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if e.Modes[0].Flags&mode.FlagInterlace == 0 {
		t.Error("interlace bit not propagated to mode flags")
	}
}

func TestParseRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func([]byte) []byte
	}{
		{
			name: "short block",
			mutate: func(b []byte) []byte {
				return b[:64]
			},
		},
		{
			name: "bad header magic",
			mutate: func(b []byte) []byte {
				b[0] = 0xaa
				return b
			},
		},
		{
			name: "checksum mismatch",
			mutate: func(b []byte) []byte {
				b[127] ^= 0xff
				return b
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := tt.mutate(testBlock(t))
			if _, err := Parse(block); !errors.Is(err, ErrInvalidBlock) {
				t.Errorf("expected ErrInvalidBlock, got %v", err)
			}
		})
	}
}

func TestParseNoTimings(t *testing.T) {
	block := make([]byte, BlockSize)
	copy(block, header[:])

	var sum byte
	for _, b := range block[:127] {
		sum += b
	}
	block[127] = -sum

	e, err := Parse(block)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(e.Modes) != 0 {
		t.Errorf("got %d modes from an empty block, want 0", len(e.Modes))
	}
}
