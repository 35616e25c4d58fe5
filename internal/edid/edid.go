// Package edid parses sink capability blocks read over the discovery
// channel into display modes and monitor metadata. Only the base
// block is consumed: detailed timing descriptors become modes, display
// descriptors contribute the monitor name.
package edid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/behrlich/go-hdmi/internal/mode"
)

// BlockSize is the size of one EDID block.
const BlockSize = 128

var header = [8]byte{0x00, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00}

var (
	// ErrInvalidBlock is returned for a block failing structural
	// validation (length, header magic, checksum).
	ErrInvalidBlock = errors.New("edid: invalid block")
)

// EDID is the parsed capability data of one sink.
type EDID struct {
	// Modes are the sink's detailed timings, first descriptor first.
	// The first detailed timing carries the preferred bit.
	Modes []mode.DisplayMode

	// MonitorName is the sink's declared name, empty when the block
	// carries no name descriptor.
	MonitorName string

	// WidthCm and HeightCm are the declared physical image size.
	WidthCm  int
	HeightCm int
}

// Parse validates and decodes one base EDID block.
func Parse(block []byte) (*EDID, error) {
	if len(block) < BlockSize {
		return nil, fmt.Errorf("%w: short read of %d bytes", ErrInvalidBlock, len(block))
	}
	block = block[:BlockSize]

	for i, b := range header {
		if block[i] != b {
			return nil, fmt.Errorf("%w: bad header magic", ErrInvalidBlock)
		}
	}

	var sum byte
	for _, b := range block {
		sum += b
	}
	if sum != 0 {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrInvalidBlock)
	}

	e := &EDID{
		WidthCm:  int(block[21]),
		HeightCm: int(block[22]),
	}

	for i := 0; i < 4; i++ {
		d := block[54+18*i : 54+18*(i+1)]

		if clock := uint32(d[0]) | uint32(d[1])<<8; clock != 0 {
			m := parseDetailedTiming(d, clock)
			if len(e.Modes) == 0 {
				m.Type |= mode.TypePreferred
			}
			e.Modes = append(e.Modes, m)
			continue
		}

		// Display descriptor: tag byte selects the payload.
		if d[3] == 0xfc {
			e.MonitorName = decodeDescriptorText(d[5:18])
		}
	}

	return e, nil
}

// parseDetailedTiming decodes one 18-byte detailed timing descriptor.
// clock is the raw 10 kHz pixel clock field.
func parseDetailedTiming(d []byte, clock uint32) mode.DisplayMode {
	hactive := uint16(d[2]) | uint16(d[4]>>4)<<8
	hblank := uint16(d[3]) | uint16(d[4]&0x0f)<<8
	vactive := uint16(d[5]) | uint16(d[7]>>4)<<8
	vblank := uint16(d[6]) | uint16(d[7]&0x0f)<<8

	hsyncOff := uint16(d[8]) | uint16(d[11]>>6)<<8
	hsyncWidth := uint16(d[9]) | uint16(d[11]>>4&0x03)<<8
	vsyncOff := uint16(d[10]>>4) | uint16(d[11]>>2&0x03)<<4
	vsyncWidth := uint16(d[10]&0x0f) | uint16(d[11]&0x03)<<4

	m := mode.DisplayMode{
		Name:  fmt.Sprintf("%dx%d", hactive, vactive),
		Clock: clock * 10,

		HDisplay:   hactive,
		HSyncStart: hactive + hsyncOff,
		HSyncEnd:   hactive + hsyncOff + hsyncWidth,
		HTotal:     hactive + hblank,

		VDisplay:   vactive,
		VSyncStart: vactive + vsyncOff,
		VSyncEnd:   vactive + vsyncOff + vsyncWidth,
		VTotal:     vactive + vblank,

		Type: mode.TypeDriver,
	}

	flags := d[17]
	if flags&0x80 != 0 {
		m.Flags |= mode.FlagInterlace
	}

	// Sync polarity bits are only meaningful for digital separate
	// sync (bits 4:3 == 11).
	if flags&0x18 == 0x18 {
		if flags&0x02 != 0 {
			m.Flags |= mode.FlagPHSync
		} else {
			m.Flags |= mode.FlagNHSync
		}
		if flags&0x04 != 0 {
			m.Flags |= mode.FlagPVSync
		} else {
			m.Flags |= mode.FlagNVSync
		}
	}

	return m
}

// decodeDescriptorText decodes the 13-byte text payload of a display
// descriptor: terminated by newline, padded with spaces.
func decodeDescriptorText(d []byte) string {
	if i := strings.IndexByte(string(d), '\n'); i >= 0 {
		d = d[:i]
	}
	return strings.TrimRight(string(d), " ")
}
