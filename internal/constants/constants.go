package constants

import "time"

// Default mode limits, used when the configuration source does not
// override them. These match the encoder IP's advertised ceilings.
const (
	// DefaultMaxPixelClockKHz is the default pixel clock ceiling in kHz
	DefaultMaxPixelClockKHz = 150000

	// DefaultMaxHorizontal is the default horizontal active size ceiling
	DefaultMaxHorizontal = 1920

	// DefaultMaxVertical is the default vertical active size ceiling
	DefaultMaxVertical = 1080

	// DefaultPreferredHorizontal is the fallback preferred mode width
	DefaultPreferredHorizontal = 1280

	// DefaultPreferredVertical is the fallback preferred mode height
	DefaultPreferredVertical = 720
)

// Timing constants for the pipeline lifecycle
const (
	// SettleDelayFloor is the minimum timing-generator settle delay.
	// One refresh period rounded to whole milliseconds can truncate
	// to zero at very high refresh rates; the floor keeps the wait real.
	SettleDelayFloor = 1 * time.Millisecond
)

// Scanout format constants
const (
	// BytesPerPixel is the size of the single supported packed
	// 32-bit pixel format (XRGB8888)
	BytesPerPixel = 4
)

// DDC constants for sink capability discovery
const (
	// DDCAddr is the I2C address of the sink's EDID EEPROM
	DDCAddr = 0x50

	// EDIDBlockSize is the size of one EDID block in bytes
	EDIDBlockSize = 128
)
