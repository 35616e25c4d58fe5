package hdmi

import "github.com/behrlich/go-hdmi/internal/constants"

// Re-export constants for public API
const (
	DefaultMaxPixelClockKHz    = constants.DefaultMaxPixelClockKHz
	DefaultMaxHorizontal       = constants.DefaultMaxHorizontal
	DefaultMaxVertical         = constants.DefaultMaxVertical
	DefaultPreferredHorizontal = constants.DefaultPreferredHorizontal
	DefaultPreferredVertical   = constants.DefaultPreferredVertical
	BytesPerPixel              = constants.BytesPerPixel
	EDIDBlockSize              = constants.EDIDBlockSize
)
