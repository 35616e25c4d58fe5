//go:build !linux

package ddc

import "errors"

// ErrUnsupported is returned on platforms without I2C character
// devices.
var ErrUnsupported = errors.New("ddc: i2c discovery requires linux")

// Channel is unavailable off linux.
type Channel struct{}

// Open fails on non-linux platforms.
func Open(path string) (*Channel, error) {
	return nil, ErrUnsupported
}

func (c *Channel) ReadBlock(index int) ([]byte, error) { return nil, ErrUnsupported }
func (c *Channel) Probe() error                        { return ErrUnsupported }
func (c *Channel) Close() error                        { return nil }
