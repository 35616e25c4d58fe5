//go:build linux

// Package ddc implements the sink capability discovery channel over a
// Linux I2C character device. The sink's EDID EEPROM answers at the
// fixed DDC address.
package ddc

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/behrlich/go-hdmi/internal/constants"
	"github.com/behrlich/go-hdmi/internal/interfaces"
)

// i2cSlave is the I2C_SLAVE ioctl selecting the peer address.
const i2cSlave = 0x0703

// Channel is a DiscoveryChannel over /dev/i2c-N.
type Channel struct {
	f *os.File
}

var _ interfaces.DiscoveryChannel = (*Channel)(nil)

// Open opens the I2C adapter device at path, e.g. "/dev/i2c-1".
func Open(path string) (*Channel, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("ddc: open %s: %w", path, err)
	}
	return &Channel{f: f}, nil
}

func (c *Channel) setSlave(addr uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, c.f.Fd(), i2cSlave, addr)
	if errno != 0 {
		return fmt.Errorf("ddc: select address %#x: %w", addr, errno)
	}
	return nil
}

// ReadBlock reads one 128-byte EDID block. The EEPROM is addressed by
// writing the byte offset, then reading the block.
func (c *Channel) ReadBlock(index int) ([]byte, error) {
	if err := c.setSlave(constants.DDCAddr); err != nil {
		return nil, err
	}

	offset := byte(index * constants.EDIDBlockSize)
	if _, err := c.f.Write([]byte{offset}); err != nil {
		return nil, fmt.Errorf("ddc: set block offset: %w", err)
	}

	block := make([]byte, constants.EDIDBlockSize)
	n, err := c.f.Read(block)
	if err != nil {
		return nil, fmt.Errorf("ddc: read block %d: %w", index, err)
	}
	if n != constants.EDIDBlockSize {
		return nil, fmt.Errorf("ddc: short block read of %d bytes", n)
	}

	return block, nil
}

// Probe checks sink presence with a one-byte read at the DDC address.
func (c *Channel) Probe() error {
	if err := c.setSlave(constants.DDCAddr); err != nil {
		return err
	}

	var b [1]byte
	if _, err := c.f.Read(b[:]); err != nil {
		return fmt.Errorf("ddc: presence probe: %w", err)
	}
	return nil
}

// Close releases the adapter.
func (c *Channel) Close() error {
	return c.f.Close()
}
