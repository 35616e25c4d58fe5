// Package scanout owns the primary plane and the interleaved-DMA
// descriptor math that feeds it.
package scanout

import (
	"errors"
	"fmt"
)

// TransferDir is the DMA transfer direction.
type TransferDir int

const (
	// MemToDev streams from memory to the display IP.
	MemToDev TransferDir = iota
)

var (
	// ErrInvalidGeometry is returned when a scanout region cannot be
	// expressed as an interleaved transfer over the given buffer.
	ErrInvalidGeometry = errors.New("scanout: invalid geometry")

	// ErrBadFormat is returned for a framebuffer whose pixel size is
	// not the single supported packed 32-bit format.
	ErrBadFormat = errors.New("scanout: unsupported pixel format")
)

// Descriptor describes one interleaved memory-to-device transfer.
//
// Each interleaved frame is one visible row, carried in a single
// chunk. NumFrames is the visible height. The inter-chunk gap packs
// rows whose hardware size is narrower than the buffer stride. The
// display IP exposes no addressable memory window, so the destination
// side neither increments nor scatters.
type Descriptor struct {
	Dir      TransferDir
	SrcStart uint64

	// FrameSize is the chunk count per frame. Always 1 here.
	FrameSize int

	// NumFrames is the number of interleaved frames (visible rows).
	NumFrames uint32

	// ChunkSize is the hardware row size in bytes.
	ChunkSize uint32

	// ICG is the inter-chunk gap: stride minus hardware row size.
	ICG uint32

	SrcInc bool
	SrcSGL bool
	DstInc bool
	DstSGL bool
}

// Region is the requested scanout rectangle within a framebuffer.
type Region struct {
	X, Y          int
	Width, Height uint32
}

// Build computes the transfer descriptor for scanning out region r of
// a buffer at base with the given stride and pixel size. It is a pure
/// function: identical inputs always produce the identical descriptor.
func Build(base uint64, stride, bytesPerPixel uint32, r Region) (Descriptor, error) {
	if bytesPerPixel == 0 {
		return Descriptor{}, fmt.Errorf("%w: zero pixel size", ErrInvalidGeometry)
	}
	if r.Width == 0 || r.Height == 0 {
		return Descriptor{}, fmt.Errorf("%w: empty region %dx%d", ErrInvalidGeometry, r.Width, r.Height)
	}
	if r.X < 0 || r.Y < 0 {
		return Descriptor{}, fmt.Errorf("%w: negative crop offset (%d,%d)", ErrInvalidGeometry, r.X, r.Y)
	}

	hwRowSize := uint64(r.Width) * uint64(bytesPerPixel)
	if hwRowSize > uint64(stride) {
		return Descriptor{}, fmt.Errorf("%w: row of %d bytes exceeds stride %d",
			ErrInvalidGeometry, hwRowSize, stride)
	}
	if uint64(r.X)*uint64(bytesPerPixel)+hwRowSize > uint64(stride) {
		return Descriptor{}, fmt.Errorf("%w: crop x=%d pushes row past stride %d",
			ErrInvalidGeometry, r.X, stride)
	}

	offset := uint64(r.Y)*uint64(stride) + uint64(r.X)*uint64(bytesPerPixel)

	return Descriptor{
		Dir:      MemToDev,
		SrcStart: base + offset,

		FrameSize: 1,
		NumFrames: r.Height,

		ChunkSize: uint32(hwRowSize),
		ICG:       stride - uint32(hwRowSize),

		SrcInc: true,
		SrcSGL: true,
		DstInc: false,
		DstSGL: false,
	}, nil
}
