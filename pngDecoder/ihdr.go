package pngDecoder

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/bits"
)

// Size of the IHDR payload.
const headerLength = 13

// Bytes per pixel of the one supported profile: 8-bit RGBA.
const bytesPerPixel = 4

type ColorType byte

const (
	Grayscale      ColorType = 0
	RGB            ColorType = 2
	Palette        ColorType = 3
	GrayscaleAlpha ColorType = 4
	RGBA           ColorType = 6
)

func (c ColorType) String() string {
	switch c {
	case Grayscale:
		return "grayscale"
	case RGB:
		return "rgb"
	case Palette:
		return "palette"
	case GrayscaleAlpha:
		return "grayscale+alpha"
	case RGBA:
		return "rgba"
	}
	return fmt.Sprintf("ColorType(%d)", byte(c))
}

type InterlaceMethod byte

const (
	NoInterlace    InterlaceMethod = 0
	Adam7Interlace InterlaceMethod = 1
)

func (i InterlaceMethod) String() string {
	switch i {
	case NoInterlace:
		return "none"
	case Adam7Interlace:
		return "adam7"
	}
	return fmt.Sprintf("InterlaceMethod(%d)", byte(i))
}

// ImageHeader is the validated content of an IHDR chunk. ParseHeader only
// returns headers describing 8-bit, non-interlaced RGBA.
type ImageHeader struct {
	Width             uint32
	Height            uint32
	BitDepth          byte
	ColorType         ColorType
	CompressionMethod byte
	FilterMethod      byte
	InterlaceMethod   InterlaceMethod
}

// Stride is the number of pixel bytes in one row.
func (h *ImageHeader) Stride() uint64 {
	return uint64(h.Width) * bytesPerPixel
}

// PixelBytes is the size of the reconstructed pixel buffer.
func (h *ImageHeader) PixelBytes() uint64 {
	return h.Stride() * uint64(h.Height)
}

// FilteredBytes is the size of the decompressed image data: every row is
// prefixed with its filter-type byte.
func (h *ImageHeader) FilteredBytes() uint64 {
	return (1 + h.Stride()) * uint64(h.Height)
}

// imageSizes returns the filtered and reconstructed sizes of a width x
// height RGBA image. ok is false if either does not fit in a uint64.
func imageSizes(width, height uint32) (filtered, pixels uint64, ok bool) {
	stride := uint64(width) * bytesPerPixel
	hi, filtered := bits.Mul64(1+stride, uint64(height))
	if hi != 0 {
		return 0, 0, false
	}
	return filtered, stride * uint64(height), true
}

func (h *ImageHeader) String() string {
	return fmt.Sprintf("%dx%d depth=%d color=%v compression=%d filter=%d interlace=%v",
		h.Width, h.Height, h.BitDepth, h.ColorType, h.CompressionMethod, h.FilterMethod, h.InterlaceMethod)
}

// ParseHeader decodes and validates an IHDR chunk.
func ParseHeader(chunk *Chunk) (*ImageHeader, error) {
	if chunk.typ != typeIHDR {
		return nil, fail(KindUnsupportedHeader, nil, "first chunk is %q, not %s", chunk.typ, typeIHDR)
	}
	if len(chunk.data) < headerLength {
		return nil, fail(KindUnsupportedHeader, nil, "header is %d bytes, need %d", len(chunk.data), headerLength)
	}

	var ihdr ImageHeader
	err := binary.Read(bytes.NewReader(chunk.data[:headerLength]), binary.BigEndian, &ihdr)
	if err != nil {
		return nil, fail(KindUnsupportedHeader, err, "decoding header")
	}

	if ihdr.CompressionMethod != 0 {
		return nil, fail(KindUnsupportedHeader, nil, "invalid compression method %d", ihdr.CompressionMethod)
	}
	if ihdr.FilterMethod != 0 {
		return nil, fail(KindUnsupportedHeader, nil, "invalid filter method %d", ihdr.FilterMethod)
	}
	if ihdr.ColorType != RGBA {
		return nil, fail(KindUnsupportedHeader, nil, "only rgba is supported, got %v", ihdr.ColorType)
	}
	if ihdr.BitDepth != 8 {
		return nil, fail(KindUnsupportedHeader, nil, "only bit depth 8 is supported, got %d", ihdr.BitDepth)
	}
	if ihdr.InterlaceMethod != NoInterlace {
		return nil, fail(KindUnsupportedHeader, nil, "%v interlace is not supported", ihdr.InterlaceMethod)
	}
	if ihdr.Width == 0 || ihdr.Height == 0 {
		return nil, fail(KindUnsupportedHeader, nil, "invalid image size %dx%d", ihdr.Width, ihdr.Height)
	}
	if _, _, ok := imageSizes(ihdr.Width, ihdr.Height); !ok {
		return nil, fail(KindUnsupportedHeader, nil, "image size %dx%d overflows", ihdr.Width, ihdr.Height)
	}
	return &ihdr, nil
}
