package pngDecoder

import (
	"github.com/shoccho/pnGo/logging"
)

type FilterType byte

const (
	NONE FilterType = iota
	SUB
	UP
	AVG
	PAETH
)

func (f FilterType) String() string {
	switch f {
	case NONE:
		return "none"
	case SUB:
		return "sub"
	case UP:
		return "up"
	case AVG:
		return "average"
	case PAETH:
		return "paeth"
	}
	return "unknown"
}

// Reconstruct reverses per-row filtering of decompressed image data. data
// holds height rows of one filter-type byte followed by width*4 sample
// bytes. Unknown filter types are passed through unchanged.
func Reconstruct(data []byte, width, height uint32) (*Image, error) {
	if width == 0 || height == 0 {
		return nil, fail(KindReconstruction, nil, "invalid image size %dx%d", width, height)
	}
	required, pixels, ok := imageSizes(width, height)
	if !ok {
		return nil, fail(KindReconstruction, nil, "image size %dx%d overflows", width, height)
	}
	if uint64(len(data)) < required {
		return nil, fail(KindReconstruction, nil, "have %d bytes of image data, need %d", len(data), required)
	}

	stride := uint64(width) * bytesPerPixel
	img := &Image{
		Pix:      make([]byte, pixels),
		Width:    width,
		Height:   height,
		Channels: bytesPerPixel,
	}
	n := int(stride)
	var previous []byte
	for row := 0; row < int(height); row++ {
		start := row * (n + 1)
		filter := FilterType(data[start])
		scanline := data[start+1 : start+1+n]
		current := img.Pix[row*n : (row+1)*n]

		switch filter {
		case NONE:
			copy(current, scanline)
		case SUB:
			processSubFilter(current, scanline)
		case UP:
			processUpFilter(current, previous, scanline)
		case AVG:
			processAvgFilter(current, previous, scanline)
		case PAETH:
			processPaethFilter(current, previous, scanline)
		default:
			logging.Debug().Int("row", row).Uint8("filter", uint8(filter)).Msg("unknown filter type, passing row through")
			copy(current, scanline)
		}
		previous = current
	}
	return img, nil
}

// left returns the reconstructed byte bytesPerPixel positions before i, or 0.
func left(current []byte, i int) int {
	if i >= bytesPerPixel {
		return int(current[i-bytesPerPixel])
	}
	return 0
}

// above returns the byte of the previous row at i, or 0 on the first row.
func above(previous []byte, i int) int {
	if previous != nil {
		return int(previous[i])
	}
	return 0
}

func upperLeft(previous []byte, i int) int {
	if previous != nil && i >= bytesPerPixel {
		return int(previous[i-bytesPerPixel])
	}
	return 0
}

func processSubFilter(current, scanline []byte) {
	for i, x := range scanline {
		current[i] = x + byte(left(current, i))
	}
}

func processUpFilter(current, previous, scanline []byte) {
	for i, x := range scanline {
		current[i] = x + byte(above(previous, i))
	}
}

func processAvgFilter(current, previous, scanline []byte) {
	for i, x := range scanline {
		current[i] = x + byte((left(current, i)+above(previous, i))/2)
	}
}

func processPaethFilter(current, previous, scanline []byte) {
	for i, x := range scanline {
		current[i] = x + byte(paethPredictor(left(current, i), above(previous, i), upperLeft(previous, i)))
	}
}

// Filter applies the forward filter to one row of raw bytes. previous is
// the raw row above, or nil for the first row. It is the inverse of the
// reconstruction done by Reconstruct.
func Filter(filter FilterType, raw, previous []byte) []byte {
	out := make([]byte, len(raw))
	for i, x := range raw {
		var predicted int
		switch filter {
		case SUB:
			predicted = left(raw, i)
		case UP:
			predicted = above(previous, i)
		case AVG:
			predicted = (left(raw, i) + above(previous, i)) / 2
		case PAETH:
			predicted = paethPredictor(left(raw, i), above(previous, i), upperLeft(previous, i))
		}
		out[i] = x - byte(predicted)
	}
	return out
}
