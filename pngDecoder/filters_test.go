package pngDecoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaethPredictor(t *testing.T) {
	for a := 0; a < 256; a++ {
		assert.Equal(t, a, paethPredictor(a, a, a))
	}
	// Ties go to a, then b.
	assert.Equal(t, 5, paethPredictor(5, 5, 0))
	assert.Equal(t, 7, paethPredictor(3, 7, 3))
	assert.Equal(t, 10, paethPredictor(10, 20, 30))
	assert.Equal(t, 20, paethPredictor(10, 20, 5))
	assert.Equal(t, 100, paethPredictor(100, 100, 0))
	assert.Equal(t, 50, paethPredictor(0, 100, 50))
}

func TestReconstructNone(t *testing.T) {
	img, err := Reconstruct([]byte{0, 10, 20, 30, 255, 5, 5, 5, 0}, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 20, 30, 255, 5, 5, 5, 0}, img.Pix)
	assert.Equal(t, uint32(4), img.Channels)
}

func TestReconstructSubFirstPixel(t *testing.T) {
	// No left neighbour on a 1x1 image, so Sub leaves the bytes alone.
	img, err := Reconstruct([]byte{1, 9, 8, 7, 6}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 8, 7, 6}, img.Pix)
}

func TestReconstructFilters(t *testing.T) {
	data := []byte{
		1, 10, 20, 30, 40, 1, 1, 1, 250,
		2, 1, 1, 1, 1, 0, 0, 0, 10,
		3, 0, 0, 0, 0, 0, 0, 0, 0,
		4, 1, 2, 3, 4, 0, 0, 0, 0,
	}
	img, err := Reconstruct(data, 2, 4)
	require.NoError(t, err)

	// Row 0, Sub: second pixel adds the first, alpha wraps.
	assert.Equal(t, [4]byte{10, 20, 30, 40}, img.At(0, 0))
	assert.Equal(t, [4]byte{11, 21, 31, 34}, img.At(0, 1))
	// Row 1, Up.
	assert.Equal(t, [4]byte{11, 21, 31, 41}, img.At(1, 0))
	assert.Equal(t, [4]byte{11, 21, 31, 44}, img.At(1, 1))
	// Row 2, Average: floor((left + above) / 2).
	assert.Equal(t, [4]byte{5, 10, 15, 20}, img.At(2, 0))
	assert.Equal(t, [4]byte{8, 15, 23, 32}, img.At(2, 1))
	// Row 3, Paeth.
	assert.Equal(t, [4]byte{6, 12, 18, 24}, img.At(3, 0))
	assert.Equal(t, [4]byte{8, 15, 23, 32}, img.At(3, 1))
}

func TestReconstructUnknownFilterPassesThrough(t *testing.T) {
	img, err := Reconstruct([]byte{9, 1, 2, 3, 4}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, img.Pix)
}

func TestReconstructShortData(t *testing.T) {
	_, err := Reconstruct([]byte{0, 1, 2, 3, 4, 0, 1, 2}, 1, 2)
	assert.ErrorIs(t, err, ErrReconstruction)

	_, err = Reconstruct(nil, 0, 1)
	assert.ErrorIs(t, err, ErrReconstruction)
}

func TestReconstructSizeOverflow(t *testing.T) {
	var err error
	require.NotPanics(t, func() {
		_, err = Reconstruct(make([]byte, 2444), 1074338376, 4292582412)
	})
	assert.ErrorIs(t, err, ErrReconstruction)
}

func TestFilterRoundTrip(t *testing.T) {
	const width = 3
	stride := width * bytesPerPixel
	rows := make([][]byte, 3)
	for r := range rows {
		rows[r] = make([]byte, stride)
	}

	for filter := NONE; filter <= PAETH; filter++ {
		for v := 0; v < 256; v++ {
			for r := range rows {
				for c := range rows[r] {
					rows[r][c] = byte(v*(r+1) + c*37)
				}
			}

			var data []byte
			var previous []byte
			for _, raw := range rows {
				data = append(data, byte(filter))
				data = append(data, Filter(filter, raw, previous)...)
				previous = raw
			}

			img, err := Reconstruct(data, width, uint32(len(rows)))
			require.NoError(t, err)
			for r, raw := range rows {
				require.Equal(t, raw, img.Pix[r*stride:(r+1)*stride], "filter %v value %d row %d", filter, v, r)
			}
		}
	}
}

func TestImageOffset(t *testing.T) {
	img := &Image{Pix: make([]byte, 3*2*4), Width: 3, Height: 2, Channels: 4}
	assert.Equal(t, 12, img.Stride())
	assert.Equal(t, 0, img.Offset(0, 0, 0))
	assert.Equal(t, 7, img.Offset(0, 1, 3))
	assert.Equal(t, 22, img.Offset(1, 2, 2))
}
