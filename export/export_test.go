package export

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/shoccho/pnGo/pngDecoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func testImage() *pngDecoder.Image {
	return &pngDecoder.Image{
		Pix: []byte{
			10, 20, 30, 255, 40, 50, 60, 128,
			70, 80, 90, 0, 1, 2, 3, 4,
		},
		Width:    2,
		Height:   2,
		Channels: 4,
	}
}

func TestToNRGBA(t *testing.T) {
	img := testImage()
	nrgba := ToNRGBA(img)
	assert.Equal(t, 2, nrgba.Bounds().Dx())
	assert.Equal(t, 2, nrgba.Bounds().Dy())
	assert.Equal(t, color.NRGBA{R: 40, G: 50, B: 60, A: 128}, nrgba.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 4}, nrgba.NRGBAAt(1, 1))
}

func TestWritePPM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePPM(&buf, testImage()))

	expected := append([]byte("P6\n2 2\n255\n"), 10, 20, 30, 40, 50, 60, 70, 80, 90, 1, 2, 3)
	assert.Equal(t, expected, buf.Bytes())
}

func TestWritePNGRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, testImage()))

	decoded, err := pngDecoder.Decode(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, testImage().Pix, decoded.Pix)

	std, err := png.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 2, std.Bounds().Dx())
}

func TestWriteBMP(t *testing.T) {
	img := testImage()
	img.Pix[7], img.Pix[11], img.Pix[15] = 255, 255, 255

	var buf bytes.Buffer
	require.NoError(t, WriteBMP(&buf, img))

	decoded, err := bmp.Decode(&buf)
	require.NoError(t, err)
	r, g, b, _ := decoded.At(0, 1).RGBA()
	assert.Equal(t, []uint32{70, 80, 90}, []uint32{r >> 8, g >> 8, b >> 8})
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.ppm")
	require.NoError(t, WriteFile(path, "ppm", testImage()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len("P6\n2 2\n255\n")+12), info.Size())

	assert.Error(t, WriteFile(filepath.Join(dir, "out.gif"), "gif", testImage()))
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "images/cat.bmp", OutputName("images/cat.png", "bmp"))
	assert.Equal(t, "noext.ppm", OutputName("noext", "ppm"))
	assert.Equal(t, []string{"bmp", "png", "ppm"}, Formats())
}
