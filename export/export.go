// Package export hands decoded pixel buffers to consumers that want them in
// another shape: an image.Image, or an encoded file.
package export

import (
	"bufio"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shoccho/pnGo/oops"
	"github.com/shoccho/pnGo/pngDecoder"
	"github.com/shoccho/pnGo/utils"
	"golang.org/x/image/bmp"
)

// ToNRGBA wraps the pixel buffer as an *image.NRGBA without copying.
func ToNRGBA(img *pngDecoder.Image) *image.NRGBA {
	return &image.NRGBA{
		Pix:    img.Pix,
		Stride: img.Stride(),
		Rect:   image.Rect(0, 0, int(img.Width), int(img.Height)),
	}
}

type Writer func(w io.Writer, img *pngDecoder.Image) error

var writers = map[string]Writer{
	"ppm": WritePPM,
	"bmp": WriteBMP,
	"png": WritePNG,
}

func Formats() []string {
	formats := make([]string, 0, len(writers))
	for format := range writers {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

func Lookup(format string) (Writer, error) {
	w, ok := writers[format]
	if !ok {
		return nil, oops.New(nil, "unknown output format %q (have %v)", format, Formats())
	}
	return w, nil
}

// WritePPM writes the color channels as a binary PPM. Alpha is dropped.
func WritePPM(w io.Writer, img *pngDecoder.Image) error {
	bw := bufio.NewWriter(w)
	err := utils.WritePPMHeader(bw, int(img.Width), int(img.Height))
	if err != nil {
		return err
	}
	for i := 0; i < len(img.Pix); i += int(img.Channels) {
		if _, err := bw.Write(img.Pix[i : i+3]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func WriteBMP(w io.Writer, img *pngDecoder.Image) error {
	return bmp.Encode(w, ToNRGBA(img))
}

func WritePNG(w io.Writer, img *pngDecoder.Image) error {
	return png.Encode(w, ToNRGBA(img))
}

// WriteFile encodes img into a new file at path.
func WriteFile(path, format string, img *pngDecoder.Image) error {
	write, err := Lookup(format)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return oops.New(err, "creating %s", path)
	}
	if err := write(file, img); err != nil {
		file.Close()
		return oops.New(err, "writing %s as %s", path, format)
	}
	if err := file.Close(); err != nil {
		return oops.New(err, "closing %s", path)
	}
	return nil
}

// OutputName replaces the extension of path with the format name.
func OutputName(path, format string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + format
}
