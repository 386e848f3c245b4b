package pngDecoder

import (
	"errors"
	"io"
	"os"

	"github.com/shoccho/pnGo/compression"
	"github.com/shoccho/pnGo/config"
	"github.com/shoccho/pnGo/logging"
	"github.com/shoccho/pnGo/utils"
)

type Options struct {
	// Headers declaring more decompressed image data than this are
	// rejected. Zero means no limit.
	MaxImageBytes uint64
}

func DefaultOptions() Options {
	return Options{
		MaxImageBytes: config.Config.MaxImageBytes,
	}
}

// PngDecoder decodes a single PNG stream. It is not safe for concurrent
// use, but separate decoders share nothing.
type PngDecoder struct {
	r    *utils.ByteReader
	opts Options
}

// NewDecoder checks the PNG signature at the start of r. size is the total
// stream length, or -1 if unknown.
func NewDecoder(r io.Reader, size int64, opts Options) (*PngDecoder, error) {
	br := utils.NewByteReader(r, size)
	sig, err := br.ReadBytes(len(pngSignature))
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fail(KindSignatureMismatch, err, "stream too short for signature")
		}
		return nil, fail(KindIO, err, "reading signature")
	}
	if !isPNG(sig) {
		return nil, fail(KindSignatureMismatch, nil, "bad signature % x", sig)
	}
	return &PngDecoder{
		r:    br,
		opts: opts,
	}, nil
}

// Decode runs the whole pipeline: chunks, header, first IDAT, inflate,
// reconstruct. Only the first IDAT chunk is decompressed.
func (pd *PngDecoder) Decode() (*Image, error) {
	chunks, err := ReadChunks(pd.r)
	if err != nil {
		return nil, err
	}
	logging.Debug().Int("chunks", len(chunks)).Msg("collected chunks")

	ihdr, err := pd.header(chunks)
	if err != nil {
		return nil, err
	}
	logging.Debug().Stringer("header", ihdr).Msg("parsed header")

	idat := findChunk(chunks[1:], typeIDAT)
	if idat == nil {
		return nil, fail(KindMissingImageData, nil, "no %s chunk before %s", typeIDAT, typeIEND)
	}

	decompressed, err := compression.InflateData(idat.data, ihdr.FilteredBytes())
	if err != nil {
		return nil, fail(KindDecompression, err, "inflating %d bytes of image data", len(idat.data))
	}
	logging.Debug().Int("compressed", len(idat.data)).Int("decompressed", len(decompressed)).Msg("inflated image data")

	return Reconstruct(decompressed, ihdr.Width, ihdr.Height)
}

// header parses the first chunk and applies the configured size limit.
func (pd *PngDecoder) header(chunks []*Chunk) (*ImageHeader, error) {
	ihdr, err := ParseHeader(chunks[0])
	if err != nil {
		return nil, err
	}
	if limit := pd.opts.MaxImageBytes; limit > 0 && ihdr.FilteredBytes() > limit {
		return nil, fail(KindUnsupportedHeader, nil, "%dx%d image needs %d bytes, limit is %d",
			ihdr.Width, ihdr.Height, ihdr.FilteredBytes(), limit)
	}
	return ihdr, nil
}

func findChunk(chunks []*Chunk, typ string) *Chunk {
	for _, chunk := range chunks {
		if chunk.typ == typ {
			return chunk
		}
	}
	return nil
}

// Inspection describes a PNG stream without decoding its pixels.
type Inspection struct {
	Chunks []*Chunk

	// Header is nil when the first chunk is not a supported header, in
	// which case HeaderErr says why.
	Header    *ImageHeader
	HeaderErr error
}

// Inspect reads every chunk and parses the header.
func (pd *PngDecoder) Inspect() (*Inspection, error) {
	chunks, err := ReadChunks(pd.r)
	if err != nil {
		return nil, err
	}
	ins := &Inspection{Chunks: chunks}
	ins.Header, ins.HeaderErr = pd.header(chunks)
	return ins, nil
}

func DecodeFile(path string) (*Image, error) {
	return DecodeFileWithOptions(path, DefaultOptions())
}

func DecodeFileWithOptions(path string, opts Options) (*Image, error) {
	var img *Image
	err := withFile(path, opts, func(pd *PngDecoder) error {
		var err error
		img, err = pd.Decode()
		return err
	})
	return img, err
}

func InspectFile(path string) (*Inspection, error) {
	var ins *Inspection
	err := withFile(path, DefaultOptions(), func(pd *PngDecoder) error {
		var err error
		ins, err = pd.Inspect()
		return err
	})
	return ins, err
}

// Decode decodes a PNG from r. size is the stream length, or -1.
func Decode(r io.Reader, size int64) (*Image, error) {
	pd, err := NewDecoder(r, size, DefaultOptions())
	if err != nil {
		return nil, err
	}
	return pd.Decode()
}

func withFile(path string, opts Options, f func(pd *PngDecoder) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fail(KindIO, err, "opening %s", path)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fail(KindIO, err, "reading size of %s", path)
	}

	pd, err := NewDecoder(file, info.Size(), opts)
	if err != nil {
		return err
	}
	return f(pd)
}
