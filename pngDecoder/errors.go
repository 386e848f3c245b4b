package pngDecoder

import (
	"errors"
	"fmt"

	"github.com/shoccho/pnGo/oops"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindIO
	KindSignatureMismatch
	KindChunkFraming
	KindChecksumMismatch
	KindUnsupportedHeader
	KindMissingImageData
	KindDecompression
	KindReconstruction
)

var (
	ErrIO                = errors.New("i/o failure")
	ErrSignatureMismatch = errors.New("not a png")
	ErrChunkFraming      = errors.New("malformed chunk")
	ErrChecksumMismatch  = errors.New("chunk checksum mismatch")
	ErrUnsupportedHeader = errors.New("unsupported header")
	ErrMissingImageData  = errors.New("missing image data")
	ErrDecompression     = errors.New("decompression failed")
	ErrReconstruction    = errors.New("reconstruction failed")
)

var kindErrors = map[Kind]error{
	KindIO:                ErrIO,
	KindSignatureMismatch: ErrSignatureMismatch,
	KindChunkFraming:      ErrChunkFraming,
	KindChecksumMismatch:  ErrChecksumMismatch,
	KindUnsupportedHeader: ErrUnsupportedHeader,
	KindMissingImageData:  ErrMissingImageData,
	KindDecompression:     ErrDecompression,
	KindReconstruction:    ErrReconstruction,
}

func (k Kind) String() string {
	if err, ok := kindErrors[k]; ok {
		return err.Error()
	}
	return "unknown"
}

// KindOf reports which failure kind err belongs to.
func KindOf(err error) Kind {
	for kind, sentinel := range kindErrors {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindUnknown
}

// fail builds a stack-carrying error of the given kind. cause may be nil.
func fail(kind Kind, cause error, format string, args ...interface{}) error {
	var wrapped error = kindErrors[kind]
	if cause != nil {
		wrapped = fmt.Errorf("%w: %w", kindErrors[kind], cause)
	}
	return oops.New(wrapped, "png: "+format, args...)
}
