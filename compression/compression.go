package compression

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

var ErrOversized = errors.New("decompressed data exceeds expected size")

// InflateData decompresses a zlib stream, producing at most expected bytes.
// A stream that inflates to more than expected bytes fails with
// ErrOversized. A well-formed stream that inflates to fewer bytes is
// returned as is; judging whether that is enough is up to the caller.
func InflateData(compressedData []byte, expected uint64) ([]byte, error) {
	reader := bytes.NewReader(compressedData)

	zlibReader, err := zlib.NewReader(reader)
	if err != nil {
		return nil, err
	}
	defer zlibReader.Close()

	var decompressedData bytes.Buffer
	if expected <= uint64(len(compressedData))*1032 {
		// Deflate cannot expand more than ~1032:1, so this never over-allocates
		// for a hostile header.
		decompressedData.Grow(int(expected))
	}
	n, err := io.Copy(&decompressedData, io.LimitReader(zlibReader, int64(expected)+1))
	if err != nil {
		return nil, err
	}
	if uint64(n) > expected {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrOversized, expected)
	}
	return decompressedData.Bytes(), nil
}
