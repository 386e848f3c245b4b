package utils

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

func BytesToLength(data []byte) uint32 {
	return binary.BigEndian.Uint32(data)
}

// Reads of unknown-size streams are copied in pieces of this size so a
// bogus length cannot force one giant allocation.
const growStep = 64 << 10

// ByteReader pulls big-endian integers and exact byte runs from a stream.
// When the stream size is known, requests past the end fail before any
// allocation happens.
type ByteReader struct {
	r      io.Reader
	size   int64
	offset int64
}

// NewByteReader wraps r. A negative size means the size is unknown.
func NewByteReader(r io.Reader, size int64) *ByteReader {
	return &ByteReader{r: r, size: size}
}

func (b *ByteReader) Offset() int64 {
	return b.offset
}

// Remaining is the number of unread bytes, or -1 if the size is unknown.
func (b *ByteReader) Remaining() int64 {
	if b.size < 0 {
		return -1
	}
	return b.size - b.offset
}

func (b *ByteReader) ReadUint32() (uint32, error) {
	data, err := b.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return BytesToLength(data), nil
}

// ReadBytes returns exactly n bytes. A stream ending before any byte was
// read gives io.EOF; ending part way gives io.ErrUnexpectedEOF.
func (b *ByteReader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative read length %d", n)
	}
	if n == 0 {
		return []byte{}, nil
	}
	if remaining := b.Remaining(); remaining >= 0 && int64(n) > remaining {
		// Consume what is left so the offset reflects the truncated stream.
		skipped, _ := io.Copy(io.Discard, io.LimitReader(b.r, remaining))
		b.offset += skipped
		if remaining == 0 {
			return nil, io.EOF
		}
		return nil, io.ErrUnexpectedEOF
	}

	if b.size >= 0 || n <= growStep {
		data := make([]byte, n)
		read, err := io.ReadFull(b.r, data)
		b.offset += int64(read)
		if err != nil {
			return nil, err
		}
		return data, nil
	}

	var buf bytes.Buffer
	for buf.Len() < n {
		step := n - buf.Len()
		if step > growStep {
			step = growStep
		}
		read, err := io.CopyN(&buf, b.r, int64(step))
		b.offset += read
		if err != nil {
			if err == io.EOF && buf.Len() > 0 {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// WritePPMHeader writes a binary (P6) PPM header.
func WritePPMHeader(w io.Writer, width, height int) error {
	_, err := fmt.Fprintf(w, "P6\n%d %d\n255\n", width, height)
	return err
}

func CreatePPM(name string, width, height int) (*os.File, error) {
	file, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	err = WritePPMHeader(file, width, height)
	if err != nil {
		file.Close()
		return nil, err
	}

	return file, nil
}
