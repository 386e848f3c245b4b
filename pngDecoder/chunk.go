package pngDecoder

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"

	"github.com/shoccho/pnGo/utils"
)

const (
	typeIHDR = "IHDR"
	typeIDAT = "IDAT"
	typeIEND = "IEND"

	// Length and type ahead of the payload.
	frameLength = 8

	// Largest chunk length the PNG format allows.
	maxChunkLength = 1<<31 - 1
)

// frame is the fixed part of a chunk ahead of its payload.
type frame struct {
	Length uint32
	Type   [4]byte
}

// Chunk is one checksummed record of the PNG stream. Chunks are only ever
// built by ReadChunk after their CRC checked out.
type Chunk struct {
	length uint32
	typ    string
	data   []byte
	crc    uint32
}

func (c *Chunk) Length() uint32 { return c.length }
func (c *Chunk) Type() string { return c.typ }
func (c *Chunk) CRC() uint32 { return c.crc }

// Data returns a copy of the payload.
func (c *Chunk) Data() []byte {
	return append([]byte(nil), c.data...)
}

// Critical chunks have an upper-case first letter in their type.
func (c *Chunk) Critical() bool {
	return c.typ[0] >= 'A' && c.typ[0] <= 'Z'
}

func chunkCRC(typ string, data []byte) uint32 {
	return crc32.Update(crc32.ChecksumIEEE([]byte(typ)), crc32.IEEETable, data)
}

// ReadChunk reads one chunk and verifies its checksum.
func ReadChunk(r *utils.ByteReader) (*Chunk, error) {
	offset := r.Offset()
	head, err := r.ReadBytes(frameLength)
	if err != nil {
		return nil, framingOrIO(err, "reading chunk header at offset %d", offset)
	}
	var f frame
	if err := binary.Read(bytes.NewReader(head), binary.BigEndian, &f); err != nil {
		return nil, fail(KindChunkFraming, err, "decoding chunk header at offset %d", offset)
	}
	typ := string(f.Type[:])
	if f.Length > maxChunkLength {
		return nil, fail(KindChunkFraming, nil, "chunk %q declares length %d", typ, f.Length)
	}

	data, err := r.ReadBytes(int(f.Length))
	if err != nil {
		return nil, framingOrIO(err, "reading %d bytes of chunk %q", f.Length, typ)
	}

	expected, err := r.ReadUint32()
	if err != nil {
		return nil, framingOrIO(err, "reading crc of chunk %q", typ)
	}
	if computed := chunkCRC(typ, data); computed != expected {
		return nil, fail(KindChecksumMismatch, nil, "chunk %q: crc %08x, computed %08x", typ, expected, computed)
	}

	return &Chunk{
		length: f.Length,
		typ:    typ,
		data:   data,
		crc:    expected,
	}, nil
}

// ReadChunks reads chunks up to and including IEND. Nothing is returned if
// any chunk fails.
func ReadChunks(r *utils.ByteReader) ([]*Chunk, error) {
	var chunks []*Chunk
	for {
		chunk, err := ReadChunk(r)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
		if chunk.typ == typeIEND {
			return chunks, nil
		}
	}
}

func framingOrIO(err error, format string, args ...interface{}) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fail(KindChunkFraming, err, format, args...)
	}
	return fail(KindIO, err, format, args...)
}
