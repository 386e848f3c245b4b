package pngDecoder

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"
)

func encodeChunk(typ string, data []byte) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(len(data)))
	buf.WriteString(typ)
	buf.Write(data)
	crc := crc32.Update(crc32.ChecksumIEEE([]byte(typ)), crc32.IEEETable, data)
	binary.Write(&buf, binary.BigEndian, crc)
	return buf.Bytes()
}

func headerPayload(width, height uint32, bitDepth, colorType, compression, filter, interlace byte) []byte {
	payload := make([]byte, headerLength)
	binary.BigEndian.PutUint32(payload[0:], width)
	binary.BigEndian.PutUint32(payload[4:], height)
	payload[8] = bitDepth
	payload[9] = colorType
	payload[10] = compression
	payload[11] = filter
	payload[12] = interlace
	return payload
}

func rgbaHeader(width, height uint32) []byte {
	return headerPayload(width, height, 8, 6, 0, 0, 0)
}

func deflate(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// buildPNG concatenates the signature and the given encoded chunks.
func buildPNG(chunks ...[]byte) []byte {
	out := append([]byte(nil), pngSignature...)
	for _, chunk := range chunks {
		out = append(out, chunk...)
	}
	return out
}

// simplePNG builds an RGBA image from already-filtered row data.
func simplePNG(t *testing.T, width, height uint32, filtered []byte) []byte {
	return buildPNG(
		encodeChunk(typeIHDR, rgbaHeader(width, height)),
		encodeChunk(typeIDAT, deflate(t, filtered)),
		encodeChunk(typeIEND, nil),
	)
}
