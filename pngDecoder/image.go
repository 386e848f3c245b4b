package pngDecoder

// Image is a fully reconstructed RGBA pixel buffer.
type Image struct {
	Pix      []byte
	Width    uint32
	Height   uint32
	Channels uint32
}

// Stride is the number of bytes in one row of Pix.
func (img *Image) Stride() int {
	return int(img.Width) * bytesPerPixel
}

// Offset maps a (row, column, channel) sample to its index in Pix.
func (img *Image) Offset(row, col, channel int) int {
	return row*img.Stride() + col*bytesPerPixel + channel
}

// At returns the RGBA sample of the pixel at (row, col).
func (img *Image) At(row, col int) [4]byte {
	i := img.Offset(row, col, 0)
	var px [4]byte
	copy(px[:], img.Pix[i:i+bytesPerPixel])
	return px
}
