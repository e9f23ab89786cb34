package section

import (
	"fmt"

	"github.com/arloliu/flacarray/endian"
	"github.com/arloliu/flacarray/format"
)

var engine = endian.GetLittleEndianEngine()

// StreamHeader describes the encoder parameters of one stream.
type StreamHeader struct {
	Channels      uint8                  // byte offset 5
	BitsPerSample uint8                  // byte offset 6
	Compression   format.CompressionType // byte offset 7
	Level         uint8                  // byte offset 8
	// BlockSize is the number of samples per channel in every frame but the last.
	BlockSize uint32 // byte offset 12-15
}

// Parse parses the header from a byte slice of exactly StreamHeaderSize bytes.
func (h *StreamHeader) Parse(data []byte) error {
	if len(data) != StreamHeaderSize {
		return ErrInvalidHeaderSize
	}
	if string(data[0:4]) != StreamMagic {
		return ErrInvalidMagic
	}
	if data[4] != StreamVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[4])
	}

	h.Channels = data[5]
	h.BitsPerSample = data[6]
	h.Compression = format.CompressionType(data[7])
	h.Level = data[8]
	h.BlockSize = engine.Uint32(data[12:16])

	return h.Validate()
}

// Validate checks that every field holds a usable value.
func (h *StreamHeader) Validate() error {
	switch {
	case h.Channels == 0:
		return fmt.Errorf("%w: zero channels", ErrInvalidField)
	case h.BitsPerSample == 0 || h.BitsPerSample > 32:
		return fmt.Errorf("%w: %d bits per sample", ErrInvalidField, h.BitsPerSample)
	case !h.Compression.Valid():
		return fmt.Errorf("%w: compression %d", ErrInvalidField, h.Compression)
	case h.BlockSize == 0:
		return fmt.Errorf("%w: zero block size", ErrInvalidField)
	}

	return nil
}

// Bytes serializes the StreamHeader.
func (h *StreamHeader) Bytes() []byte {
	b := make([]byte, StreamHeaderSize)
	copy(b[0:4], StreamMagic)
	b[4] = StreamVersion
	b[5] = h.Channels
	b[6] = h.BitsPerSample
	b[7] = byte(h.Compression)
	b[8] = h.Level
	// bytes 9-11 reserved
	engine.PutUint32(b[12:16], h.BlockSize)

	return b
}

// ParseStreamHeader parses a StreamHeader from the start of data.
func ParseStreamHeader(data []byte) (StreamHeader, error) {
	if len(data) < StreamHeaderSize {
		return StreamHeader{}, ErrInvalidHeaderSize
	}

	h := StreamHeader{}
	if err := h.Parse(data[:StreamHeaderSize]); err != nil {
		return StreamHeader{}, err
	}

	return h, nil
}
