package section

import "fmt"

// FrameHeader precedes every frame payload.
type FrameHeader struct {
	Flags    uint8 // byte offset 2
	Channels uint8 // byte offset 3
	// Samples is the number of samples per channel in the frame.
	Samples uint32 // byte offset 4-7
	// FirstSample is the stream-absolute index of the frame's first sample.
	FirstSample uint64 // byte offset 8-15
	// PayloadLen is the number of payload bytes following the header.
	PayloadLen uint32 // byte offset 16-19
	// RawLen is the payload length before compression.
	RawLen uint32 // byte offset 20-23
	// Checksum is the low 32 bits of the xxHash64 of header bytes 0-23
	// followed by the stored payload.
	Checksum uint32 // byte offset 24-27
}

// Stored reports whether the payload is stored without compression.
func (h *FrameHeader) Stored() bool {
	return h.Flags&FlagStored != 0
}

// Parse parses the header from a byte slice of exactly FrameHeaderSize bytes.
func (h *FrameHeader) Parse(data []byte) error {
	if len(data) != FrameHeaderSize {
		return ErrInvalidHeaderSize
	}
	if engine.Uint16(data[0:2]) != FrameSync {
		return ErrInvalidSync
	}

	h.Flags = data[2]
	h.Channels = data[3]
	h.Samples = engine.Uint32(data[4:8])
	h.FirstSample = engine.Uint64(data[8:16])
	h.PayloadLen = engine.Uint32(data[16:20])
	h.RawLen = engine.Uint32(data[20:24])
	h.Checksum = engine.Uint32(data[24:28])

	switch {
	case h.Flags&^FlagMask != 0:
		return fmt.Errorf("%w: frame flags 0x%02x", ErrInvalidField, h.Flags)
	case h.Channels == 0:
		return fmt.Errorf("%w: zero channels", ErrInvalidField)
	case h.Samples == 0:
		return fmt.Errorf("%w: empty frame", ErrInvalidField)
	case h.Stored() && h.PayloadLen != h.RawLen:
		return fmt.Errorf("%w: stored payload %d != raw %d", ErrInvalidField, h.PayloadLen, h.RawLen)
	}

	return nil
}

// Bytes serializes the FrameHeader.
func (h *FrameHeader) Bytes() []byte {
	return h.AppendTo(make([]byte, 0, FrameHeaderSize))
}

// AppendTo appends the serialized header to dst.
func (h *FrameHeader) AppendTo(dst []byte) []byte {
	dst = engine.AppendUint16(dst, FrameSync)
	dst = append(dst, h.Flags, h.Channels)
	dst = engine.AppendUint32(dst, h.Samples)
	dst = engine.AppendUint64(dst, h.FirstSample)
	dst = engine.AppendUint32(dst, h.PayloadLen)
	dst = engine.AppendUint32(dst, h.RawLen)
	dst = engine.AppendUint32(dst, h.Checksum)

	return dst
}

// EndSample returns the index one past the frame's last sample.
func (h *FrameHeader) EndSample() uint64 {
	return h.FirstSample + uint64(h.Samples)
}
