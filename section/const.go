package section

import "math"

const (
	// StreamMagic opens every stream header.
	StreamMagic = "fLaA"
	// StreamVersion is the only stream format version written and accepted.
	StreamVersion = 1

	// FrameSync opens every frame header.
	FrameSync = 0xFFF8

	// FlagStored marks a frame payload that is stored without compression.
	FlagStored = 0x01
	// FlagMask covers every defined frame flag bit.
	FlagMask = FlagStored
)

// header sizes in bytes
const (
	StreamHeaderSize = 16
	FrameHeaderSize  = 28
	MaxPayloadSize   = math.MaxUint32
)

// FrameChecksumOffset is the offset of the checksum field in a frame header.
// The checksum covers the header bytes before it and the stored payload.
const FrameChecksumOffset = 24
