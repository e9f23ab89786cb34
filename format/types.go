// Package format defines the small enumerations shared by the codec wire format.
package format

type (
	CompressionType uint8
	SubframeType    uint8
)

const (
	CompressionNone   CompressionType = 0x1 // CompressionNone stores frame payloads as-is.
	CompressionZstd   CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2     CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4    CompressionType = 0x4 // CompressionLZ4 represents LZ4 block compression.
	CompressionSnappy CompressionType = 0x5 // CompressionSnappy represents Snappy block compression.

	SubframeConstant SubframeType = 0x0 // SubframeConstant holds a single repeated sample.
	SubframeVerbatim SubframeType = 0x1 // SubframeVerbatim holds raw 32-bit samples.
	SubframeFixed    SubframeType = 0x2 // SubframeFixed holds warmup samples plus fixed-predictor residuals.
)

// Valid reports whether c is a known compression type.
func (c CompressionType) Valid() bool {
	return c >= CompressionNone && c <= CompressionSnappy
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionSnappy:
		return "Snappy"
	default:
		return "Unknown"
	}
}

func (s SubframeType) String() string {
	switch s {
	case SubframeConstant:
		return "Constant"
	case SubframeVerbatim:
		return "Verbatim"
	case SubframeFixed:
		return "Fixed"
	default:
		return "Unknown"
	}
}
