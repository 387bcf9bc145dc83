// Package format holds the enums shared by the IR codec, compression and reader layers.
package format

type (
	EncodingType    uint8
	CompressionType uint8
)

const (
	EncodingFourByte  EncodingType = 0x1 // EncodingFourByte represents the four-byte IR encoding.
	EncodingEightByte EncodingType = 0x2 // EncodingEightByte represents the eight-byte IR encoding.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 frame compression.
)

func (e EncodingType) String() string {
	switch e {
	case EncodingFourByte:
		return "FourByte"
	case EncodingEightByte:
		return "EightByte"
	default:
		return "Unknown"
	}
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
	default:
		return "Unknown"
	}
}
