package ir

import (
	"bytes"
	"fmt"

	"github.com/arloliu/clpir/errs"
	"github.com/arloliu/clpir/format"
)

// DecodeEncodingType decodes the magic number at the start of an IR stream.
//
// Returns:
//   - format.EncodingType: EncodingFourByte or EncodingEightByte
//   - int: number of bytes consumed (always MagicNumberLength on success)
//   - error: errs.ErrIncompleteIR or errs.ErrInvalidMagicNumber
func DecodeEncodingType(data []byte) (format.EncodingType, int, error) {
	if len(data) < MagicNumberLength {
		return 0, 0, errs.ErrIncompleteIR
	}

	magic := data[:MagicNumberLength]
	switch {
	case bytes.Equal(magic, FourByteEncodingMagicNumber[:]):
		return format.EncodingFourByte, MagicNumberLength, nil
	case bytes.Equal(magic, EightByteEncodingMagicNumber[:]):
		return format.EncodingEightByte, MagicNumberLength, nil
	default:
		return 0, 0, fmt.Errorf("%w: % X", errs.ErrInvalidMagicNumber, magic)
	}
}

// DecodePreamble decodes the preamble that follows the magic number and returns
// a copy of its JSON metadata.
//
// Returns:
//   - []byte: the raw metadata JSON
//   - int: number of bytes consumed
//   - error: errs.ErrIncompleteIR or errs.ErrCorruptedIR
func DecodePreamble(data []byte) ([]byte, int, error) {
	if len(data) < 2 {
		return nil, 0, errs.ErrIncompleteIR
	}

	if data[0] != MetadataJSONEncoding {
		return nil, 0, fmt.Errorf("%w: unknown metadata encoding 0x%02X", errs.ErrCorruptedIR, data[0])
	}

	var length, pos int
	switch data[1] {
	case MetadataLengthUByte:
		if len(data) < 3 {
			return nil, 0, errs.ErrIncompleteIR
		}
		length = int(data[2])
		pos = 3
	case MetadataLengthUShort:
		if len(data) < 4 {
			return nil, 0, errs.ErrIncompleteIR
		}
		length = int(engine.Uint16(data[2:4]))
		pos = 4
	default:
		return nil, 0, fmt.Errorf("%w: unknown metadata length tag 0x%02X", errs.ErrCorruptedIR, data[1])
	}

	if len(data)-pos < length {
		return nil, 0, errs.ErrIncompleteIR
	}

	metadata := make([]byte, length)
	copy(metadata, data[pos:pos+length])

	return metadata, pos + length, nil
}
