package ir

import (
	"fmt"
	"io"
	"strconv"

	"github.com/arloliu/clpir/endian"
	"github.com/arloliu/clpir/errs"
)

// EncodedMessage is a record whose text has not been expanded yet.
//
// Expanding a message costs far more than reading its timestamp, so decoders
// keep records in this form until they know the record is wanted.
type EncodedMessage struct {
	Logtype     string
	DictVars    []string
	EncodedVars []int32
	// TimestampDelta is the offset in milliseconds from the previous record's
	// timestamp (or the reference timestamp for the first record).
	TimestampDelta int64
}

// DecodeNextMessage decodes one record from data.
//
// The end-of-stream tag is reported as io.EOF with one byte consumed.
func DecodeNextMessage(data []byte) (EncodedMessage, int, error) {
	var msg EncodedMessage
	pos := 0

	for {
		if pos >= len(data) {
			return EncodedMessage{}, 0, errs.ErrIncompleteIR
		}

		tag := data[pos]
		pos++

		switch tag {
		case TagEndOfStream:
			if pos != 1 {
				return EncodedMessage{}, 0, fmt.Errorf("%w: end-of-stream tag inside a record", errs.ErrCorruptedIR)
			}

			return EncodedMessage{}, 1, io.EOF

		case TagVarFourByteEnc:
			if len(data)-pos < 4 {
				return EncodedMessage{}, 0, errs.ErrIncompleteIR
			}
			msg.EncodedVars = append(msg.EncodedVars, endian.Int32(engine, data[pos:pos+4]))
			pos += 4

		case TagVarStrLenUByte, TagVarStrLenUShort, TagVarStrLenInt:
			s, n, err := decodeString(data[pos:], tag-TagVarStrLenUByte)
			if err != nil {
				return EncodedMessage{}, 0, err
			}
			msg.DictVars = append(msg.DictVars, s)
			pos += n

		case TagLogtypeStrLenUByte, TagLogtypeStrLenUShort, TagLogtypeStrLenInt:
			s, n, err := decodeString(data[pos:], tag-TagLogtypeStrLenUByte)
			if err != nil {
				return EncodedMessage{}, 0, err
			}
			msg.Logtype = s
			pos += n

			delta, n, err := decodeTimestampDelta(data[pos:])
			if err != nil {
				return EncodedMessage{}, 0, err
			}
			msg.TimestampDelta = delta
			pos += n

			return msg, pos, nil

		default:
			return EncodedMessage{}, 0, fmt.Errorf("%w: unexpected tag 0x%02X", errs.ErrCorruptedIR, tag)
		}
	}
}

// decodeString decodes a length-prefixed string. width selects the length
// field: 0 for uint8, 1 for uint16, 2 for int32.
func decodeString(data []byte, width byte) (string, int, error) {
	var length, pos int

	switch width {
	case 0:
		if len(data) < 1 {
			return "", 0, errs.ErrIncompleteIR
		}
		length, pos = int(data[0]), 1
	case 1:
		if len(data) < 2 {
			return "", 0, errs.ErrIncompleteIR
		}
		length, pos = int(engine.Uint16(data)), 2
	default:
		if len(data) < 4 {
			return "", 0, errs.ErrIncompleteIR
		}
		l := endian.Int32(engine, data)
		if l < 0 {
			return "", 0, fmt.Errorf("%w: negative string length %d", errs.ErrCorruptedIR, l)
		}
		length, pos = int(l), 4
	}

	if len(data)-pos < length {
		return "", 0, errs.ErrIncompleteIR
	}

	return string(data[pos : pos+length]), pos + length, nil
}

func decodeTimestampDelta(data []byte) (int64, int, error) {
	if len(data) < 1 {
		return 0, 0, errs.ErrIncompleteIR
	}

	var size int
	switch data[0] {
	case TagTimestampDeltaByte:
		size = 1
	case TagTimestampDeltaShort:
		size = 2
	case TagTimestampDeltaInt:
		size = 4
	case TagTimestampDeltaLong:
		size = 8
	default:
		return 0, 0, fmt.Errorf("%w: unexpected timestamp tag 0x%02X", errs.ErrCorruptedIR, data[0])
	}

	if len(data)-1 < size {
		return 0, 0, errs.ErrIncompleteIR
	}

	b := data[1 : 1+size]
	var delta int64
	switch size {
	case 1:
		delta = int64(endian.Int8(b))
	case 2:
		delta = int64(endian.Int16(engine, b))
	case 4:
		delta = int64(endian.Int32(engine, b))
	default:
		delta = endian.Int64(engine, b)
	}

	return delta, 1 + size, nil
}

// Decode expands the logtype by substituting its placeholders with the
// record's variables.
//
// Returns errs.ErrCorruptedIR when the placeholders and variables disagree, a
// float variable is invalid, or the logtype ends with an escape character.
func (m *EncodedMessage) Decode() (string, error) {
	out := make([]byte, 0, len(m.Logtype)+8*(len(m.DictVars)+len(m.EncodedVars)))
	dictIdx, encodedIdx := 0, 0
	logtype := m.Logtype

	for i := 0; i < len(logtype); i++ {
		c := logtype[i]
		switch c {
		case PlaceholderInteger, PlaceholderFloat:
			if encodedIdx >= len(m.EncodedVars) {
				return "", fmt.Errorf("%w: logtype references missing encoded variable", errs.ErrCorruptedIR)
			}
			v := m.EncodedVars[encodedIdx]
			encodedIdx++
			if c == PlaceholderInteger {
				out = strconv.AppendInt(out, int64(v), 10)
				continue
			}
			var err error
			out, err = AppendFloatVar(out, v)
			if err != nil {
				return "", err
			}

		case PlaceholderDictionary:
			if dictIdx >= len(m.DictVars) {
				return "", fmt.Errorf("%w: logtype references missing dictionary variable", errs.ErrCorruptedIR)
			}
			out = append(out, m.DictVars[dictIdx]...)
			dictIdx++

		case PlaceholderEscape:
			i++
			if i >= len(logtype) {
				return "", fmt.Errorf("%w: logtype ends with an escape character", errs.ErrCorruptedIR)
			}
			out = append(out, logtype[i])

		default:
			out = append(out, c)
		}
	}

	if dictIdx != len(m.DictVars) || encodedIdx != len(m.EncodedVars) {
		return "", fmt.Errorf("%w: record has unused variables", errs.ErrCorruptedIR)
	}

	return string(out), nil
}
