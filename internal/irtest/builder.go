// Package irtest builds CLP four-byte IR streams for tests.
package irtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arloliu/clpir/compress"
	"github.com/arloliu/clpir/endian"
	"github.com/arloliu/clpir/format"
	"github.com/arloliu/clpir/internal/pool"
	"github.com/arloliu/clpir/ir"
)

var engine = endian.GetBigEndianEngine()

// Record is a raw IR record. Logtype is written as is, so placeholders and
// escapes must already be in place.
type Record struct {
	Logtype     string
	DictVars    []string
	EncodedVars []int32
	Delta       int64
}

// Event is a plain text message with its timestamp delta.
type Event struct {
	Message string
	Delta   int64
}

// Builder appends IR units to an in-memory stream.
type Builder struct {
	buf *pool.ByteBuffer
}

// NewBuilder creates an empty stream builder.
func NewBuilder() *Builder {
	return &Builder{buf: pool.NewByteBuffer(1024)}
}

// Magic writes the four-byte encoding magic number.
func (b *Builder) Magic() *Builder {
	b.buf.MustWrite(ir.FourByteEncodingMagicNumber[:])
	return b
}

// EightByteMagic writes the eight-byte encoding magic number.
func (b *Builder) EightByteMagic() *Builder {
	b.buf.MustWrite(ir.EightByteEncodingMagicNumber[:])
	return b
}

// Preamble writes a JSON metadata preamble with the given fields.
func (b *Builder) Preamble(refTimestamp int64, pattern, tzID string) *Builder {
	metadata := map[string]string{
		ir.MetadataVersionKey:                "v0.0.1",
		ir.MetadataReferenceTimestampKey:     strconv.FormatInt(refTimestamp, 10),
		ir.MetadataTimestampPatternKey:       pattern,
		ir.MetadataTimestampPatternSyntaxKey: "",
		ir.MetadataTimezoneIDKey:             tzID,
	}

	raw, err := json.Marshal(metadata)
	if err != nil {
		panic(err)
	}

	return b.PreambleJSON(raw)
}

// PreambleJSON writes a preamble carrying raw as its metadata.
func (b *Builder) PreambleJSON(raw []byte) *Builder {
	b.buf.MustWrite([]byte{ir.MetadataJSONEncoding})
	switch {
	case len(raw) <= math.MaxUint8:
		b.buf.MustWrite([]byte{ir.MetadataLengthUByte, byte(len(raw))})
	case len(raw) <= math.MaxUint16:
		b.buf.MustWrite([]byte{ir.MetadataLengthUShort})
		b.buf.MustWrite(engine.AppendUint16(nil, uint16(len(raw)))) //nolint:gosec
	default:
		panic("irtest: metadata too large")
	}
	b.buf.MustWrite(raw)

	return b
}

// Message writes a record with no variables whose text is message.
func (b *Builder) Message(message string, delta int64) *Builder {
	return b.Record(Record{Logtype: EscapeLogtype(message), Delta: delta})
}

// Events writes one record per event.
func (b *Builder) Events(events ...Event) *Builder {
	for _, e := range events {
		b.Message(e.Message, e.Delta)
	}

	return b
}

// Record writes a raw record.
func (b *Builder) Record(r Record) *Builder {
	for _, v := range r.EncodedVars {
		b.buf.MustWrite([]byte{ir.TagVarFourByteEnc})
		b.buf.MustWrite(endian.AppendInt32(engine, nil, v))
	}
	for _, v := range r.DictVars {
		b.writeString(v, ir.TagVarStrLenUByte)
	}
	b.writeString(r.Logtype, ir.TagLogtypeStrLenUByte)
	b.writeDelta(r.Delta)

	return b
}

// EndOfStream writes the end-of-stream tag.
func (b *Builder) EndOfStream() *Builder {
	b.buf.MustWrite([]byte{ir.TagEndOfStream})
	return b
}

// Raw appends arbitrary bytes.
func (b *Builder) Raw(data ...byte) *Builder {
	b.buf.MustWrite(data)
	return b
}

// Len returns the current stream size.
func (b *Builder) Len() int {
	return b.buf.Len()
}

// Bytes returns a copy of the stream.
func (b *Builder) Bytes() []byte {
	return bytes.Clone(b.buf.Bytes())
}

// Compressed returns the stream wrapped in the given compression.
func (b *Builder) Compressed(compression format.CompressionType) ([]byte, error) {
	return Compress(b.buf.Bytes(), compression)
}

// writeString writes a length-prefixed string choosing the narrowest length
// field. baseTag is the uint8 variant of the tag family.
func (b *Builder) writeString(s string, baseTag byte) {
	switch {
	case len(s) <= math.MaxUint8:
		b.buf.MustWrite([]byte{baseTag, byte(len(s))})
	case len(s) <= math.MaxUint16:
		b.buf.MustWrite([]byte{baseTag + 1})
		b.buf.MustWrite(engine.AppendUint16(nil, uint16(len(s)))) //nolint:gosec
	default:
		b.buf.MustWrite([]byte{baseTag + 2})
		b.buf.MustWrite(endian.AppendInt32(engine, nil, int32(len(s)))) //nolint:gosec
	}
	b.buf.MustWrite([]byte(s))
}

func (b *Builder) writeDelta(delta int64) {
	switch {
	case delta >= math.MinInt8 && delta <= math.MaxInt8:
		b.buf.MustWrite([]byte{ir.TagTimestampDeltaByte, byte(int8(delta))})
	case delta >= math.MinInt16 && delta <= math.MaxInt16:
		b.buf.MustWrite([]byte{ir.TagTimestampDeltaShort})
		b.buf.MustWrite(endian.AppendInt16(engine, nil, int16(delta)))
	case delta >= math.MinInt32 && delta <= math.MaxInt32:
		b.buf.MustWrite([]byte{ir.TagTimestampDeltaInt})
		b.buf.MustWrite(endian.AppendInt32(engine, nil, int32(delta)))
	default:
		b.buf.MustWrite([]byte{ir.TagTimestampDeltaLong})
		b.buf.MustWrite(endian.AppendInt64(engine, nil, delta))
	}
}

// EscapeLogtype escapes the placeholder and escape characters in text.
func EscapeLogtype(text string) string {
	var sb strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case ir.PlaceholderInteger, ir.PlaceholderDictionary, ir.PlaceholderFloat, ir.PlaceholderEscape:
			sb.WriteByte(ir.PlaceholderEscape)
		}
		sb.WriteByte(c)
	}

	return sb.String()
}

// EncodeFloat encodes a decimal string such as "-12.05" as a four-byte float
// variable.
func EncodeFloat(text string) (int32, error) {
	negative := strings.HasPrefix(text, "-")
	body := strings.TrimPrefix(text, "-")

	dot := strings.IndexByte(body, '.')
	if dot < 0 || strings.Count(body, ".") != 1 {
		return 0, fmt.Errorf("irtest: %q is not a decimal float", text)
	}

	digitsText := body[:dot] + body[dot+1:]
	numDigits := len(digitsText)
	decimalPos := len(body) - dot - 1
	if numDigits == 0 || numDigits > 8 || decimalPos == 0 {
		return 0, fmt.Errorf("irtest: %q cannot be encoded", text)
	}

	digits, err := strconv.ParseUint(digitsText, 10, 32)
	if err != nil || digits >= 1<<25 {
		return 0, fmt.Errorf("irtest: %q has invalid digits", text)
	}

	bits := uint32(0)
	if negative {
		bits = 1
	}
	bits = bits<<25 | uint32(digits)
	bits = bits<<3 | uint32(numDigits-1) //nolint:gosec
	bits = bits<<3 | uint32(decimalPos-1) //nolint:gosec

	return int32(bits), nil //nolint:gosec
}

// Compress wraps data with the given compression.
func Compress(data []byte, compression format.CompressionType) ([]byte, error) {
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	w, err := codec.NewWriter(&out)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}
