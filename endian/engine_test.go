package endian

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetEngines(t *testing.T) {
	require.Equal(t, binary.BigEndian, GetBigEndianEngine())
	require.Equal(t, binary.LittleEndian, GetLittleEndianEngine())
}

func TestSignedReads(t *testing.T) {
	engine := GetBigEndianEngine()

	tests := []struct {
		name string
		data []byte
		want int64
		read func([]byte) int64
	}{
		{"int8 negative", []byte{0xFF}, -1, func(b []byte) int64 { return int64(Int8(b)) }},
		{"int8 positive", []byte{0x7F}, 127, func(b []byte) int64 { return int64(Int8(b)) }},
		{"int16 negative", []byte{0xFF, 0x38}, -200, func(b []byte) int64 { return int64(Int16(engine, b)) }},
		{"int16 positive", []byte{0x01, 0x00}, 256, func(b []byte) int64 { return int64(Int16(engine, b)) }},
		{"int32 min", []byte{0x80, 0x00, 0x00, 0x00}, math.MinInt32, func(b []byte) int64 { return int64(Int32(engine, b)) }},
		{"int32 value", []byte{0x00, 0x01, 0x86, 0xA0}, 100000, func(b []byte) int64 { return int64(Int32(engine, b)) }},
		{
			"int64 negative",
			[]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE},
			-2,
			func(b []byte) int64 { return Int64(engine, b) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.read(tt.data))
		})
	}
}

func TestAppendSignedRoundTrip(t *testing.T) {
	engine := GetBigEndianEngine()

	var buf []byte
	buf = AppendInt16(engine, buf, -300)
	buf = AppendInt32(engine, buf, -70000)
	buf = AppendInt64(engine, buf, math.MinInt64)
	require.Len(t, buf, 14)

	require.Equal(t, int16(-300), Int16(engine, buf[0:2]))
	require.Equal(t, int32(-70000), Int32(engine, buf[2:6]))
	require.Equal(t, int64(math.MinInt64), Int64(engine, buf[6:14]))
}
