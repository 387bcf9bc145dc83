// Package endian provides the byte order helpers used by the IR codec.
//
// CLP IR stores every multi-byte integer in network byte order. The package
// combines binary.ByteOrder and binary.AppendByteOrder into EndianEngine so the
// same value serves both the decoder (fixed-width reads) and the test stream
// builder (appends), and adds signed readers for the two's complement fields
// found in the record headers.
//
//	engine := endian.GetBigEndianEngine()
//	length := engine.Uint16(data[1:3])
//	delta := endian.Int32(engine, data[1:5])
//
// All functions are safe for concurrent use; engines are stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// binary.BigEndian and binary.LittleEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetBigEndianEngine returns the big-endian engine, the byte order of CLP IR.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// Int8 interprets the first byte of b as a two's complement integer.
func Int8(b []byte) int8 {
	return int8(b[0]) //nolint:gosec
}

// Int16 reads a two's complement 16-bit integer using engine.
func Int16(engine EndianEngine, b []byte) int16 {
	return int16(engine.Uint16(b)) //nolint:gosec
}

// Int32 reads a two's complement 32-bit integer using engine.
func Int32(engine EndianEngine, b []byte) int32 {
	return int32(engine.Uint32(b)) //nolint:gosec
}

// Int64 reads a two's complement 64-bit integer using engine.
func Int64(engine EndianEngine, b []byte) int64 {
	return int64(engine.Uint64(b)) //nolint:gosec
}

// AppendInt16 appends v in the byte order of engine.
func AppendInt16(engine EndianEngine, b []byte, v int16) []byte {
	return engine.AppendUint16(b, uint16(v)) //nolint:gosec
}

// AppendInt32 appends v in the byte order of engine.
func AppendInt32(engine EndianEngine, b []byte, v int32) []byte {
	return engine.AppendUint32(b, uint32(v)) //nolint:gosec
}

// AppendInt64 appends v in the byte order of engine.
func AppendInt64(engine EndianEngine, b []byte, v int64) []byte {
	return engine.AppendUint64(b, uint64(v)) //nolint:gosec
}
