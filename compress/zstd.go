package compress

// ZstdCompressor provides Zstandard stream (de)compression.
//
// This is the default outer layer of CLP IR files. The pure Go implementation from
// klauspost/compress is used unless the module is built with the "gozstd" tag and
// cgo enabled, in which case the reference C implementation is used instead.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
