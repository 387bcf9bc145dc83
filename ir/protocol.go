package ir

import "github.com/arloliu/clpir/endian"

// Magic numbers identifying the IR encoding flavour.
var (
	FourByteEncodingMagicNumber  = [MagicNumberLength]byte{0xFD, 0x2F, 0xB5, 0x29}
	EightByteEncodingMagicNumber = [MagicNumberLength]byte{0xFD, 0x2F, 0xB5, 0x30}
)

const MagicNumberLength = 4

// Preamble tags.
const (
	MetadataJSONEncoding byte = 0x01
	MetadataLengthUByte  byte = 0x11
	MetadataLengthUShort byte = 0x12
)

// Record tags.
const (
	TagEndOfStream byte = 0x00

	TagVarStrLenUByte  byte = 0x11
	TagVarStrLenUShort byte = 0x12
	TagVarStrLenInt    byte = 0x13
	TagVarFourByteEnc  byte = 0x18

	TagLogtypeStrLenUByte  byte = 0x21
	TagLogtypeStrLenUShort byte = 0x22
	TagLogtypeStrLenInt    byte = 0x23

	TagTimestampDeltaByte  byte = 0x31
	TagTimestampDeltaShort byte = 0x32
	TagTimestampDeltaInt   byte = 0x33
	TagTimestampDeltaLong  byte = 0x34
)

// Placeholders embedded in a logtype.
const (
	PlaceholderInteger    byte = 0x11
	PlaceholderDictionary byte = 0x12
	PlaceholderFloat      byte = 0x13
	PlaceholderEscape     byte = '\\'
)

// Metadata JSON keys.
const (
	MetadataVersionKey                = "VERSION"
	MetadataReferenceTimestampKey     = "REFERENCE_TIMESTAMP"
	MetadataTimestampPatternKey       = "TIMESTAMP_PATTERN"
	MetadataTimestampPatternSyntaxKey = "TIMESTAMP_PATTERN_SYNTAX"
	MetadataTimezoneIDKey             = "TZ_ID"
)

var engine = endian.GetBigEndianEngine()
