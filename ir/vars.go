package ir

import (
	"fmt"

	"github.com/arloliu/clpir/errs"
)

// Bit layout of a four-byte encoded float, from the least significant bit:
// decimal point position - 1, number of digits - 1, digits, sign.
const (
	floatDecimalPosBits = 3
	floatNumDigitsBits  = 3
	floatDigitsBits     = 25

	floatDecimalPosMask = 1<<floatDecimalPosBits - 1
	floatNumDigitsMask  = 1<<floatNumDigitsBits - 1
	floatDigitsMask     = 1<<floatDigitsBits - 1
)

// DecodeFloatVar converts a four-byte encoded float variable into its text.
func DecodeFloatVar(v int32) (string, error) {
	out, err := AppendFloatVar(nil, v)
	if err != nil {
		return "", err
	}

	return string(out), nil
}

// AppendFloatVar appends the text of a four-byte encoded float variable to dst.
//
// The decimal point position counts digits to its right, so "-12.05" is stored
// as digits 1205, four digits, position two, sign bit set. Leading zeros are
// part of the digit count ("0.5" has two digits).
func AppendFloatVar(dst []byte, v int32) ([]byte, error) {
	bits := uint32(v) //nolint:gosec

	decimalPos := int(bits&floatDecimalPosMask) + 1
	bits >>= floatDecimalPosBits
	numDigits := int(bits&floatNumDigitsMask) + 1
	bits >>= floatNumDigitsBits
	digits := bits & floatDigitsMask
	bits >>= floatDigitsBits
	negative := int(bits & 1)

	if decimalPos > numDigits {
		return dst, fmt.Errorf("%w: float decimal position %d exceeds %d digits", errs.ErrCorruptedIR, decimalPos, numDigits)
	}

	valueLength := numDigits + 1 + negative
	decimalIdx := valueLength - 1 - decimalPos

	start := len(dst)
	for range valueLength {
		dst = append(dst, 0)
	}
	value := dst[start:]

	if negative == 1 {
		value[0] = '-'
	}
	for i := valueLength - 1; i >= negative; i-- {
		if i == decimalIdx {
			value[i] = '.'
			continue
		}
		value[i] = byte('0' + digits%10)
		digits /= 10
	}

	if digits != 0 {
		return dst[:start], fmt.Errorf("%w: float digits exceed the declared digit count", errs.ErrCorruptedIR)
	}

	return dst, nil
}
