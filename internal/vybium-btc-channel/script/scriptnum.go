package script

import "fmt"

const (
	// DefaultNumLen is the maximum byte length of a script number operand
	DefaultNumLen = 4
)

// Num is a script number: a little-endian, sign-magnitude integer whose
// most significant bit of the last byte carries the sign. Results of
// arithmetic may exceed 4 bytes but operands may not.
type Num int64

// checkMinimalNumEncoding returns an error if the encoding is not the
// shortest possible one. This also rejects negative zero (0x80).
func checkMinimalNumEncoding(v []byte) error {
	if len(v) == 0 {
		return nil
	}

	// The most significant byte may only be 0x00 or 0x80 when the byte
	// before it has its high bit set, otherwise the sign could have been
	// folded into the shorter encoding.
	if v[len(v)-1]&0x7f == 0 {
		if len(v) == 1 || v[len(v)-2]&0x80 == 0 {
			return scriptError(ErrMinimalData, fmt.Sprintf(
				"numeric value encoded as %x is not minimally encoded", v))
		}
	}
	return nil
}

// MakeNum interprets the passed bytes as a script number. An error is
// returned when the value is longer than numLen or, when requireMinimal is
// set, not minimally encoded.
func MakeNum(v []byte, requireMinimal bool, numLen int) (Num, error) {
	if len(v) > numLen {
		return 0, scriptError(ErrNumberTooBig, fmt.Sprintf(
			"numeric value encoded as %x is %d bytes which exceeds the max allowed of %d",
			v, len(v), numLen))
	}
	if requireMinimal {
		if err := checkMinimalNumEncoding(v); err != nil {
			return 0, err
		}
	}
	if len(v) == 0 {
		return 0, nil
	}

	var result int64
	for i, b := range v {
		result |= int64(b) << uint8(8*i)
	}

	if v[len(v)-1]&0x80 != 0 {
		result &= ^(int64(0x80) << uint8(8*(len(v)-1)))
		return Num(-result), nil
	}
	return Num(result), nil
}

// Bytes returns the minimal encoding of the number
func (n Num) Bytes() []byte {
	if n == 0 {
		return nil
	}

	isNegative := n < 0
	if isNegative {
		n = -n
	}

	result := make([]byte, 0, 9)
	for n > 0 {
		result = append(result, byte(n&0xff))
		n >>= 8
	}

	// An extra byte carries the sign when the high bit is already used by
	// the magnitude.
	if result[len(result)-1]&0x80 != 0 {
		extraByte := byte(0x00)
		if isNegative {
			extraByte = 0x80
		}
		result = append(result, extraByte)
	} else if isNegative {
		result[len(result)-1] |= 0x80
	}

	return result
}

// Int32 clamps the number to the int32 range
func (n Num) Int32() int32 {
	if n > Num(maxInt32) {
		return maxInt32
	}
	if n < Num(minInt32) {
		return minInt32
	}
	return int32(n)
}

const (
	maxInt32 = 1<<31 - 1
	minInt32 = -1 << 31
)
