// Package base62 encodes unsigned integers into short URL-safe strings.
//
// The alphabet is [0-9a-zA-Z], most significant digit first, no padding.
// Unlike base64 it contains no characters that need escaping in a URL path.
package base62

import (
	"errors"
	"math"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const base = uint64(62)

var (
	// ErrInvalidCharacter is returned when the input contains a byte
	// outside the base62 alphabet.
	ErrInvalidCharacter = errors.New("invalid character in base62 string")

	// ErrOverflow is returned when the decoded value does not fit in uint64.
	ErrOverflow = errors.New("decoded value exceeds uint64 range")
)

// charToValue maps an alphabet byte to its value, -1 for foreign bytes.
var charToValue [256]int8

func init() {
	for i := range charToValue {
		charToValue[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		charToValue[alphabet[i]] = int8(i)
	}
}

// Encode converts num to its base62 representation.
// Encoding is injective: distinct inputs always produce distinct strings.
func Encode(num uint64) string {
	if num == 0 {
		return "0"
	}

	var buf [11]byte // ceil(64 / log2(62)) = 11 digits max
	i := len(buf)
	for num > 0 {
		i--
		buf[i] = alphabet[num%base]
		num /= base
	}

	return string(buf[i:])
}

// Decode is the exact inverse of Encode.
func Decode(str string) (uint64, error) {
	if str == "" {
		return 0, ErrInvalidCharacter
	}

	var result uint64
	for i := 0; i < len(str); i++ {
		v := charToValue[str[i]]
		if v < 0 {
			return 0, ErrInvalidCharacter
		}
		if result > (math.MaxUint64-uint64(v))/base {
			return 0, ErrOverflow
		}
		result = result*base + uint64(v)
	}

	return result, nil
}

// IsValid reports whether every byte of str belongs to the base62 alphabet.
func IsValid(str string) bool {
	for i := 0; i < len(str); i++ {
		if charToValue[str[i]] < 0 {
			return false
		}
	}
	return len(str) > 0
}
