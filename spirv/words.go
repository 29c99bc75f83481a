package spirv

import (
	"encoding/binary"
	"errors"
	"unicode/utf8"
)

// WordSize is the size of a SPIR-V word in bytes.
const WordSize = 4

// ErrMisaligned is returned when a byte stream is not a whole number of words.
var ErrMisaligned = errors.New("spirv: byte length is not a multiple of the word size")

// ErrUnterminatedString is returned when a literal string has no terminator
// within the words available to it.
var ErrUnterminatedString = errors.New("spirv: literal string is not null-terminated")

// ErrInvalidUTF8 is returned when a literal string is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("spirv: literal string is not valid UTF-8")

// BytesToWords reinterprets data as host-order words. No byte swapping is done.
func BytesToWords(data []byte) ([]uint32, error) {
	if len(data)%WordSize != 0 {
		return nil, ErrMisaligned
	}
	words := make([]uint32, len(data)/WordSize)
	for i := range words {
		words[i] = binary.NativeEndian.Uint32(data[i*WordSize:])
	}
	return words, nil
}

// WordsToBytes serializes words in host order, the inverse of BytesToWords.
func WordsToBytes(words []uint32) []byte {
	data := make([]byte, len(words)*WordSize)
	for i, w := range words {
		binary.NativeEndian.PutUint32(data[i*WordSize:], w)
	}
	return data
}

// StringWordCount returns the number of words a literal string of n bytes
// occupies, including its null terminator and padding.
func StringWordCount(n int) int {
	return (n + 1 + WordSize - 1) / WordSize
}

// DecodeString reads a null-terminated literal string from words, which holds
// the operand words available to it. Characters are packed little-endian
// within each word regardless of host order. It returns the string and the
// number of words consumed.
func DecodeString(words []uint32) (string, int, error) {
	buf := make([]byte, 0, len(words)*WordSize)
	for i, w := range words {
		for shift := 0; shift < 32; shift += 8 {
			c := byte(w >> shift)
			if c == 0 {
				if !utf8.Valid(buf) {
					return "", 0, ErrInvalidUTF8
				}
				return string(buf), i + 1, nil
			}
			buf = append(buf, c)
		}
	}
	return "", 0, ErrUnterminatedString
}

// EncodeString packs s into null-terminated, zero-padded words.
func EncodeString(s string) []uint32 {
	words := make([]uint32, StringWordCount(len(s)))
	for i := 0; i < len(s); i++ {
		words[i/WordSize] |= uint32(s[i]) << (8 * (i % WordSize))
	}
	return words
}
