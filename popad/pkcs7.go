// Package popad implements PKCS#7 padding as used by CBC block ciphers.
package popad

import (
	"errors"
	"fmt"
)

// ErrBadPadding reports that a buffer does not end with valid PKCS#7
// padding.
var ErrBadPadding = errors.New("bad PKCS#7 padding")

// Pad appends PKCS#7 padding to data so that its length becomes a multiple
// of blkSize. The pad is always added: an input whose length is already a
// multiple of blkSize gains a whole block of padding. Without that extra
// block the receiver could not tell whether the trailing bytes of an
// aligned message are padding or plaintext.
// Pad does not modify the input slice; it returns a new slice with the
// padded data.
func Pad(data []byte, blkSize int) []byte {
	var (
		dLen   = len(data)
		pad    = blkSize - dLen%blkSize
		padded = make([]byte, dLen+pad)
	)
	copy(padded, data)

	for i := dLen; i < len(padded); i++ {
		padded[i] = byte(pad)
	}

	return padded
}

// Unpad validates and strips the PKCS#7 padding of data. The last byte
// holds the pad length p, which must be in [1..blkSize], and the trailing
// p bytes must all equal p; any violation returns ErrBadPadding.
// Unpad does not modify the input slice; the returned slice aliases data.
func Unpad(data []byte, blkSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrBadPadding)
	}

	pad := int(data[len(data)-1])
	if pad < 1 || pad > blkSize {
		return nil, fmt.Errorf("%w: pad byte %d out of range [1..%d]",
			ErrBadPadding, pad, blkSize)
	}
	if pad > len(data) {
		return nil, fmt.Errorf("%w: pad length %d exceeds input length %d",
			ErrBadPadding, pad, len(data))
	}

	for _, b := range data[len(data)-pad:] {
		if b != byte(pad) {
			return nil, fmt.Errorf("%w: trailing bytes are not all %#02x",
				ErrBadPadding, pad)
		}
	}

	return data[:len(data)-pad], nil
}
