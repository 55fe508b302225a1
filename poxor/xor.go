// Package poxor provides byte-wise XOR over equal-length blocks.
package poxor

import "fmt"

// Blocks takes two byte slices of equal length, b1 and b2, and returns a new
// byte slice containing the result of a byte-wise XOR operation between
// corresponding elements of b1 and b2.
// Blocks does not modify the input slices.
func Blocks(b1, b2 []byte) ([]byte, error) {
	lb1, lb2 := len(b1), len(b2)
	if lb1 != lb2 {
		errStr := "input blocks are of different lengths: %d and %d"
		return nil, fmt.Errorf(errStr, lb1, lb2)
	}

	xored := make([]byte, lb1)
	for i := range xored {
		xored[i] = b1[i] ^ b2[i]
	}

	return xored, nil
}

// BlocksInto writes the byte-wise XOR of b1 and b2 into dst. All three
// slices must have the same length. It exists so that callers holding a
// preallocated output buffer can avoid an allocation per block.
func BlocksInto(dst, b1, b2 []byte) error {
	if len(b1) != len(b2) || len(dst) != len(b1) {
		errStr := "mismatched block lengths: dst=%d b1=%d b2=%d"
		return fmt.Errorf(errStr, len(dst), len(b1), len(b2))
	}

	for i := range dst {
		dst[i] = b1[i] ^ b2[i]
	}

	return nil
}
