// Package pobytes provides byte-slice helpers shared by the attack engine:
// splitting buffers into cipher blocks and generating random blocks.
package pobytes

import (
	"crypto/rand"
	"errors"
	"fmt"
)

// ToChunks splits the input data into chunks of the specified size.
// It expects the length of the input data to be a multiple of the chunk
// size. It returns a slice of byte slices, where each slice aliases a chunk
// of the input data.
func ToChunks(data []byte, chunkSize int) ([][]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("data is empty")
	}
	if chunkSize <= 0 {
		return nil, errors.New("chunk size must be greater than 0")
	}
	if len(data)%chunkSize != 0 {
		return nil, errors.New("data length is not a multiple of chunk size")
	}

	var (
		nChunks = len(data) / chunkSize
		chunks  = make([][]byte, 0, nChunks)
	)
	for i := 0; i < len(data); i += chunkSize {
		chunks = append(chunks, data[i:i+chunkSize])
	}

	return chunks, nil
}

// RandomNonZero returns a slice of n cryptographically random bytes, none
// of which is zero. The attack seeds its forged blocks with such slices: an
// all-zero region in a fresh forged block makes an accidental longer pad
// more likely during the pad-length disambiguation step.
func RandomNonZero(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid length %d", n)
	}

	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("filling buffer with random bytes: %v", err)
	}

	// Re-draw any zero byte until the whole buffer is non-zero.
	one := make([]byte, 1)
	for i := range buf {
		for buf[i] == 0 {
			if _, err := rand.Read(one); err != nil {
				return nil, fmt.Errorf("re-drawing zero byte: %v", err)
			}
			buf[i] = one[0]
		}
	}

	return buf, nil
}
