package popad

import (
	"bytes"
	"errors"
	"testing"
)

func TestPadUnpadRoundTrip(t *testing.T) {
	const blkSize = 16

	// every interesting length: empty, short, one below/at/above the block
	// boundary, and multi-block
	for size := 0; size <= 48; size++ {
		data := bytes.Repeat([]byte{'x'}, size)

		padded := Pad(data, blkSize)

		if len(padded)%blkSize != 0 {
			t.Errorf("len(Pad(%d bytes)) = %d, not a multiple of %d",
				size, len(padded), blkSize)
		}

		gain := len(padded) - size
		if gain < 1 || gain > blkSize {
			t.Errorf("Pad added %d bytes for input of %d, want 1..%d",
				gain, size, blkSize)
		}

		unpadded, err := Unpad(padded, blkSize)
		if err != nil {
			t.Fatalf("Unpad(Pad(%d bytes)): unexpected error: %s", size, err)
		}
		if !bytes.Equal(unpadded, data) {
			t.Errorf("Unpad(Pad(%d bytes)) differs from the input", size)
		}
	}
}

func TestPadAlignedInputGainsWholeBlock(t *testing.T) {
	const blkSize = 16

	data := []byte("abcdefabcdefabcd") // exactly one block

	padded := Pad(data, blkSize)
	if len(padded) != len(data)+blkSize {
		t.Fatalf("len(Pad(aligned)) = %d, want %d", len(padded), len(data)+blkSize)
	}

	want := append(append([]byte{}, data...), bytes.Repeat([]byte{blkSize}, blkSize)...)
	if !bytes.Equal(padded, want) {
		t.Errorf("Pad(aligned) = %x, want %x", padded, want)
	}
}

func TestUnpadRejectsMalformedPadding(t *testing.T) {
	const blkSize = 16

	tests := []struct {
		name string
		data []byte
	}{
		{
			// pad byte 0 is outside [1..blockSize]
			name: "zero pad byte",
			data: bytes.Repeat([]byte{0}, blkSize),
		},
		{
			name: "pad byte above block size",
			data: append(bytes.Repeat([]byte{'x'}, blkSize-1), blkSize+1),
		},
		{
			name: "pad longer than input",
			data: []byte{5, 5, 5},
		},
		{
			name: "trailing bytes disagree",
			data: append(bytes.Repeat([]byte{'x'}, blkSize-3), 2, 3, 3),
		},
		{
			name: "empty input",
			data: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unpad(tt.data, blkSize)
			if !errors.Is(err, ErrBadPadding) {
				t.Errorf("Unpad(%x) error = %v, want ErrBadPadding", tt.data, err)
			}
		})
	}
}

func TestUnpadFullBlockOfPadding(t *testing.T) {
	const blkSize = 16

	unpadded, err := Unpad(bytes.Repeat([]byte{blkSize}, blkSize), blkSize)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(unpadded) != 0 {
		t.Errorf("got %d bytes, want an empty result", len(unpadded))
	}
}
