package poxor

import (
	"bytes"
	"testing"
)

func TestBlocks(t *testing.T) {
	var (
		b1 = []byte{0x00, 0xff, 0xaa, 0x0f}
		b2 = []byte{0xff, 0xff, 0x55, 0xf0}
	)

	xored, err := Blocks(b1, b2)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	want := []byte{0xff, 0x00, 0xff, 0xff}
	if !bytes.Equal(xored, want) {
		t.Errorf("Blocks = %x, want %x", xored, want)
	}

	// xoring back must restore the original
	restored, err := Blocks(xored, b2)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !bytes.Equal(restored, b1) {
		t.Errorf("Blocks(Blocks(b1,b2),b2) = %x, want %x", restored, b1)
	}
}

func TestBlocksLengthMismatch(t *testing.T) {
	if _, err := Blocks([]byte{1, 2}, []byte{1}); err == nil {
		t.Error("expected an error for blocks of different lengths")
	}
}

func TestBlocksInto(t *testing.T) {
	var (
		b1  = []byte{0x01, 0x02, 0x03}
		b2  = []byte{0xf0, 0x0f, 0xff}
		dst = make([]byte, 3)
	)

	if err := BlocksInto(dst, b1, b2); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	want := []byte{0xf1, 0x0d, 0xfc}
	if !bytes.Equal(dst, want) {
		t.Errorf("BlocksInto wrote %x, want %x", dst, want)
	}

	if err := BlocksInto(dst[:2], b1, b2); err == nil {
		t.Error("expected an error for a short destination")
	}
}
