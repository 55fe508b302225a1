package pocrack

import (
	"context"
	"fmt"
)

// ConfirmOracle checks that the supplied predicate really behaves like a
// padding oracle before a long attack is committed to it. cipherText and
// iv must be a known-good pair, e.g. a message captured from the target.
//
// Two checks: the untouched ciphertext must report valid padding, and
// tampering with the last byte of the second-to-last block must produce at
// least one invalid-padding verdict. The tamper is tried with several byte
// values because a single try can accidentally land on another valid pad
// (an original ending …02 01 tampered into …02 02 still passes).
func (c *Cracker) ConfirmOracle(ctx context.Context, cipherText, iv []byte) error {
	if len(iv) != c.blkSize {
		const errStr = "%w: iv length %d does not match block size %d"
		return fmt.Errorf(errStr, ErrInvalidInput, len(iv), c.blkSize)
	}
	if len(cipherText) == 0 || len(cipherText)%c.blkSize != 0 {
		const errStr = "%w: cipher text length %d is not a positive multiple of block size %d"
		return fmt.Errorf(errStr, ErrInvalidInput, len(cipherText), c.blkSize)
	}

	full := make([]byte, 0, len(iv)+len(cipherText))
	full = append(full, iv...)
	full = append(full, cipherText...)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("preflight cancelled: %w", err)
	}
	ok, err := c.oracle(full)
	if err != nil {
		return fmt.Errorf("oracle query: %w", err)
	}
	if !ok {
		return fmt.Errorf("supplied cipher text itself reports invalid padding; it cannot seed the preflight")
	}

	var (
		tamperPos = len(full) - c.blkSize - 1
		origByte  = full[tamperPos]
	)
	for i := 0; i < 4; i++ {
		if byte(i) == origByte {
			continue
		}

		if err := ctx.Err(); err != nil {
			return fmt.Errorf("preflight cancelled: %w", err)
		}

		full[tamperPos] = byte(i)
		ok, err := c.oracle(full)
		if err != nil {
			return fmt.Errorf("oracle query: %w", err)
		}
		if !ok {
			return nil
		}
	}

	return fmt.Errorf("padding oracle not confirmed: tampering the cipher text never produced an invalid-padding verdict")
}
