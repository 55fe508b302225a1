package pocrack

import (
	"context"
	"fmt"

	"github.com/alesforz/padoracle/pobytes"
	"github.com/alesforz/padoracle/popad"
	"github.com/alesforz/padoracle/poxor"
)

// Encrypt forges a ciphertext that the oracle's underlying key decrypts
// back to plainText. The returned buffer is IV || ciphertext: one block
// longer than the padded plaintext, with the forged IV in front.
//
// The trick is that RecoverIntermediate works on any block, including one
// we invent: pick a random last ciphertext block, learn its intermediate
// state I, and the predecessor I ^ P makes the pair decrypt to exactly the
// plaintext block P. Each forged predecessor then serves as the next
// target, walking back to front until the forged IV falls out. The walk is
// strictly sequential: block i's target is the block forged at step i+1.
func (c *Cracker) Encrypt(ctx context.Context, plainText []byte) ([]byte, error) {
	var (
		padded  = popad.Pad(plainText, c.blkSize)
		nBlocks = len(padded) / c.blkSize

		// one extra block in front for the forged IV
		out = make([]byte, len(padded)+c.blkSize)
	)

	// The last ciphertext block is arbitrary; its plaintext is controlled
	// entirely through its forged predecessor.
	tail, err := pobytes.RandomNonZero(c.blkSize)
	if err != nil {
		return nil, fmt.Errorf("generating last cipher text block: %s", err)
	}
	copy(out[nBlocks*c.blkSize:], tail)

	for i := nBlocks - 1; i >= 0; i-- {
		var (
			curr = out[(i+1)*c.blkSize : (i+2)*c.blkSize]
			prev = out[i*c.blkSize : (i+1)*c.blkSize]
		)
		inter, err := c.RecoverIntermediate(ctx, curr)
		if err != nil {
			return nil, fmt.Errorf("forging predecessor of block %d: %w", i+1, err)
		}

		plainBlk := padded[i*c.blkSize : (i+1)*c.blkSize]
		if err := poxor.BlocksInto(prev, inter, plainBlk); err != nil {
			return nil, err
		}

		c.logger.Printf("forged block %d of %d", nBlocks-i, nBlocks)
	}

	return out, nil
}
