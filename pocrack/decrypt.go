package pocrack

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/alesforz/padoracle/pobytes"
	"github.com/alesforz/padoracle/popad"
	"github.com/alesforz/padoracle/poxor"
)

// Decrypt recovers the plaintext of cipherText through the padding oracle,
// without knowledge of the key. iv must be exactly one block; cipherText's
// length must be a positive multiple of the block size (the IV is passed
// separately, not as the first block).
//
// Each ciphertext block's intermediate state is recovered independently and
// XORed with its predecessor (the IV for the first block). Blocks are
// processed through a pool bounded by WithParallelism; with the default of
// 1 the recovery is fully sequential.
//
// Decrypt returns both the cleartext with its PKCS#7 padding stripped and
// the raw padded plaintext. If the recovered plaintext does not end in
// valid padding (a corrupt input, or an oracle that answered
// inconsistently) the error wraps popad.ErrBadPadding.
func (c *Cracker) Decrypt(ctx context.Context, cipherText, iv []byte) (clearText, padded []byte, err error) {
	if len(iv) != c.blkSize {
		const errStr = "%w: iv length %d does not match block size %d"
		return nil, nil, fmt.Errorf(errStr, ErrInvalidInput, len(iv), c.blkSize)
	}
	if len(cipherText) == 0 || len(cipherText)%c.blkSize != 0 {
		const errStr = "%w: cipher text length %d is not a positive multiple of block size %d"
		return nil, nil, fmt.Errorf(errStr, ErrInvalidInput, len(cipherText), c.blkSize)
	}

	blocks, err := pobytes.ToChunks(cipherText, c.blkSize)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	padded = make([]byte, len(cipherText))

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(c.parallel)

	for i, blk := range blocks {
		i, blk := i, blk
		// The predecessor in the CBC stream: the IV for the first block,
		// the previous ciphertext block for the rest.
		prev := iv
		if i > 0 {
			prev = blocks[i-1]
		}

		grp.Go(func() error {
			inter, err := c.RecoverIntermediate(grpCtx, blk)
			if err != nil {
				return fmt.Errorf("recovering block %d: %w", i+1, err)
			}
			c.logger.Printf("decrypted block %d of %d", i+1, len(blocks))

			plainBlk := padded[i*c.blkSize : (i+1)*c.blkSize]
			return poxor.BlocksInto(plainBlk, prev, inter)
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, nil, err
	}

	clearText, err = popad.Unpad(padded, c.blkSize)
	if err != nil {
		return nil, nil, err
	}

	return clearText, padded, nil
}
