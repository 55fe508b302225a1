// Package pocrack implements a padding-oracle attack engine against
// CBC-mode block ciphers with PKCS#7 padding.
//
// Given only a predicate that reports whether a ciphertext decrypts to
// validly padded plaintext, the engine decrypts arbitrary ciphertexts and
// forges ciphertexts for arbitrary plaintexts, without ever learning the
// key. Both operations are driven by RecoverIntermediate, which rebuilds
// the block cipher's raw decryption of a single block one byte at a time.
package pocrack

import (
	"errors"
	"fmt"
	"io"
	"log"
)

// Oracle is the padding oracle under attack. It receives a ciphertext of at
// least two blocks (a forged predecessor followed by the target block) and
// reports whether the underlying system observed valid PKCS#7 padding after
// decryption. A transport failure is an error, not a verdict; the engine
// aborts on it. The oracle must answer deterministically for the same input
// within one Encrypt or Decrypt call.
type Oracle func(ciphertext []byte) (bool, error)

var (
	// ErrOracleUnavailable reports that no oracle predicate was supplied.
	ErrOracleUnavailable = errors.New("no padding oracle supplied")

	// ErrOracleFailed reports that a byte-recovery loop exhausted all 256
	// candidate bytes without a single valid-padding verdict. The predicate
	// is broken, flaky, or not a padding oracle for this scheme.
	ErrOracleFailed = errors.New("oracle rejected all 256 candidate bytes")

	// ErrInvalidInput reports a malformed argument: a wrong-length IV or
	// block, a ciphertext whose length is not a positive multiple of the
	// block size, or an out-of-range block size or parallelism option.
	ErrInvalidInput = errors.New("invalid input")
)

// Cracker is the attack engine. It holds no state beyond its configuration;
// all working buffers live within a single call, so a Cracker is safe for
// concurrent use by disjoint calls.
type Cracker struct {
	oracle   Oracle
	blkSize  int
	parallel int
	logger   *log.Logger
}

// Option configures a Cracker at construction time.
type Option func(*Cracker) error

// WithBlockSize sets the cipher's block size in bytes. It must be in
// [1..255], because a PKCS#7 pad byte has to hold the pad length. The
// default is 16, AES's block size.
func WithBlockSize(n int) Option {
	return func(c *Cracker) error {
		if n < 1 || n > 255 {
			const errStr = "%w: block size %d outside [1..255]"
			return fmt.Errorf(errStr, ErrInvalidInput, n)
		}
		c.blkSize = n
		return nil
	}
}

// WithParallelism bounds how many ciphertext blocks Decrypt recovers
// concurrently. The byte-by-byte loop within one block is inherently
// sequential, so this only helps multi-block ciphertexts. The default of 1
// keeps the oracle load predictable; raise it only if the oracle tolerates
// concurrent queries.
func WithParallelism(n int) Option {
	return func(c *Cracker) error {
		if n < 1 {
			const errStr = "%w: parallelism %d must be at least 1"
			return fmt.Errorf(errStr, ErrInvalidInput, n)
		}
		c.parallel = n
		return nil
	}
}

// WithLogger directs attack progress to l. Progress is discarded by
// default.
func WithLogger(l *log.Logger) Option {
	return func(c *Cracker) error {
		c.logger = l
		return nil
	}
}

// New constructs a Cracker around the given oracle. It returns
// ErrOracleUnavailable if oracle is nil.
func New(oracle Oracle, opts ...Option) (*Cracker, error) {
	if oracle == nil {
		return nil, ErrOracleUnavailable
	}

	c := &Cracker{
		oracle:   oracle,
		blkSize:  16,
		parallel: 1,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// BlockSize returns the block size the Cracker was configured with.
func (c *Cracker) BlockSize() int {
	return c.blkSize
}
