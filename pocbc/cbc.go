// Package pocbc implements AES in CBC mode with PKCS#7 padding.
//
// It is the in-process counterpart of the systems the attack engine is
// aimed at: the demonstration server decrypts with it, and the engine's
// tests build local padding oracles from it. It is deliberately vulnerable
// to padding-oracle attacks; do not use it to protect anything.
package pocbc

import (
	"crypto/aes"
	"fmt"

	"github.com/alesforz/padoracle/popad"
	"github.com/alesforz/padoracle/poxor"
)

// Encrypt encrypts plainText with AES-CBC under key, using iv as the
// initialization vector. The plain text is PKCS#7-padded first, so the
// cipher text is always at least one block long. The returned cipher text
// does not include the IV.
// Encrypt does not modify the input slices.
func Encrypt(iv, plainText, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("initializing cipher: %s", err)
	}

	blkSize := block.BlockSize()
	if len(iv) != blkSize {
		const errStr = "iv length (%d) does not match the block size (%d)"
		return nil, fmt.Errorf(errStr, len(iv), blkSize)
	}

	var (
		padded     = popad.Pad(plainText, blkSize)
		nBlocks    = len(padded) / blkSize
		cipherText = make([]byte, len(padded))
		prevBlk    = iv
	)
	for i := 0; i < nBlocks; i++ {
		var (
			blkStart = i * blkSize
			blkEnd   = blkStart + blkSize
			currBlk  = cipherText[blkStart:blkEnd]
		)
		// CBC chains each plain text block with the previous cipher text
		// block (the IV for the first) before the block encryption.
		if err := poxor.BlocksInto(currBlk, padded[blkStart:blkEnd], prevBlk); err != nil {
			return nil, fmt.Errorf("xor plain text block %d: %s", i, err)
		}

		block.Encrypt(currBlk, currBlk)
		prevBlk = currBlk
	}

	return cipherText, nil
}

// Decrypt decrypts cipherText with AES-CBC under key, using iv as the
// initialization vector. The plain text it returns retains the PKCS#7
// padding; it's up to the caller to validate and remove it.
// Decrypt does not modify the input slices.
func Decrypt(iv, cipherText, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("initializing cipher: %s", err)
	}

	blkSize := block.BlockSize()
	if len(iv) != blkSize {
		const errStr = "iv length (%d) does not match the block size (%d)"
		return nil, fmt.Errorf(errStr, len(iv), blkSize)
	}
	if len(cipherText) == 0 || len(cipherText)%blkSize != 0 {
		const errStr = "cipher text's length (%d) is not a positive multiple of the block size (%d)"
		return nil, fmt.Errorf(errStr, len(cipherText), blkSize)
	}

	var (
		nBlocks   = len(cipherText) / blkSize
		plainText = make([]byte, len(cipherText))
		prevBlk   = iv
	)
	for i := 0; i < nBlocks; i++ {
		var (
			blkStart = i * blkSize
			blkEnd   = blkStart + blkSize
			currBlk  = cipherText[blkStart:blkEnd]
			plainBlk = plainText[blkStart:blkEnd]
		)
		block.Decrypt(plainBlk, currBlk)

		if err := poxor.BlocksInto(plainBlk, plainBlk, prevBlk); err != nil {
			return nil, fmt.Errorf("xor cipher text block %d: %s", i, err)
		}
		prevBlk = currBlk
	}

	return plainText, nil
}

// NewOracle returns a padding oracle backed by an in-process AES-CBC
// decryption under key. The oracle treats the first block of its input as
// the IV and the rest as cipher text, decrypts, and reports whether the
// result carries valid PKCS#7 padding. It leaks exactly the one bit a
// vulnerable remote system would.
func NewOracle(key []byte) func(ciphertext []byte) (bool, error) {
	return func(ciphertext []byte) (bool, error) {
		blkSize := aes.BlockSize
		if len(ciphertext) < 2*blkSize || len(ciphertext)%blkSize != 0 {
			const errStr = "oracle input length %d is not at least two blocks of %d"
			return false, fmt.Errorf(errStr, len(ciphertext), blkSize)
		}

		plainText, err := Decrypt(ciphertext[:blkSize], ciphertext[blkSize:], key)
		if err != nil {
			return false, err
		}

		_, err = popad.Unpad(plainText, blkSize)
		return err == nil, nil
	}
}
