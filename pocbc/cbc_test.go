package pocbc

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"testing"

	"github.com/alesforz/padoracle/popad"
)

var (
	testKey = []byte("SuperSecretSauce")
	testIV  = []byte("0123456789abcdef")
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plainTexts := [][]byte{
		{},
		[]byte("a"),
		[]byte("hello, world"),
		[]byte("abcdefabcdefabcd"), // exactly one block
		bytes.Repeat([]byte("x"), 100),
	}
	for _, plainText := range plainTexts {
		cipherText, err := Encrypt(testIV, plainText, testKey)
		if err != nil {
			t.Fatalf("Encrypt(%q): unexpected error: %s", plainText, err)
		}

		padded, err := Decrypt(testIV, cipherText, testKey)
		if err != nil {
			t.Fatalf("Decrypt: unexpected error: %s", err)
		}

		decrypted, err := popad.Unpad(padded, aes.BlockSize)
		if err != nil {
			t.Fatalf("unpadding decrypted text: %s", err)
		}
		if !bytes.Equal(decrypted, plainText) {
			t.Errorf("round trip of %q produced %q", plainText, decrypted)
		}
	}
}

// The hand-rolled CBC loop must agree with the standard library's block
// mode on the same key, IV, and padded input.
func TestEncryptMatchesStdlibCBC(t *testing.T) {
	plainText := []byte("attack at dawn, bring the oracle")

	cipherText, err := Encrypt(testIV, plainText, testKey)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	block, err := aes.NewCipher(testKey)
	if err != nil {
		t.Fatalf("initializing reference cipher: %s", err)
	}

	var (
		padded = popad.Pad(plainText, aes.BlockSize)
		want   = make([]byte, len(padded))
	)
	cipher.NewCBCEncrypter(block, testIV).CryptBlocks(want, padded)

	if !bytes.Equal(cipherText, want) {
		t.Errorf("Encrypt = %x\nstdlib CBC = %x", cipherText, want)
	}
}

func TestEncryptRejectsBadInputs(t *testing.T) {
	if _, err := Encrypt(testIV[:5], []byte("x"), testKey); err == nil {
		t.Error("expected an error for a short IV")
	}
	if _, err := Encrypt(testIV, []byte("x"), []byte("short")); err == nil {
		t.Error("expected an error for a bad key length")
	}
	if _, err := Decrypt(testIV, []byte("not a block"), testKey); err == nil {
		t.Error("expected an error for a non-block-multiple cipher text")
	}
	if _, err := Decrypt(testIV, nil, testKey); err == nil {
		t.Error("expected an error for an empty cipher text")
	}
}

func TestNewOracleVerdicts(t *testing.T) {
	oracle := NewOracle(testKey)

	cipherText, err := Encrypt(testIV, []byte("abc"), testKey)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	payload := append(append([]byte{}, testIV...), cipherText...)

	valid, err := oracle(payload)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !valid {
		t.Error("oracle rejected a well-padded cipher text")
	}

	// Flipping the IV's last byte flips the plaintext's pad byte from 0x0d
	// to 0x0c while the bytes before it still read 0x0d, so the padding
	// check must fail.
	payload[aes.BlockSize-1] ^= 1
	valid, err = oracle(payload)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if valid {
		t.Error("oracle accepted a tampered cipher text")
	}

	if _, err := oracle(testIV); err == nil {
		t.Error("expected an error for an input shorter than two blocks")
	}
}
