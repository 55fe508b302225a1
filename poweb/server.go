package poweb

import (
	"crypto/aes"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/alesforz/padoracle/pocbc"
	"github.com/alesforz/padoracle/popad"
)

// pbkdf2Iters is the PBKDF2 iteration count for passphrase-derived server
// keys.
const pbkdf2Iters = 4096

// Server is the deliberately vulnerable demonstration endpoint: an HTTP
// service that decrypts client-supplied ciphertexts and tells the client
// whether the padding was valid. That one bit per request is the whole
// attack surface pocrack needs.
//
// Run it only to demonstrate or test the attack.
type Server struct {
	key []byte
}

// NewServer builds a demonstration server around an AES key. The key
// length must be one that crypto/aes accepts (16, 24, or 32 bytes).
func NewServer(key []byte) (*Server, error) {
	if _, err := aes.NewCipher(key); err != nil {
		return nil, fmt.Errorf("unusable server key: %s", err)
	}
	return &Server{key: key}, nil
}

// NewServerFromPassphrase builds a demonstration server whose AES-128 key
// is stretched from a passphrase with PBKDF2-SHA256. Passphrases of any
// length become a usable key this way.
func NewServerFromPassphrase(passphrase, salt string) (*Server, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("empty passphrase")
	}

	key := pbkdf2.Key([]byte(passphrase), []byte(salt), pbkdf2Iters, 16, sha256.New)
	return NewServer(key)
}

// Handler returns the server's routes:
//
//   - GET /payload/{web64}: decode the ciphertext (first block is the IV),
//     decrypt, validate padding. Replies 200 either way; the body reveals
//     which case occurred. This is the padding oracle.
//   - GET /example: encrypt a sample message under a fresh random IV and
//     return it web64-encoded, ready to be attacked.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/payload/", s.handlePayload)
	mux.HandleFunc("/example", s.handleExample)
	return mux
}

func (s *Server) handlePayload(w http.ResponseWriter, r *http.Request) {
	encoded := strings.TrimPrefix(r.URL.Path, "/payload/")

	raw, err := DecodeWeb64(encoded)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(raw) < 2*aes.BlockSize || len(raw)%aes.BlockSize != 0 {
		http.Error(w, "payload must be an IV plus at least one cipher block", http.StatusBadRequest)
		return
	}

	var (
		iv         = raw[:aes.BlockSize]
		cipherText = raw[aes.BlockSize:]
	)
	plainText, err := pocbc.Decrypt(iv, cipherText, s.key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	clearText, err := popad.Unpad(plainText, aes.BlockSize)
	if err != nil {
		// The oracle: padding failures are announced in a 200 body, just
		// like the sloppy real-world services this server imitates.
		fmt.Fprintln(w, "Padding is incorrect.")
		return
	}

	fmt.Fprintf(w, "Plain: %q\n", clearText)
}

func (s *Server) handleExample(w http.ResponseWriter, r *http.Request) {
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cipherText, err := pocbc.Encrypt(iv, []byte(`{ "example" : "json" }`), s.key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	fmt.Fprintf(w, "Example: %s\n", EncodeWeb64(append(iv, cipherText...)))
}
