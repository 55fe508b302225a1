// Package poweb carries the HTTP side of the demonstration setup: the
// web64 transport encoding, an oracle client that turns a vulnerable
// endpoint into a pocrack.Oracle, and the vulnerable server itself.
package poweb

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Web64 is standard base64 with the three characters that clash with URL
// path syntax substituted: '=' becomes '~', '+' becomes '-', '/' becomes
// '!'. The demonstration server carries ciphertexts in the URL path using
// this alphabet.
var (
	toWeb64   = strings.NewReplacer("=", "~", "+", "-", "/", "!")
	fromWeb64 = strings.NewReplacer("~", "=", "-", "+", "!", "/")
)

// EncodeWeb64 encodes data in the web64 alphabet.
func EncodeWeb64(data []byte) string {
	return toWeb64.Replace(base64.StdEncoding.EncodeToString(data))
}

// DecodeWeb64 decodes a web64 string back to bytes.
func DecodeWeb64(s string) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(fromWeb64.Replace(s))
	if err != nil {
		return nil, fmt.Errorf("malformed web64 input: %s", err)
	}
	return decoded, nil
}
