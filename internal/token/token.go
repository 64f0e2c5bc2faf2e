// Package token generates release tokens: unguessable capabilities printed as QR codes.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// Size is the number of random bytes behind a token. It encodes to 43 characters.
const Size = 32

var reader io.Reader = rand.Reader

// New returns a fresh URL-safe release token.
func New() (string, error) {
	b := make([]byte, Size)
	if _, err := io.ReadFull(reader, b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
