// Package qrcode renders release URLs as scannable PNG images.
package qrcode

import (
	"errors"
	"net/url"
	"strings"

	goqrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is used when the caller passes a non-positive size.
const DefaultSize = 256

var ErrEmptyContent = errors.New("qr content is empty")

// Render encodes content as a size x size PNG at medium error recovery,
// which survives a folded or lightly smudged printout.
func Render(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}
	return goqrcode.Encode(content, goqrcode.Medium, size)
}

// ReleaseURL is the landing address a generic scanner opens for token.
func ReleaseURL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/release/" + url.PathEscape(token)
}
