// Package storage keeps printable release artifacts in S3-compatible object storage.
package storage

import (
	"context"
	"strconv"
	"time"
)

const qrCodePrefix = "qrcodes/"

// Artifact describes a stored QR image.
type Artifact struct {
	Key  string
	Size int64
	ETag string
}

// QRCodeStore holds the printable QR image of each document request.
type QRCodeStore interface {
	// SaveQRCode uploads the PNG for a request. Reprints replace the previous image.
	SaveQRCode(ctx context.Context, requestID int64, png []byte) (Artifact, error)
	// QRCodeURL returns a time-limited download link that needs no credentials.
	QRCodeURL(ctx context.Context, requestID int64, expiry time.Duration) (string, error)
}

// QRCodeKey is the object key of the printable QR image for a request.
func QRCodeKey(requestID int64) string {
	return qrCodePrefix + strconv.FormatInt(requestID, 10) + ".png"
}
