package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"brgydocs/internal/storage"
)

type MockQRCodeStore struct {
	mock.Mock
}

func (m *MockQRCodeStore) SaveQRCode(ctx context.Context, requestID int64, png []byte) (storage.Artifact, error) {
	args := m.Called(ctx, requestID, png)
	return args.Get(0).(storage.Artifact), args.Error(1)
}

func (m *MockQRCodeStore) QRCodeURL(ctx context.Context, requestID int64, expiry time.Duration) (string, error) {
	args := m.Called(ctx, requestID, expiry)
	return args.String(0), args.Error(1)
}
