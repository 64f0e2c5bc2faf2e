package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"brgydocs/internal/model"
	"brgydocs/internal/service"
)

type MockDocumentRequestService struct {
	mock.Mock
}

func (m *MockDocumentRequestService) view(args mock.Arguments) (*model.RequestView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RequestView), args.Error(1)
}

func (m *MockDocumentRequestService) Create(ctx context.Context, actor model.Actor, in service.CreateInput) (*model.RequestView, error) {
	return m.view(m.Called(ctx, actor, in))
}

func (m *MockDocumentRequestService) Accept(ctx context.Context, actor model.Actor, id int64) (*model.RequestView, error) {
	return m.view(m.Called(ctx, actor, id))
}

func (m *MockDocumentRequestService) MarkReady(ctx context.Context, actor model.Actor, id int64) (*model.RequestView, error) {
	return m.view(m.Called(ctx, actor, id))
}

func (m *MockDocumentRequestService) Decline(ctx context.Context, actor model.Actor, id int64, reason string) (*model.RequestView, error) {
	return m.view(m.Called(ctx, actor, id, reason))
}

func (m *MockDocumentRequestService) Print(ctx context.Context, actor model.Actor, id int64) (*service.PrintResult, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PrintResult), args.Error(1)
}

func (m *MockDocumentRequestService) Release(ctx context.Context, actor model.Actor, token string, releaseName *string) (*service.ReleaseResult, error) {
	args := m.Called(ctx, actor, token, releaseName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReleaseResult), args.Error(1)
}

func (m *MockDocumentRequestService) UpdateStatus(ctx context.Context, actor model.Actor, id int64, status, reason string) (*model.RequestView, error) {
	return m.view(m.Called(ctx, actor, id, status, reason))
}

func (m *MockDocumentRequestService) Get(ctx context.Context, id int64) (*model.RequestView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockDocumentRequestService) List(ctx context.Context, q service.ListQuery) (*service.ListResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult), args.Error(1)
}

// Export writes the configured bytes to w before returning the configured error.
func (m *MockDocumentRequestService) Export(ctx context.Context, q service.ListQuery, w io.Writer) error {
	args := m.Called(ctx, q, w)
	if b, ok := args.Get(0).([]byte); ok {
		_, _ = w.Write(b)
	}
	return args.Error(1)
}

func (m *MockDocumentRequestService) QRCode(ctx context.Context, actor model.Actor, id int64) ([]byte, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockDocumentRequestService) History(ctx context.Context, id int64) ([]model.AuditEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditEntry), args.Error(1)
}

type MockDocumentTypeService struct {
	mock.Mock
}

func (m *MockDocumentTypeService) List(ctx context.Context) ([]model.DocumentType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeService) Get(ctx context.Context, id int64) (*model.DocumentType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeService) Create(ctx context.Context, actor model.Actor, in service.DocumentTypeInput) (*model.DocumentType, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeService) Update(ctx context.Context, actor model.Actor, id int64, in service.DocumentTypeInput) (*model.DocumentType, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeService) Delete(ctx context.Context, actor model.Actor, id int64) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}
