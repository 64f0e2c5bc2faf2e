package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"brgydocs/internal/model"
	"brgydocs/internal/repository"
)

type MockTxManager struct {
	mock.Mock
}

// WithinTx runs fn directly unless an error is configured for the call.
func (m *MockTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

type MockDocumentTypeRepository struct {
	mock.Mock
}

func (m *MockDocumentTypeRepository) FindByID(ctx context.Context, id int64) (*model.DocumentType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeRepository) List(ctx context.Context) ([]model.DocumentType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeRepository) Create(ctx context.Context, dt *model.DocumentType) (*model.DocumentType, error) {
	args := m.Called(ctx, dt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeRepository) Update(ctx context.Context, dt *model.DocumentType) (*model.DocumentType, error) {
	args := m.Called(ctx, dt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockResidentRepository struct {
	mock.Mock
}

func (m *MockResidentRepository) FindByID(ctx context.Context, id int64) (*model.Resident, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Resident), args.Error(1)
}

type MockDocumentRequestRepository struct {
	mock.Mock
}

func (m *MockDocumentRequestRepository) Create(ctx context.Context, req *model.DocumentRequest) (*model.DocumentRequest, error) {
	args := m.Called(ctx, req)
	if f, ok := args.Get(0).(func(*model.DocumentRequest) *model.DocumentRequest); ok {
		return f(req), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRequest), args.Error(1)
}

func (m *MockDocumentRequestRepository) FindByID(ctx context.Context, id int64) (*model.DocumentRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRequest), args.Error(1)
}

func (m *MockDocumentRequestRepository) FindViewByID(ctx context.Context, id int64) (*model.RequestView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RequestView), args.Error(1)
}

func (m *MockDocumentRequestRepository) FindViewByToken(ctx context.Context, token string) (*model.RequestView, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RequestView), args.Error(1)
}

func (m *MockDocumentRequestRepository) List(ctx context.Context, f repository.RequestFilter) (*repository.PageResult[model.RequestView], error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.RequestView]), args.Error(1)
}

func (m *MockDocumentRequestRepository) UpdateStatus(ctx context.Context, id int64, from, to model.Status) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRequestRepository) ForceStatus(ctx context.Context, id int64, to model.Status) (model.Status, error) {
	args := m.Called(ctx, id, to)
	return args.Get(0).(model.Status), args.Error(1)
}

func (m *MockDocumentRequestRepository) SetReleaseToken(ctx context.Context, id int64, token string) (bool, error) {
	args := m.Called(ctx, id, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRequestRepository) MarkReleased(ctx context.Context, token string, releaseName *string) (bool, model.Status, error) {
	args := m.Called(ctx, token, releaseName)
	return args.Bool(0), args.Get(1).(model.Status), args.Error(2)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *model.Payment) (*model.Payment, error) {
	args := m.Called(ctx, p)
	if f, ok := args.Get(0).(func(*model.Payment) *model.Payment); ok {
		return f(p), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByRequest(ctx context.Context, requestID int64) ([]model.Payment, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Payment), args.Error(1)
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, e *model.AuditEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockAuditRepository) ListByRequest(ctx context.Context, requestID int64) ([]model.AuditEntry, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditEntry), args.Error(1)
}
