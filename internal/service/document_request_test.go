package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"brgydocs/internal/config"
	"brgydocs/internal/events"
	"brgydocs/internal/model"
	"brgydocs/internal/ornumber"
	"brgydocs/internal/repository"
	repoMocks "brgydocs/internal/repository/mocks"
	storeMocks "brgydocs/internal/storage/mocks"
)

var (
	fixedNow  = time.Date(2026, 5, 4, 8, 30, 0, 0, time.UTC)
	staff     = model.Actor{ID: 900, Role: model.RoleStaff}
	orPattern = regexp.MustCompile(`^OR-\d{5}$`)
)

// txCounter mimics or_number_counter: Advance belongs to the surrounding
// transaction, Resync lifts the value to the highest receipt already stored.
type txCounter struct {
	mu        sync.Mutex
	last      int64
	stored    int64
	resyncErr error
}

func (c *txCounter) Advance(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last++
	return c.last, nil
}

func (c *txCounter) Resync(context.Context) (int64, error) {
	if c.resyncErr != nil {
		return 0, c.resyncErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = max(c.last, c.stored)
	return c.last, nil
}

// rollbackTx undoes counter increments made by a failed transaction.
type rollbackTx struct {
	counter *txCounter
}

func (r *rollbackTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.counter.mu.Lock()
	before := r.counter.last
	r.counter.mu.Unlock()

	err := fn(ctx)
	if err != nil {
		r.counter.mu.Lock()
		r.counter.last = before
		r.counter.mu.Unlock()
	}
	return err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

type fixture struct {
	tx        *repoMocks.MockTxManager
	requests  *repoMocks.MockDocumentRequestRepository
	payments  *repoMocks.MockPaymentRepository
	audit     *repoMocks.MockAuditRepository
	residents *repoMocks.MockResidentRepository
	types     *repoMocks.MockDocumentTypeRepository
	store     *storeMocks.MockQRCodeStore
	counter   *txCounter
	events    *recordingPublisher
	metrics   *Metrics
	logs      *observer.ObservedLogs
	svc       *documentRequestService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	metrics, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	f := &fixture{
		tx:        new(repoMocks.MockTxManager),
		requests:  new(repoMocks.MockDocumentRequestRepository),
		payments:  new(repoMocks.MockPaymentRepository),
		audit:     new(repoMocks.MockAuditRepository),
		residents: new(repoMocks.MockResidentRepository),
		types:     new(repoMocks.MockDocumentTypeRepository),
		store:     new(storeMocks.MockQRCodeStore),
		counter:   &txCounter{},
		events:    &recordingPublisher{},
		metrics:   metrics,
		logs:      logs,
	}
	f.tx.On("WithinTx", mock.Anything).Return(nil).Maybe()

	svc := NewDocumentRequestService(Deps{
		Tx:        f.tx,
		Requests:  f.requests,
		Payments:  f.payments,
		Audit:     f.audit,
		Residents: f.residents,
		Types:     f.types,
		ORNumbers: ornumber.NewGenerator(f.counter),
		Store:     f.store,
		Events:    f.events,
		Metrics:   metrics,
		Log:       zap.New(core),
		Release:   config.ReleaseConfig{PublicBaseURL: "https://brgy.example", QRSize: 64, PresignExpirySec: 60},
	}).(*documentRequestService)

	var tokens atomic.Int64
	svc.now = func() time.Time { return fixedNow }
	svc.newToken = func() (string, error) {
		return fmt.Sprintf("tok-%d", tokens.Add(1)), nil
	}
	f.svc = svc
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.requests.AssertExpectations(t)
	f.payments.AssertExpectations(t)
	f.audit.AssertExpectations(t)
	f.residents.AssertExpectations(t)
	f.types.AssertExpectations(t)
	f.store.AssertExpectations(t)
}

func storedAs(id int64) func(*model.DocumentRequest) *model.DocumentRequest {
	return func(req *model.DocumentRequest) *model.DocumentRequest {
		out := *req
		out.ID = id
		out.Payments = []model.Payment{}
		return &out
	}
}

func paymentStoredAs(id int64) func(*model.Payment) *model.Payment {
	return func(p *model.Payment) *model.Payment {
		out := *p
		out.ID = id
		return &out
	}
}

func auditAction(action string) any {
	return mock.MatchedBy(func(e *model.AuditEntry) bool { return e.Action == action })
}

func clearance() *model.DocumentType {
	return &model.DocumentType{ID: 1, Name: "Barangay Clearance", Fee: decimal.RequireFromString("50.00")}
}

func TestDocumentRequestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("cash payment uses the document type fee", func(t *testing.T) {
		f := newFixture(t)
		f.residents.On("FindByID", mock.Anything, int64(42)).Return(&model.Resident{ID: 42, FullName: "Juan Dela Cruz"}, nil)
		f.types.On("FindByID", mock.Anything, int64(1)).Return(clearance(), nil)
		f.requests.On("Create", mock.Anything, mock.MatchedBy(func(r *model.DocumentRequest) bool {
			return r.Status == model.StatusPending && r.ReleaseToken == nil && r.Purpose == "employment" && r.UserID == staff.ID
		})).Return(storedAs(7), nil).Once()
		f.payments.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Payment) bool {
			return p.DocumentRequestID == 7 && p.Method == model.PaymentCash && orPattern.MatchString(p.ORNumber)
		})).Return(paymentStoredAs(1), nil).Once()
		f.audit.On("Append", mock.Anything, auditAction(model.ActionCreated)).Return(nil).Once()

		view, err := f.svc.Create(ctx, staff, CreateInput{
			ResidentID:     42,
			DocumentTypeID: 1,
			Purpose:        " employment ",
			PaymentMethod:  "cash",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(7), view.ID)
		assert.Equal(t, model.StatusPending, view.Status)
		assert.Equal(t, "Juan Dela Cruz", view.ResidentName)
		assert.Equal(t, "Barangay Clearance", view.DocumentTypeName)
		require.Len(t, view.Payments, 1)
		assert.True(t, view.Payments[0].Amount.Equal(decimal.RequireFromString("50.00")))
		assert.Regexp(t, orPattern, view.Payments[0].ORNumber)

		published := f.events.published()
		require.Len(t, published, 1)
		assert.Equal(t, model.StatusPending, published[0].NewStatus)
		f.assertExpectations(t)
	})

	t.Run("explicit amount overrides the fee", func(t *testing.T) {
		f := newFixture(t)
		amount := decimal.RequireFromString("25.50")
		ref := "GC-123"
		f.residents.On("FindByID", mock.Anything, int64(42)).Return(&model.Resident{ID: 42}, nil)
		f.types.On("FindByID", mock.Anything, int64(1)).Return(clearance(), nil)
		f.requests.On("Create", mock.Anything, mock.Anything).Return(storedAs(8), nil).Once()
		f.payments.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Payment) bool {
			return p.Amount.Equal(amount) && p.Method == model.PaymentGCash && *p.ReferenceNumber == "GC-123"
		})).Return(paymentStoredAs(2), nil).Once()
		f.audit.On("Append", mock.Anything, mock.Anything).Return(nil).Once()

		view, err := f.svc.Create(ctx, staff, CreateInput{
			ResidentID: 42, DocumentTypeID: 1, Purpose: "scholarship",
			PaymentMethod: "gcash", Amount: &amount, ReferenceNumber: &ref,
		})

		require.NoError(t, err)
		require.Len(t, view.Payments, 1)
		assert.Equal(t, 0, f.logs.FilterMessage("gcash_reference_missing").Len())
		f.assertExpectations(t)
	})

	t.Run("free and omitted methods create no payment", func(t *testing.T) {
		for _, method := range []string{"free", ""} {
			f := newFixture(t)
			f.residents.On("FindByID", mock.Anything, int64(42)).Return(&model.Resident{ID: 42}, nil)
			f.types.On("FindByID", mock.Anything, int64(1)).Return(clearance(), nil)
			f.requests.On("Create", mock.Anything, mock.Anything).Return(storedAs(9), nil).Once()
			f.audit.On("Append", mock.Anything, mock.Anything).Return(nil).Once()

			view, err := f.svc.Create(ctx, staff, CreateInput{ResidentID: 42, DocumentTypeID: 1, Purpose: "id", PaymentMethod: method})

			require.NoError(t, err)
			assert.Empty(t, view.Payments)
			f.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		}
	})

	t.Run("gcash without reference is accepted and logged", func(t *testing.T) {
		f := newFixture(t)
		f.residents.On("FindByID", mock.Anything, int64(42)).Return(&model.Resident{ID: 42}, nil)
		f.types.On("FindByID", mock.Anything, int64(1)).Return(clearance(), nil)
		f.requests.On("Create", mock.Anything, mock.Anything).Return(storedAs(10), nil).Once()
		f.payments.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Payment) bool {
			return p.ReferenceNumber == nil
		})).Return(paymentStoredAs(3), nil).Once()
		f.audit.On("Append", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := f.svc.Create(ctx, staff, CreateInput{ResidentID: 42, DocumentTypeID: 1, Purpose: "id", PaymentMethod: "gcash"})

		require.NoError(t, err)
		assert.Equal(t, 1, f.logs.FilterMessage("gcash_reference_missing").Len())
	})

	t.Run("unknown document type writes nothing", func(t *testing.T) {
		f := newFixture(t)
		f.residents.On("FindByID", mock.Anything, int64(42)).Return(&model.Resident{ID: 42}, nil)
		f.types.On("FindByID", mock.Anything, int64(99)).Return(nil, repository.ErrNotFound)

		_, err := f.svc.Create(ctx, staff, CreateInput{ResidentID: 42, DocumentTypeID: 99, Purpose: "x", PaymentMethod: "cash"})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "document_type_id")
		f.requests.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
	})

	t.Run("unknown resident writes nothing", func(t *testing.T) {
		f := newFixture(t)
		f.residents.On("FindByID", mock.Anything, int64(404)).Return(nil, repository.ErrNotFound)

		_, err := f.svc.Create(ctx, staff, CreateInput{ResidentID: 404, DocumentTypeID: 1, Purpose: "x"})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "resident_id")
		f.requests.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("field validation", func(t *testing.T) {
		f := newFixture(t)
		negative := decimal.NewFromInt(-1)

		_, err := f.svc.Create(ctx, staff, CreateInput{PaymentMethod: "card", Amount: &negative, Purpose: "  "})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, map[string]string{
			"resident_id":      "is required",
			"document_type_id": "is required",
			"purpose":          "is required",
			"payment_method":   "must be one of cash, gcash, free",
			"amount":           "must not be negative",
		}, verr.Fields)
		f.residents.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("self-service issues a token immediately", func(t *testing.T) {
		f := newFixture(t)
		resident := model.Actor{ID: 5, Role: model.RoleResident}
		userID := int64(5)
		f.residents.On("FindByID", mock.Anything, int64(42)).Return(&model.Resident{ID: 42, UserID: &userID}, nil)
		f.types.On("FindByID", mock.Anything, int64(1)).Return(clearance(), nil)
		f.requests.On("Create", mock.Anything, mock.MatchedBy(func(r *model.DocumentRequest) bool {
			return r.ReleaseToken != nil && *r.ReleaseToken == "tok-1" && r.UserID == 5
		})).Return(storedAs(11), nil).Once()
		f.audit.On("Append", mock.Anything, mock.Anything).Return(nil).Once()

		view, err := f.svc.Create(ctx, resident, CreateInput{ResidentID: 42, DocumentTypeID: 1, Purpose: "travel"})

		require.NoError(t, err)
		assert.True(t, view.HasToken())
		f.assertExpectations(t)
	})

	t.Run("resident cannot request for someone else", func(t *testing.T) {
		f := newFixture(t)
		other := int64(6)
		f.residents.On("FindByID", mock.Anything, int64(42)).Return(&model.Resident{ID: 42, UserID: &other}, nil)
		f.types.On("FindByID", mock.Anything, int64(1)).Return(clearance(), nil)

		_, err := f.svc.Create(ctx, model.Actor{ID: 5, Role: model.RoleResident}, CreateInput{ResidentID: 42, DocumentTypeID: 1, Purpose: "x"})

		assert.ErrorIs(t, err, ErrForbidden)
		f.requests.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("or number collision resyncs the counter and retries with a higher number", func(t *testing.T) {
		f := newFixture(t)
		f.svc.tx = &rollbackTx{counter: f.counter}
		f.counter.last = 4
		f.counter.stored = 5

		var seen []string
		record := func(args mock.Arguments) {
			seen = append(seen, args.Get(1).(*model.Payment).ORNumber)
		}
		f.residents.On("FindByID", mock.Anything, int64(42)).Return(&model.Resident{ID: 42}, nil)
		f.types.On("FindByID", mock.Anything, int64(1)).Return(clearance(), nil)
		f.requests.On("Create", mock.Anything, mock.Anything).Return(storedAs(12), nil).Twice()
		f.payments.On("Create", mock.Anything, mock.Anything).Run(record).
			Return(nil, fmt.Errorf("%w: key exists", repository.ErrDuplicateORNumber)).Once()
		f.payments.On("Create", mock.Anything, mock.Anything).Run(record).Return(paymentStoredAs(4), nil).Once()
		f.audit.On("Append", mock.Anything, mock.Anything).Return(nil).Once()

		view, err := f.svc.Create(ctx, staff, CreateInput{ResidentID: 42, DocumentTypeID: 1, Purpose: "x", PaymentMethod: "cash"})

		require.NoError(t, err)
		assert.Equal(t, []string{"OR-00005", "OR-00006"}, seen)
		require.Len(t, view.Payments, 1)
		assert.Equal(t, "OR-00006", view.Payments[0].ORNumber)
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.retries.WithLabelValues("or_number")))
		assert.Len(t, f.events.published(), 1)
		f.assertExpectations(t)
	})

	t.Run("resync failure stops the retry", func(t *testing.T) {
		f := newFixture(t)
		f.svc.tx = &rollbackTx{counter: f.counter}
		f.counter.resyncErr = errors.New("conn refused")
		f.residents.On("FindByID", mock.Anything, int64(42)).Return(&model.Resident{ID: 42}, nil)
		f.types.On("FindByID", mock.Anything, int64(1)).Return(clearance(), nil)
		f.requests.On("Create", mock.Anything, mock.Anything).Return(storedAs(15), nil).Once()
		f.payments.On("Create", mock.Anything, mock.Anything).Return(nil, repository.ErrDuplicateORNumber).Once()

		_, err := f.svc.Create(ctx, staff, CreateInput{ResidentID: 42, DocumentTypeID: 1, Purpose: "x", PaymentMethod: "cash"})

		assert.EqualError(t, err, "create: resync or counter: conn refused")
		f.payments.AssertNumberOfCalls(t, "Create", 1)
		assert.Empty(t, f.events.published())
	})

	t.Run("retries are bounded", func(t *testing.T) {
		f := newFixture(t)
		f.residents.On("FindByID", mock.Anything, int64(42)).Return(&model.Resident{ID: 42}, nil)
		f.types.On("FindByID", mock.Anything, int64(1)).Return(clearance(), nil)
		f.requests.On("Create", mock.Anything, mock.Anything).Return(storedAs(13), nil)
		f.payments.On("Create", mock.Anything, mock.Anything).Return(nil, repository.ErrDuplicateORNumber)

		_, err := f.svc.Create(ctx, staff, CreateInput{ResidentID: 42, DocumentTypeID: 1, Purpose: "x", PaymentMethod: "cash"})

		assert.ErrorIs(t, err, repository.ErrDuplicateORNumber)
		f.payments.AssertNumberOfCalls(t, "Create", maxCreateAttempts)
		assert.Empty(t, f.events.published())
	})

	t.Run("payment failure publishes nothing", func(t *testing.T) {
		f := newFixture(t)
		f.residents.On("FindByID", mock.Anything, int64(42)).Return(&model.Resident{ID: 42}, nil)
		f.types.On("FindByID", mock.Anything, int64(1)).Return(clearance(), nil)
		f.requests.On("Create", mock.Anything, mock.Anything).Return(storedAs(14), nil).Once()
		f.payments.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("disk full")).Once()

		_, err := f.svc.Create(ctx, staff, CreateInput{ResidentID: 42, DocumentTypeID: 1, Purpose: "x", PaymentMethod: "cash"})

		assert.EqualError(t, err, "disk full")
		assert.Empty(t, f.events.published())
		f.audit.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})
}

func TestDocumentRequestService_Accept(t *testing.T) {
	ctx := context.Background()

	t.Run("pending to on process issues token", func(t *testing.T) {
		f := newFixture(t)
		f.requests.On("UpdateStatus", mock.Anything, int64(7), model.StatusPending, model.StatusOnProcess).Return(true, nil).Once()
		f.requests.On("SetReleaseToken", mock.Anything, int64(7), "tok-1").Return(true, nil).Once()
		f.audit.On("Append", mock.Anything, mock.MatchedBy(func(e *model.AuditEntry) bool {
			return e.Action == model.ActionAccepted && e.OldStatus == model.StatusPending &&
				e.NewStatus == model.StatusOnProcess && *e.ActorID == staff.ID && e.CorrelationID == "rid-1"
		})).Return(nil).Once()
		f.requests.On("FindViewByID", mock.Anything, int64(7)).Return(&model.RequestView{
			DocumentRequest: model.DocumentRequest{ID: 7, Status: model.StatusOnProcess},
		}, nil).Once()

		view, err := f.svc.Accept(WithCorrelationID(ctx, "rid-1"), staff, 7)

		require.NoError(t, err)
		assert.Equal(t, model.StatusOnProcess, view.Status)
		published := f.events.published()
		require.Len(t, published, 1)
		assert.Equal(t, "rid-1", published[0].CorrelationID)
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.transitions.WithLabelValues(model.ActionAccepted, string(model.StatusOnProcess))))
		f.assertExpectations(t)
	})

	t.Run("accept on process is an invalid transition", func(t *testing.T) {
		f := newFixture(t)
		f.requests.On("UpdateStatus", mock.Anything, int64(7), model.StatusPending, model.StatusOnProcess).Return(false, nil).Once()
		f.requests.On("FindByID", mock.Anything, int64(7)).Return(&model.DocumentRequest{ID: 7, Status: model.StatusOnProcess}, nil).Once()

		_, err := f.svc.Accept(ctx, staff, 7)

		assert.ErrorIs(t, err, ErrInvalidTransition)
		var terr *TransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, model.StatusOnProcess, terr.From)
		f.requests.AssertNotCalled(t, "SetReleaseToken", mock.Anything, mock.Anything, mock.Anything)
		f.audit.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		assert.Empty(t, f.events.published())
	})

	t.Run("unknown request", func(t *testing.T) {
		f := newFixture(t)
		f.requests.On("UpdateStatus", mock.Anything, int64(8), model.StatusPending, model.StatusOnProcess).
			Return(false, repository.ErrNotFound).Once()

		_, err := f.svc.Accept(ctx, staff, 8)

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("residents cannot accept", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Accept(ctx, model.Actor{ID: 5, Role: model.RoleResident}, 7)

		assert.ErrorIs(t, err, ErrForbidden)
		f.requests.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDocumentRequestService_DisallowedSourceStates(t *testing.T) {
	ctx := context.Background()
	ops := []struct {
		name string
		from model.Status
		to   model.Status
		call func(s *documentRequestService) error
	}{
		{"accept", model.StatusPending, model.StatusOnProcess, func(s *documentRequestService) error {
			_, err := s.Accept(ctx, staff, 7)
			return err
		}},
		{"mark ready", model.StatusOnProcess, model.StatusReady, func(s *documentRequestService) error {
			_, err := s.MarkReady(ctx, staff, 7)
			return err
		}},
		{"decline", model.StatusPending, model.StatusDeclined, func(s *documentRequestService) error {
			_, err := s.Decline(ctx, staff, 7, "")
			return err
		}},
	}

	for _, op := range ops {
		for _, current := range model.Statuses {
			if current == op.from {
				continue
			}
			t.Run(op.name+" from "+string(current), func(t *testing.T) {
				f := newFixture(t)
				f.requests.On("UpdateStatus", mock.Anything, int64(7), op.from, op.to).Return(false, nil).Once()
				f.requests.On("FindByID", mock.Anything, int64(7)).Return(&model.DocumentRequest{ID: 7, Status: current}, nil).Once()

				err := op.call(f.svc)

				assert.ErrorIs(t, err, ErrInvalidTransition)
				f.requests.AssertNotCalled(t, "ForceStatus", mock.Anything, mock.Anything, mock.Anything)
				f.audit.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
				assert.Empty(t, f.events.published())
			})
		}
	}
}

func TestDocumentRequestService_MarkReadyAndDecline(t *testing.T) {
	ctx := context.Background()

	t.Run("mark ready", func(t *testing.T) {
		f := newFixture(t)
		f.requests.On("UpdateStatus", mock.Anything, int64(7), model.StatusOnProcess, model.StatusReady).Return(true, nil).Once()
		f.audit.On("Append", mock.Anything, auditAction(model.ActionReady)).Return(nil).Once()
		f.requests.On("FindViewByID", mock.Anything, int64(7)).Return(&model.RequestView{
			DocumentRequest: model.DocumentRequest{ID: 7, Status: model.StatusReady},
		}, nil).Once()

		view, err := f.svc.MarkReady(ctx, staff, 7)

		require.NoError(t, err)
		assert.Equal(t, model.StatusReady, view.Status)
		f.requests.AssertNotCalled(t, "SetReleaseToken", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("decline records the reason", func(t *testing.T) {
		f := newFixture(t)
		f.requests.On("UpdateStatus", mock.Anything, int64(7), model.StatusPending, model.StatusDeclined).Return(true, nil).Once()
		f.audit.On("Append", mock.Anything, mock.MatchedBy(func(e *model.AuditEntry) bool {
			return e.Action == model.ActionDeclined && e.Reason == "incomplete requirements"
		})).Return(nil).Once()
		f.requests.On("FindViewByID", mock.Anything, int64(7)).Return(&model.RequestView{
			DocumentRequest: model.DocumentRequest{ID: 7, Status: model.StatusDeclined},
		}, nil).Once()

		view, err := f.svc.Decline(ctx, staff, 7, " incomplete requirements ")

		require.NoError(t, err)
		assert.Equal(t, model.StatusDeclined, view.Status)
		f.assertExpectations(t)
	})
}

func TestDocumentRequestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("override is audited and logged", func(t *testing.T) {
		f := newFixture(t)
		f.requests.On("ForceStatus", mock.Anything, int64(7), model.StatusOnProcess).Return(model.StatusReleased, nil).Once()
		f.audit.On("Append", mock.Anything, mock.MatchedBy(func(e *model.AuditEntry) bool {
			return e.Action == model.ActionOverride && e.OldStatus == model.StatusReleased &&
				e.NewStatus == model.StatusOnProcess && e.Reason == "released by mistake"
		})).Return(nil).Once()
		f.requests.On("FindViewByID", mock.Anything, int64(7)).Return(&model.RequestView{
			DocumentRequest: model.DocumentRequest{ID: 7, Status: model.StatusOnProcess},
		}, nil).Once()

		view, err := f.svc.UpdateStatus(ctx, staff, 7, "on process", "released by mistake")

		require.NoError(t, err)
		assert.Equal(t, model.StatusOnProcess, view.Status)
		entries := f.logs.FilterMessage("status_override").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "warn", entries[0].Level.String())
		assert.Equal(t, "released", entries[0].ContextMap()["old_status"])
		assert.Len(t, f.events.published(), 1)
		f.assertExpectations(t)
	})

	t.Run("override to the same status still audits", func(t *testing.T) {
		f := newFixture(t)
		f.requests.On("ForceStatus", mock.Anything, int64(7), model.StatusPending).Return(model.StatusPending, nil).Once()
		f.audit.On("Append", mock.Anything, auditAction(model.ActionOverride)).Return(nil).Once()
		f.requests.On("FindViewByID", mock.Anything, int64(7)).Return(&model.RequestView{}, nil).Once()

		_, err := f.svc.UpdateStatus(ctx, staff, 7, "pending", "recheck")

		require.NoError(t, err)
		assert.Empty(t, f.events.published())
		f.assertExpectations(t)
	})

	t.Run("status and reason are validated", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.UpdateStatus(ctx, staff, 7, "approved", " ")

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "status")
		assert.Contains(t, verr.Fields, "reason")
		f.requests.AssertNotCalled(t, "ForceStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown request", func(t *testing.T) {
		f := newFixture(t)
		f.requests.On("ForceStatus", mock.Anything, int64(8), model.StatusDeclined).Return(model.Status(""), repository.ErrNotFound).Once()

		_, err := f.svc.UpdateStatus(ctx, staff, 8, "declined", "duplicate request")

		assert.ErrorIs(t, err, ErrNotFound)
		f.audit.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})
}

func TestDocumentRequestService_ListAndHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("list normalizes paging", func(t *testing.T) {
		f := newFixture(t)
		f.requests.On("List", mock.Anything, repository.RequestFilter{
			DocumentTypeID: 1,
			Status:         model.StatusReady,
			PageQuery:      repository.PageQuery{Limit: maxLimit, Offset: 0},
		}).Return(&repository.PageResult[model.RequestView]{Items: []model.RequestView{{}}, Total: 1}, nil).Once()

		res, err := f.svc.List(ctx, ListQuery{DocumentTypeID: 1, Status: "ready for pick-up", Limit: 500, Offset: -3})

		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		f.assertExpectations(t)
	})

	t.Run("list rejects unknown status", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.List(ctx, ListQuery{Status: "lost"})

		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("history", func(t *testing.T) {
		f := newFixture(t)
		f.requests.On("FindByID", mock.Anything, int64(7)).Return(&model.DocumentRequest{ID: 7}, nil).Once()
		f.audit.On("ListByRequest", mock.Anything, int64(7)).Return([]model.AuditEntry{{Action: model.ActionCreated}}, nil).Once()

		entries, err := f.svc.History(ctx, 7)

		require.NoError(t, err)
		assert.Len(t, entries, 1)
		f.assertExpectations(t)
	})

	t.Run("history of unknown request", func(t *testing.T) {
		f := newFixture(t)
		f.requests.On("FindByID", mock.Anything, int64(8)).Return(nil, repository.ErrNotFound).Once()

		_, err := f.svc.History(ctx, 8)

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"purpose": "is required", "amount": "must not be negative"}}
	assert.Equal(t, "validation failed: amount: must not be negative; purpose: is required", err.Error())
}
