package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"brgydocs/internal/config"
	"brgydocs/internal/events"
	"brgydocs/internal/logger"
	"brgydocs/internal/model"
	"brgydocs/internal/repository"
	"brgydocs/internal/storage"
	"brgydocs/internal/token"
)

const (
	// maxCreateAttempts bounds retries after an OR number or release token collision.
	maxCreateAttempts = 3

	defaultLimit = 10
	maxLimit     = 100
)

// ORNumberSource hands out OR numbers no earlier call has returned.
type ORNumberSource interface {
	Next(ctx context.Context) (string, error)
	// Resync moves the source past every OR number already stored.
	Resync(ctx context.Context) error
}

// CreateInput is a new document request with an optional payment.
type CreateInput struct {
	ResidentID      int64
	DocumentTypeID  int64
	Purpose         string
	PaymentMethod   string
	Amount          *decimal.Decimal
	ReferenceNumber *string
}

// ListQuery filters the staff queue. Zero values mean "any".
type ListQuery struct {
	DocumentTypeID int64
	Status         string
	Limit          int
	Offset         int
}

// ListResult is the service-level DTO for paginated request views.
type ListResult struct {
	Items []model.RequestView `json:"data"`
	Total int                 `json:"total"`
}

// PrintResult is a request ready to be printed along with its QR artifact.
type PrintResult struct {
	Request    *model.RequestView `json:"request"`
	ReleaseURL string             `json:"release_url"`
	QRCodeURL  string             `json:"qrcode_url"`
}

// ReleaseResult is the outcome of presenting a release token.
type ReleaseResult struct {
	Request         *model.RequestView `json:"request"`
	AlreadyReleased bool               `json:"already_released"`
}

// DocumentRequestService owns the request lifecycle and the release token.
type DocumentRequestService interface {
	// Create stores a pending request and, for cash or gcash, its payment in one transaction.
	// Residents may only request documents for their own resident record.
	Create(ctx context.Context, actor model.Actor, in CreateInput) (*model.RequestView, error)

	// Accept moves pending -> on process and issues a release token if none exists.
	Accept(ctx context.Context, actor model.Actor, id int64) (*model.RequestView, error)

	// MarkReady moves on process -> ready for pick-up.
	MarkReady(ctx context.Context, actor model.Actor, id int64) (*model.RequestView, error)

	// Decline moves pending -> declined.
	Decline(ctx context.Context, actor model.Actor, id int64, reason string) (*model.RequestView, error)

	// Print renders and stores the QR code. Printing an on process request marks it ready.
	Print(ctx context.Context, actor model.Actor, id int64) (*PrintResult, error)

	// Release performs the terminal transition for the request bound to token.
	// Repeating it is a no-op that reports AlreadyReleased.
	Release(ctx context.Context, actor model.Actor, token string, releaseName *string) (*ReleaseResult, error)

	// UpdateStatus is the administrative override. It bypasses the transition graph
	// and always leaves an audit entry.
	UpdateStatus(ctx context.Context, actor model.Actor, id int64, status, reason string) (*model.RequestView, error)

	Get(ctx context.Context, id int64) (*model.RequestView, error)
	List(ctx context.Context, q ListQuery) (*ListResult, error)

	// Export writes every request matching q as an xlsx workbook.
	Export(ctx context.Context, q ListQuery, w io.Writer) error

	// QRCode returns the PNG encoding of the request's release URL.
	QRCode(ctx context.Context, actor model.Actor, id int64) ([]byte, error)

	History(ctx context.Context, id int64) ([]model.AuditEntry, error)
}

// Deps are the collaborators of DocumentRequestService.
type Deps struct {
	Tx        repository.TxManager
	Requests  repository.DocumentRequestRepository
	Payments  repository.PaymentRepository
	Audit     repository.AuditRepository
	Residents repository.ResidentRepository
	Types     repository.DocumentTypeRepository
	ORNumbers ORNumberSource
	Store     storage.QRCodeStore
	Events    events.Publisher
	Metrics   *Metrics
	Log       *zap.Logger
	Release   config.ReleaseConfig
	Location  *time.Location
}

type documentRequestService struct {
	tx        repository.TxManager
	requests  repository.DocumentRequestRepository
	payments  repository.PaymentRepository
	audits    repository.AuditRepository
	residents repository.ResidentRepository
	types     repository.DocumentTypeRepository
	orNumbers ORNumberSource
	store     storage.QRCodeStore
	events    events.Publisher
	metrics   *Metrics
	log       *zap.Logger
	release   config.ReleaseConfig
	loc       *time.Location

	now      func() time.Time
	newToken func() (string, error)
}

func NewDocumentRequestService(d Deps) DocumentRequestService {
	s := &documentRequestService{
		tx:        d.Tx,
		requests:  d.Requests,
		payments:  d.Payments,
		audits:    d.Audit,
		residents: d.Residents,
		types:     d.Types,
		orNumbers: d.ORNumbers,
		store:     d.Store,
		events:    d.Events,
		metrics:   d.Metrics,
		log:       logger.Component(d.Log, "document_requests"),
		release:   d.Release,
		loc:       d.Location,
		now:       func() time.Time { return time.Now().UTC() },
		newToken:  token.New,
	}
	if s.events == nil {
		s.events = events.Noop{}
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	return s
}

func validateCreate(in CreateInput) (model.PaymentMethod, error) {
	fields := map[string]string{}
	if in.ResidentID <= 0 {
		fields["resident_id"] = "is required"
	}
	if in.DocumentTypeID <= 0 {
		fields["document_type_id"] = "is required"
	}
	if strings.TrimSpace(in.Purpose) == "" {
		fields["purpose"] = "is required"
	}
	method, err := model.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		fields["payment_method"] = "must be one of cash, gcash, free"
	}
	if in.Amount != nil && in.Amount.IsNegative() {
		fields["amount"] = "must not be negative"
	}
	if len(fields) > 0 {
		return "", &ValidationError{Fields: fields}
	}
	return method, nil
}

func (s *documentRequestService) Create(ctx context.Context, actor model.Actor, in CreateInput) (*model.RequestView, error) {
	method, err := validateCreate(in)
	if err != nil {
		return nil, err
	}

	resident, err := s.residents.FindByID(ctx, in.ResidentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, invalidField("resident_id", "resident does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("find resident: %w", err)
	}
	docType, err := s.types.FindByID(ctx, in.DocumentTypeID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, invalidField("document_type_id", "document type does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("find document type: %w", err)
	}

	selfService := actor.Role == model.RoleResident
	switch {
	case selfService:
		if resident.UserID == nil || *resident.UserID != actor.ID {
			return nil, ErrForbidden
		}
	case !actor.IsStaff():
		return nil, ErrForbidden
	}

	amount := docType.Fee
	if in.Amount != nil {
		amount = *in.Amount
	}
	ref := trimmed(in.ReferenceNumber)
	if method == model.PaymentGCash && ref == nil {
		s.log.Warn("gcash_reference_missing",
			zap.Int64("resident_id", in.ResidentID),
			zap.Int64("actor_id", actor.ID),
		)
	}

	var created *model.DocumentRequest
	err = s.withRetry(ctx, "create", func() error {
		return s.tx.WithinTx(ctx, func(ctx context.Context) error {
			req := &model.DocumentRequest{
				UserID:         actor.ID,
				ResidentID:     in.ResidentID,
				DocumentTypeID: in.DocumentTypeID,
				Purpose:        strings.TrimSpace(in.Purpose),
				Status:         model.StatusPending,
				RequestedAt:    s.now(),
			}
			if selfService {
				tok, err := s.newToken()
				if err != nil {
					return fmt.Errorf("generate release token: %w", err)
				}
				req.ReleaseToken = &tok
			}

			stored, err := s.requests.Create(ctx, req)
			if err != nil {
				return err
			}

			if method.RecordsPayment() {
				orNumber, err := s.orNumbers.Next(ctx)
				if err != nil {
					return err
				}
				p, err := s.payments.Create(ctx, &model.Payment{
					DocumentRequestID: stored.ID,
					Method:            method,
					Amount:            amount,
					ORNumber:          orNumber,
					ReferenceNumber:   ref,
					PaidAt:            s.now(),
				})
				if err != nil {
					return err
				}
				stored.Payments = append(stored.Payments, *p)
			}

			created = stored
			return s.audit(ctx, actor, stored.ID, model.ActionCreated, "", model.StatusPending, "")
		})
	})
	if err != nil {
		return nil, err
	}

	s.committed(ctx, actor, created.ID, model.ActionCreated, "", model.StatusPending)
	s.log.Info("request_created",
		zap.Int64("document_request_id", created.ID),
		zap.Int64("document_type_id", created.DocumentTypeID),
		zap.String("payment_method", string(method)),
		zap.Bool("self_service", selfService),
	)

	return &model.RequestView{
		DocumentRequest:  *created,
		ResidentName:     resident.FullName,
		DocumentTypeName: docType.Name,
	}, nil
}

// guarded is one edge of the normal transition graph.
type guarded struct {
	action     string
	verb       string
	from, to   model.Status
	reason     string
	issueToken bool
}

func (s *documentRequestService) Accept(ctx context.Context, actor model.Actor, id int64) (*model.RequestView, error) {
	return s.apply(ctx, actor, id, guarded{
		action:     model.ActionAccepted,
		verb:       "accept",
		from:       model.StatusPending,
		to:         model.StatusOnProcess,
		issueToken: true,
	})
}

func (s *documentRequestService) MarkReady(ctx context.Context, actor model.Actor, id int64) (*model.RequestView, error) {
	return s.apply(ctx, actor, id, guarded{
		action: model.ActionReady,
		verb:   "mark ready",
		from:   model.StatusOnProcess,
		to:     model.StatusReady,
	})
}

func (s *documentRequestService) Decline(ctx context.Context, actor model.Actor, id int64, reason string) (*model.RequestView, error) {
	return s.apply(ctx, actor, id, guarded{
		action: model.ActionDeclined,
		verb:   "decline",
		from:   model.StatusPending,
		to:     model.StatusDeclined,
		reason: strings.TrimSpace(reason),
	})
}

func (s *documentRequestService) apply(ctx context.Context, actor model.Actor, id int64, g guarded) (*model.RequestView, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}
	err := s.withRetry(ctx, g.verb, func() error {
		return s.tx.WithinTx(ctx, func(ctx context.Context) error {
			ok, err := s.requests.UpdateStatus(ctx, id, g.from, g.to)
			if err != nil {
				return requestNotFound(err, id)
			}
			if !ok {
				cur, err := s.requests.FindByID(ctx, id)
				if err != nil {
					return requestNotFound(err, id)
				}
				return &TransitionError{Action: g.verb, From: cur.Status}
			}
			if g.issueToken {
				if err := s.ensureToken(ctx, id); err != nil {
					return err
				}
			}
			return s.audit(ctx, actor, id, g.action, g.from, g.to, g.reason)
		})
	})
	if err != nil {
		return nil, err
	}

	s.committed(ctx, actor, id, g.action, g.from, g.to)
	return s.Get(ctx, id)
}

func (s *documentRequestService) UpdateStatus(ctx context.Context, actor model.Actor, id int64, status, reason string) (*model.RequestView, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}
	fields := map[string]string{}
	to, err := model.ParseStatus(status)
	if err != nil {
		fields["status"] = "must be one of pending, on process, ready for pick-up, released, declined"
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		fields["reason"] = "is required for a status override"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	var prev model.Status
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		prev, err = s.requests.ForceStatus(ctx, id, to)
		if err != nil {
			return requestNotFound(err, id)
		}
		return s.audit(ctx, actor, id, model.ActionOverride, prev, to, reason)
	})
	if err != nil {
		return nil, err
	}

	s.log.Warn("status_override",
		zap.Int64("document_request_id", id),
		zap.Int64("actor_id", actor.ID),
		zap.String("old_status", string(prev)),
		zap.String("new_status", string(to)),
		zap.Bool("outside_graph", !model.CanTransition(prev, to)),
		zap.String("reason", reason),
		zap.String("request_id", CorrelationID(ctx)),
	)
	if prev != to {
		s.committed(ctx, actor, id, model.ActionOverride, prev, to)
	}
	return s.Get(ctx, id)
}

func (s *documentRequestService) Get(ctx context.Context, id int64) (*model.RequestView, error) {
	v, err := s.requests.FindViewByID(ctx, id)
	if err != nil {
		return nil, requestNotFound(err, id)
	}
	return v, nil
}

func (q ListQuery) filter() (repository.RequestFilter, error) {
	f := repository.RequestFilter{
		DocumentTypeID: q.DocumentTypeID,
		PageQuery:      repository.PageQuery{Limit: q.Limit, Offset: q.Offset},
	}
	if q.Status != "" {
		st, err := model.ParseStatus(q.Status)
		if err != nil {
			return f, invalidField("status", "unknown status")
		}
		f.Status = st
	}
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f, nil
}

func (s *documentRequestService) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	f, err := q.filter()
	if err != nil {
		return nil, err
	}
	res, err := s.requests.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentRequestService) History(ctx context.Context, id int64) ([]model.AuditEntry, error) {
	if _, err := s.requests.FindByID(ctx, id); err != nil {
		return nil, requestNotFound(err, id)
	}
	return s.audits.ListByRequest(ctx, id)
}

func (s *documentRequestService) ensureToken(ctx context.Context, id int64) error {
	tok, err := s.newToken()
	if err != nil {
		return fmt.Errorf("generate release token: %w", err)
	}
	_, err = s.requests.SetReleaseToken(ctx, id, tok)
	return err
}

func (s *documentRequestService) audit(ctx context.Context, actor model.Actor, requestID int64, action string, from, to model.Status, reason string) error {
	return s.audits.Append(ctx, &model.AuditEntry{
		DocumentRequestID: requestID,
		ActorID:           actorID(actor),
		Action:            action,
		OldStatus:         from,
		NewStatus:         to,
		Reason:            reason,
		CorrelationID:     CorrelationID(ctx),
		CreatedAt:         s.now(),
	})
}

// committed runs the side effects of a transition after its transaction commits.
func (s *documentRequestService) committed(ctx context.Context, actor model.Actor, id int64, action string, from, to model.Status) {
	s.metrics.transition(action, to)
	e := events.StatusChanged(id, from, to, actorID(actor), CorrelationID(ctx), s.now())
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.Warn("event_publish_failed",
			zap.Int64("document_request_id", id),
			zap.String("new_status", string(to)),
			zap.Error(err),
		)
	}
}

// withRetry reruns fn when it fails on a uniqueness collision. fn's transaction has
// rolled back by then, taking its counter increment with it, so an OR collision
// resyncs the counter before the next run draws a number.
func (s *documentRequestService) withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		err = fn()
		reason := retryReason(err)
		if reason == "" {
			return err
		}
		s.metrics.retry(reason)
		s.log.Warn("uniqueness_retry",
			zap.String("operation", op),
			zap.String("reason", reason),
			zap.Int("attempt", attempt),
			zap.String("request_id", CorrelationID(ctx)),
		)
		if reason == "or_number" {
			if rerr := s.orNumbers.Resync(ctx); rerr != nil {
				return fmt.Errorf("%s: %w", op, rerr)
			}
		}
	}
	return fmt.Errorf("%s: gave up after %d attempts: %w", op, maxCreateAttempts, err)
}

func retryReason(err error) string {
	switch {
	case errors.Is(err, repository.ErrDuplicateORNumber):
		return "or_number"
	case errors.Is(err, repository.ErrDuplicateReleaseToken):
		return "release_token"
	default:
		return ""
	}
}

func requestNotFound(err error, id int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("document request %d: %w", id, ErrNotFound)
	}
	return err
}

func actorID(a model.Actor) *int64 {
	if a.ID == 0 {
		return nil
	}
	id := a.ID
	return &id
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
