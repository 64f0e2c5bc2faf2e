package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"brgydocs/internal/model"
	"brgydocs/internal/qrcode"
	"brgydocs/internal/repository"
)

const defaultPresignExpiry = 15 * time.Minute

// Release is safe under concurrent scans of the same code: the row lock in
// MarkReleased lets exactly one caller change the request, and only that caller
// writes the audit entry and publishes the event.
func (s *documentRequestService) Release(ctx context.Context, actor model.Actor, tok string, releaseName *string) (*ReleaseResult, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return nil, ErrInvalidToken
	}
	claimant := trimmed(releaseName)

	var (
		view    *model.RequestView
		changed bool
		prev    model.Status
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		view, err = s.requests.FindViewByToken(ctx, tok)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		if err != nil {
			return err
		}

		changed, prev, err = s.requests.MarkReleased(ctx, tok, claimant)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		return s.audit(ctx, actor, view.ID, model.ActionReleased, prev, model.StatusReleased, claimReason(claimant))
	})
	if errors.Is(err, ErrInvalidToken) {
		s.log.Info("release_invalid_token", zap.String("request_id", CorrelationID(ctx)))
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int64("document_request.id", view.ID),
		attribute.Bool("document_request.already_released", !changed),
	)
	if !changed {
		return &ReleaseResult{Request: view, AlreadyReleased: true}, nil
	}

	s.committed(ctx, actor, view.ID, model.ActionReleased, prev, model.StatusReleased)
	s.log.Info("request_released",
		zap.Int64("document_request_id", view.ID),
		zap.String("old_status", string(prev)),
		zap.Bool("claimant_recorded", claimant != nil),
	)

	view, err = s.requests.FindViewByToken(ctx, tok)
	if err != nil {
		return nil, err
	}
	return &ReleaseResult{Request: view}, nil
}

func claimReason(claimant *string) string {
	if claimant == nil {
		return ""
	}
	return "claimed by " + *claimant
}

func (s *documentRequestService) Print(ctx context.Context, actor model.Actor, id int64) (*PrintResult, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}

	var from, to model.Status
	err := s.withRetry(ctx, "print", func() error {
		return s.tx.WithinTx(ctx, func(ctx context.Context) error {
			req, err := s.requests.FindByID(ctx, id)
			if err != nil {
				return requestNotFound(err, id)
			}
			from, to = req.Status, req.Status

			switch req.Status {
			case model.StatusOnProcess:
				ok, err := s.requests.UpdateStatus(ctx, id, model.StatusOnProcess, model.StatusReady)
				if err != nil {
					return err
				}
				if !ok {
					return &TransitionError{Action: "print", From: req.Status}
				}
				to = model.StatusReady
			case model.StatusReady, model.StatusReleased:
			default:
				return &TransitionError{Action: "print", From: req.Status}
			}

			if !req.HasToken() {
				if err := s.ensureToken(ctx, id); err != nil {
					return err
				}
			}
			return s.audit(ctx, actor, id, model.ActionPrinted, from, to, "")
		})
	})
	if err != nil {
		return nil, err
	}
	if from != to {
		s.committed(ctx, actor, id, model.ActionPrinted, from, to)
	}

	view, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !view.HasToken() {
		return nil, ErrNoReleaseToken
	}

	releaseURL := qrcode.ReleaseURL(s.release.PublicBaseURL, *view.ReleaseToken)
	png, err := qrcode.Render(releaseURL, s.release.QRSize)
	if err != nil {
		return nil, fmt.Errorf("render qr code: %w", err)
	}

	art, err := s.store.SaveQRCode(ctx, id, png)
	if err != nil {
		return nil, fmt.Errorf("store qr code: %w", err)
	}
	s.log.Debug("qr_code_stored", zap.Int64("document_request_id", id), zap.String("key", art.Key), zap.Int64("size", art.Size))
	link, err := s.store.QRCodeURL(ctx, id, s.presignExpiry())
	if err != nil {
		return nil, fmt.Errorf("presign qr code: %w", err)
	}

	return &PrintResult{Request: view, ReleaseURL: releaseURL, QRCodeURL: link}, nil
}

func (s *documentRequestService) presignExpiry() time.Duration {
	if s.release.PresignExpirySec <= 0 {
		return defaultPresignExpiry
	}
	return time.Duration(s.release.PresignExpirySec) * time.Second
}

func (s *documentRequestService) QRCode(ctx context.Context, actor model.Actor, id int64) ([]byte, error) {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, requestNotFound(err, id)
	}
	if !actor.IsStaff() && req.UserID != actor.ID {
		return nil, ErrForbidden
	}
	if !req.HasToken() {
		return nil, ErrNoReleaseToken
	}
	return qrcode.Render(qrcode.ReleaseURL(s.release.PublicBaseURL, *req.ReleaseToken), s.release.QRSize)
}
