package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"brgydocs/internal/logger"
	"brgydocs/internal/model"
	"brgydocs/internal/repository"
)

// DocumentTypeInput is the editable part of a catalog entry.
type DocumentTypeInput struct {
	Name string
	Fee  decimal.Decimal
}

// DocumentTypeService manages the catalog of requestable documents.
type DocumentTypeService interface {
	List(ctx context.Context) ([]model.DocumentType, error)
	Get(ctx context.Context, id int64) (*model.DocumentType, error)
	Create(ctx context.Context, actor model.Actor, in DocumentTypeInput) (*model.DocumentType, error)
	// Update is an administrative correction; it applies even to types already in use.
	Update(ctx context.Context, actor model.Actor, id int64, in DocumentTypeInput) (*model.DocumentType, error)
	// Delete is refused with ErrReferenced while any request uses the type.
	Delete(ctx context.Context, actor model.Actor, id int64) error
}

type documentTypeService struct {
	repo repository.DocumentTypeRepository
	log  *zap.Logger
}

func NewDocumentTypeService(repo repository.DocumentTypeRepository, log *zap.Logger) DocumentTypeService {
	return &documentTypeService{repo: repo, log: logger.Component(log, "document_types")}
}

func (in DocumentTypeInput) validate() (DocumentTypeInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	fields := map[string]string{}
	if in.Name == "" {
		fields["name"] = "is required"
	}
	if in.Fee.IsNegative() {
		fields["fee"] = "must not be negative"
	}
	if len(fields) > 0 {
		return in, &ValidationError{Fields: fields}
	}
	return in, nil
}

func typeError(err error, id int64) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("document type %d: %w", id, ErrNotFound)
	case errors.Is(err, repository.ErrConflict):
		return ErrNameTaken
	case errors.Is(err, repository.ErrReferenced):
		return ErrReferenced
	default:
		return err
	}
}

func (s *documentTypeService) List(ctx context.Context) ([]model.DocumentType, error) {
	return s.repo.List(ctx)
}

func (s *documentTypeService) Get(ctx context.Context, id int64) (*model.DocumentType, error) {
	dt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, typeError(err, id)
	}
	return dt, nil
}

func (s *documentTypeService) Create(ctx context.Context, actor model.Actor, in DocumentTypeInput) (*model.DocumentType, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	dt, err := s.repo.Create(ctx, &model.DocumentType{Name: in.Name, Fee: in.Fee})
	if err != nil {
		return nil, typeError(err, 0)
	}
	s.log.Info("document_type_created", zap.Int64("document_type_id", dt.ID), zap.Int64("actor_id", actor.ID))
	return dt, nil
}

func (s *documentTypeService) Update(ctx context.Context, actor model.Actor, id int64, in DocumentTypeInput) (*model.DocumentType, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	dt, err := s.repo.Update(ctx, &model.DocumentType{ID: id, Name: in.Name, Fee: in.Fee})
	if err != nil {
		return nil, typeError(err, id)
	}
	s.log.Info("document_type_corrected",
		zap.Int64("document_type_id", id),
		zap.Int64("actor_id", actor.ID),
		zap.String("name", dt.Name),
		zap.String("fee", dt.Fee.StringFixed(2)),
	)
	return dt, nil
}

func (s *documentTypeService) Delete(ctx context.Context, actor model.Actor, id int64) error {
	if !actor.IsStaff() {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return typeError(err, id)
	}
	s.log.Info("document_type_deleted", zap.Int64("document_type_id", id), zap.Int64("actor_id", actor.ID))
	return nil
}
