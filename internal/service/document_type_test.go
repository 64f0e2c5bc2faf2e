package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"brgydocs/internal/model"
	"brgydocs/internal/repository"
	repoMocks "brgydocs/internal/repository/mocks"
)

func TestDocumentTypeService(t *testing.T) {
	ctx := context.Background()
	resident := model.Actor{ID: 5, Role: model.RoleResident}

	tests := []struct {
		name    string
		setup   func(m *repoMocks.MockDocumentTypeRepository)
		run     func(s DocumentTypeService) error
		wantErr error
	}{
		{
			name: "create trims the name",
			setup: func(m *repoMocks.MockDocumentTypeRepository) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(dt *model.DocumentType) bool {
					return dt.Name == "Certificate of Indigency" && dt.Fee.IsZero()
				})).Return(&model.DocumentType{ID: 3, Name: "Certificate of Indigency"}, nil).Once()
			},
			run: func(s DocumentTypeService) error {
				_, err := s.Create(ctx, staff, DocumentTypeInput{Name: " Certificate of Indigency "})
				return err
			},
		},
		{
			name: "duplicate name",
			setup: func(m *repoMocks.MockDocumentTypeRepository) {
				m.On("Create", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("%w: document_types_name_key", repository.ErrConflict)).Once()
			},
			run: func(s DocumentTypeService) error {
				_, err := s.Create(ctx, staff, DocumentTypeInput{Name: "Barangay Clearance"})
				return err
			},
			wantErr: ErrNameTaken,
		},
		{
			name:  "residents cannot edit the catalog",
			setup: func(m *repoMocks.MockDocumentTypeRepository) {},
			run: func(s DocumentTypeService) error {
				_, err := s.Create(ctx, resident, DocumentTypeInput{Name: "x"})
				return err
			},
			wantErr: ErrForbidden,
		},
		{
			name: "correct a referenced type",
			setup: func(m *repoMocks.MockDocumentTypeRepository) {
				m.On("Update", mock.Anything, &model.DocumentType{ID: 1, Name: "Barangay Clearance", Fee: decimal.NewFromInt(75)}).
					Return(&model.DocumentType{ID: 1, Name: "Barangay Clearance", Fee: decimal.NewFromInt(75)}, nil).Once()
			},
			run: func(s DocumentTypeService) error {
				_, err := s.Update(ctx, staff, 1, DocumentTypeInput{Name: "Barangay Clearance", Fee: decimal.NewFromInt(75)})
				return err
			},
		},
		{
			name: "update unknown type",
			setup: func(m *repoMocks.MockDocumentTypeRepository) {
				m.On("Update", mock.Anything, mock.Anything).Return(nil, repository.ErrNotFound).Once()
			},
			run: func(s DocumentTypeService) error {
				_, err := s.Update(ctx, staff, 9, DocumentTypeInput{Name: "x"})
				return err
			},
			wantErr: ErrNotFound,
		},
		{
			name:  "negative fee",
			setup: func(m *repoMocks.MockDocumentTypeRepository) {},
			run: func(s DocumentTypeService) error {
				_, err := s.Update(ctx, staff, 1, DocumentTypeInput{Name: "x", Fee: decimal.NewFromInt(-5)})
				return err
			},
			wantErr: &ValidationError{},
		},
		{
			name: "delete referenced type",
			setup: func(m *repoMocks.MockDocumentTypeRepository) {
				m.On("Delete", mock.Anything, int64(1)).
					Return(fmt.Errorf("%w: document_requests_document_type_id_fkey", repository.ErrReferenced)).Once()
			},
			run: func(s DocumentTypeService) error {
				return s.Delete(ctx, staff, 1)
			},
			wantErr: ErrReferenced,
		},
		{
			name: "delete unused type",
			setup: func(m *repoMocks.MockDocumentTypeRepository) {
				m.On("Delete", mock.Anything, int64(4)).Return(nil).Once()
			},
			run: func(s DocumentTypeService) error {
				return s.Delete(ctx, staff, 4)
			},
		},
		{
			name: "get unknown type",
			setup: func(m *repoMocks.MockDocumentTypeRepository) {
				m.On("FindByID", mock.Anything, int64(9)).Return(nil, repository.ErrNotFound).Once()
			},
			run: func(s DocumentTypeService) error {
				_, err := s.Get(ctx, 9)
				return err
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(repoMocks.MockDocumentTypeRepository)
			tt.setup(repo)
			svc := NewDocumentTypeService(repo, zap.NewNop())

			err := tt.run(svc)

			switch want := tt.wantErr.(type) {
			case nil:
				require.NoError(t, err)
			case *ValidationError:
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
			default:
				assert.ErrorIs(t, err, want)
			}
			repo.AssertExpectations(t)
		})
	}
}
