// Package repository contains data access abstractions. Implementations live in
// subpackages (postgres, cache) and contain no business logic.
package repository

import (
	"context"
	"errors"
)

// Infrastructure facts returned (optionally wrapped) by implementations.
// Services translate them into domain errors.
var (
	ErrNotFound              = errors.New("not found")
	ErrConflict              = errors.New("conflict")
	ErrReferenced            = errors.New("referenced by other records")
	ErrDuplicateORNumber     = errors.New("duplicate or number")
	ErrDuplicateReleaseToken = errors.New("duplicate release token")
)

// TxManager runs a unit of work inside a single database transaction.
// Repositories called with the ctx passed to fn participate in that transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
