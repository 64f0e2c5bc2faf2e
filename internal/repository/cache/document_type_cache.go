// Package cache wraps repositories with in-process read-through caches.
package cache

import (
	"context"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"brgydocs/internal/model"
	"brgydocs/internal/repository"
)

const listKey = "list"

// DocumentTypes caches the document catalog, which is read on every request creation
// and changes only through administrative correction.
type DocumentTypes struct {
	next  repository.DocumentTypeRepository
	cache *gocache.Cache
}

func NewDocumentTypes(next repository.DocumentTypeRepository, ttl time.Duration) *DocumentTypes {
	return &DocumentTypes{next: next, cache: gocache.New(ttl, 2*ttl)}
}

var _ repository.DocumentTypeRepository = (*DocumentTypes)(nil)

func idKey(id int64) string { return "id:" + strconv.FormatInt(id, 10) }

func (c *DocumentTypes) FindByID(ctx context.Context, id int64) (*model.DocumentType, error) {
	if v, ok := c.cache.Get(idKey(id)); ok {
		dt := v.(model.DocumentType)
		return &dt, nil
	}
	dt, err := c.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(idKey(id), *dt)
	return dt, nil
}

func (c *DocumentTypes) List(ctx context.Context) ([]model.DocumentType, error) {
	if v, ok := c.cache.Get(listKey); ok {
		items := v.([]model.DocumentType)
		return append([]model.DocumentType(nil), items...), nil
	}
	items, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(listKey, append([]model.DocumentType(nil), items...))
	return items, nil
}

func (c *DocumentTypes) Create(ctx context.Context, dt *model.DocumentType) (*model.DocumentType, error) {
	out, err := c.next.Create(ctx, dt)
	if err == nil {
		c.cache.Delete(listKey)
	}
	return out, err
}

func (c *DocumentTypes) Update(ctx context.Context, dt *model.DocumentType) (*model.DocumentType, error) {
	out, err := c.next.Update(ctx, dt)
	c.invalidate(dt.ID)
	return out, err
}

func (c *DocumentTypes) Delete(ctx context.Context, id int64) error {
	err := c.next.Delete(ctx, id)
	c.invalidate(id)
	return err
}

func (c *DocumentTypes) invalidate(id int64) {
	c.cache.Delete(idKey(id))
	c.cache.Delete(listKey)
}
