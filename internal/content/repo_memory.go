package content

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo for dev and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]ContentItem
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]ContentItem)}
}

// Create stores a new content item.
func (r *MemoryRepo) Create(ctx context.Context, item ContentItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	return nil
}

// GetByID returns a content item by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (ContentItem, error) {
	if err := ctx.Err(); err != nil {
		return ContentItem{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return ContentItem{}, ErrNotFound
	}
	return item, nil
}

// Update overwrites an existing item.
func (r *MemoryRepo) Update(ctx context.Context, item ContentItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return ErrNotFound
	}
	r.items[item.ID] = item
	return nil
}

// Delete removes an item.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// List returns a page of matching items plus the total match count.
func (r *MemoryRepo) List(ctx context.Context, filter Filter) ([]ContentItem, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	page, limit := normalizePage(filter.Page, filter.Limit)

	r.mu.RLock()
	var matched []ContentItem
	for _, item := range r.items {
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		matched = append(matched, item)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if filter.SortByPublishedAt {
			return publishedAfter(matched[i].PublishedAt, matched[j].PublishedAt)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := (page - 1) * limit
	if start >= total {
		return []ContentItem{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func publishedAfter(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.After(*b)
	}
}

var _ Repo = (*MemoryRepo)(nil)
