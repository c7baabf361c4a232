package content

import "context"

// Filter narrows and pages List results. The default sort is created_at
// descending; public listings sort by published_at instead.
type Filter struct {
	Category          Category
	Status            Status
	Page              int
	Limit             int
	SortByPublishedAt bool
}

// Repo defines persistence operations for content items.
type Repo interface {
	Create(ctx context.Context, item ContentItem) error
	GetByID(ctx context.Context, id string) (ContentItem, error)
	Update(ctx context.Context, item ContentItem) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter Filter) ([]ContentItem, int, error)
}
