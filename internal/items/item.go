package items

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no item exists for the given ID.
var ErrNotFound = errors.New("item not found")

// Item is a catalog entry.
type Item struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	ImagePath   string    `json:"imagePath,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateItem carries the fields for a new item.
type CreateItem struct {
	Title       string
	Description string
	Price       float64
	ImagePath   string
}

// UpdateItem carries a partial update; nil fields are left unchanged.
type UpdateItem struct {
	Title       *string
	Description *string
	Price       *float64
	ImagePath   *string
}

// ListFilter bounds a listing query.
type ListFilter struct {
	Offset int
	Limit  int
}

// Repository defines the interface for item persistence.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	List(ctx context.Context, filter ListFilter) ([]*Item, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id uuid.UUID) error
}
