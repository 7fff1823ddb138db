package photo

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Photo is one image in a user's gallery. PublicID is the identifier of the
// asset on the media host and never changes after creation. At most one photo
// per user carries IsMain = true.
type Photo struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	URL         string    `json:"url"`
	PublicID    string    `json:"public_id"`
	Description string    `json:"description"`
	IsMain      bool      `json:"is_main"`
	CreatedAt   time.Time `json:"created_at"`
}

type Repository interface {
	// Create persists p. The is_main flag on p is advisory: the repository
	// decides it atomically with the insert (the user's first photo becomes
	// main, concurrent first inserts produce exactly one main) and returns
	// the photo as persisted.
	Create(ctx context.Context, p *Photo) (*Photo, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Photo, error)
	// FindMainByUser returns apperror.ErrNotFound when the user has no main photo.
	FindMainByUser(ctx context.Context, userID uuid.UUID) (*Photo, error)
	// ListByUser returns the user's photos ordered by creation time ascending.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Photo, error)
	// SetMain clears the user's current main photo and marks photoID main in
	// one transaction. Returns apperror.ErrConflict when a concurrent writer
	// already changed the target's main-flag state.
	SetMain(ctx context.Context, userID, photoID uuid.UUID) error
	Update(ctx context.Context, p *Photo) error
	Delete(ctx context.Context, id uuid.UUID) error
}
