package photo

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/khoahotran/photo-gallery/internal/domain/photo"
	"github.com/khoahotran/photo-gallery/pkg/apperror"
)

type GalleryViewUseCase struct {
	photoRepo photo.Repository
}

func NewGalleryViewUseCase(r photo.Repository) *GalleryViewUseCase {
	return &GalleryViewUseCase{photoRepo: r}
}

type GalleryViewInput struct {
	UserID uuid.UUID
}

type GalleryViewOutput struct {
	Photos []*photo.Photo
	// Main is nil when the user has no main photo, which can happen after
	// the main photo was deleted and no replacement was chosen yet.
	Main *photo.Photo
}

// Execute recomputes the gallery view from repository state on every call.
// Nothing is cached, so the view is never stale.
func (uc *GalleryViewUseCase) Execute(ctx context.Context, input GalleryViewInput) (*GalleryViewOutput, error) {
	photos, err := uc.photoRepo.ListByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	main, err := uc.photoRepo.FindMainByUser(ctx, input.UserID)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		main = nil
	}

	return &GalleryViewOutput{Photos: photos, Main: main}, nil
}
