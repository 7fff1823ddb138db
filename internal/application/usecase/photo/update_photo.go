package photo

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/photo-gallery/internal/domain/photo"
	"github.com/khoahotran/photo-gallery/pkg/apperror"
)

type UpdatePhotoUseCase struct {
	photoRepo photo.Repository
}

func NewUpdatePhotoUseCase(r photo.Repository) *UpdatePhotoUseCase {
	return &UpdatePhotoUseCase{photoRepo: r}
}

type UpdatePhotoInput struct {
	UserID      uuid.UUID
	PhotoID     uuid.UUID
	Description string
}

func (uc *UpdatePhotoUseCase) Execute(ctx context.Context, input UpdatePhotoInput) error {
	p, err := uc.photoRepo.FindByID(ctx, input.PhotoID)
	if err != nil {
		return err
	}
	if p.UserID != input.UserID {
		return apperror.NewPermissionDenied("photo does not belong to this user")
	}

	p.Description = input.Description
	return uc.photoRepo.Update(ctx, p)
}
