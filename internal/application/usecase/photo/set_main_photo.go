package photo

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/photo-gallery/adapters/event"
	"github.com/khoahotran/photo-gallery/internal/domain/photo"
	"github.com/khoahotran/photo-gallery/pkg/apperror"
	"github.com/khoahotran/photo-gallery/pkg/logger"
)

type SetMainPhotoUseCase struct {
	photoRepo photo.Repository
	publisher event.PhotoEventPublisher
	logger    logger.Logger
}

func NewSetMainPhotoUseCase(r photo.Repository, pub event.PhotoEventPublisher, log logger.Logger) *SetMainPhotoUseCase {
	return &SetMainPhotoUseCase{photoRepo: r, publisher: pub, logger: log}
}

type SetMainPhotoInput struct {
	UserID  uuid.UUID
	PhotoID uuid.UUID
}

// Execute designates the photo as the user's main photo. The repository
// clears the previous main and sets the new one in one transaction; a
// conflict from a concurrent reassignment surfaces as apperror.ErrConflict
// and the whole operation is safe to retry. Targeting the current main
// returns apperror.ErrAlreadyMain without touching state.
func (uc *SetMainPhotoUseCase) Execute(ctx context.Context, input SetMainPhotoInput) error {
	p, err := uc.photoRepo.FindByID(ctx, input.PhotoID)
	if err != nil {
		return err
	}
	if p.UserID != input.UserID {
		return apperror.NewPermissionDenied("photo does not belong to this user")
	}
	if p.IsMain {
		return apperror.NewAlreadyMain(p.ID.String())
	}

	if err := uc.photoRepo.SetMain(ctx, input.UserID, input.PhotoID); err != nil {
		return err
	}

	go func() {
		payload := event.PhotoEventPayload{
			EventType: event.PhotoEventTypeMainSet,
			PhotoID:   input.PhotoID,
			UserID:    input.UserID,
		}
		if err := uc.publisher.PublishPhotoEvent(context.Background(), payload); err != nil {
			uc.logger.Error("Failed to publish 'photo.main_set' event", err, zap.String("photo_id", input.PhotoID.String()))
		}
	}()

	return nil
}
