package photo

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/photo-gallery/adapters/event"
	"github.com/khoahotran/photo-gallery/internal/application/service"
	"github.com/khoahotran/photo-gallery/internal/domain/photo"
	"github.com/khoahotran/photo-gallery/pkg/apperror"
	"github.com/khoahotran/photo-gallery/pkg/logger"
)

type DeletePhotoUseCase struct {
	photoRepo photo.Repository
	uploader  service.Uploader
	publisher event.PhotoEventPublisher
	logger    logger.Logger
}

func NewDeletePhotoUseCase(r photo.Repository, u service.Uploader, pub event.PhotoEventPublisher, log logger.Logger) *DeletePhotoUseCase {
	return &DeletePhotoUseCase{photoRepo: r, uploader: u, publisher: pub, logger: log}
}

type DeletePhotoInput struct {
	UserID  uuid.UUID
	PhotoID uuid.UUID
}

// Execute removes the photo from the media host first, then deletes the
// record. The ordering fails closed: a remote delete failure aborts with
// nothing changed. If the record delete fails after the asset is gone, the
// dangling row is handed to the reconciliation worker via a photo.orphaned
// event and the operation still reports success, since the user-visible
// effect (the asset is gone) happened. Deleting the main photo designates no
// replacement.
func (uc *DeletePhotoUseCase) Execute(ctx context.Context, input DeletePhotoInput) error {
	p, err := uc.photoRepo.FindByID(ctx, input.PhotoID)
	if err != nil {
		return err
	}
	if p.UserID != input.UserID {
		return apperror.NewPermissionDenied("photo does not belong to this user")
	}

	if err := uc.uploader.Delete(ctx, p.PublicID); err != nil {
		return apperror.NewUpload("failed to delete photo from media host", err)
	}

	if err := uc.photoRepo.Delete(ctx, input.PhotoID); err != nil {
		uc.logger.Warn("Photo record left dangling after remote delete, scheduling reconciliation",
			zap.String("photo_id", input.PhotoID.String()), zap.Error(err))
		uc.publishEvent(event.PhotoEventTypeOrphaned, p)
		return nil
	}

	uc.publishEvent(event.PhotoEventTypeDeleted, p)
	return nil
}

func (uc *DeletePhotoUseCase) publishEvent(eventType event.PhotoEventType, p *photo.Photo) {
	go func() {
		payload := event.PhotoEventPayload{
			EventType: eventType,
			PhotoID:   p.ID,
			UserID:    p.UserID,
			PublicID:  p.PublicID,
		}
		if err := uc.publisher.PublishPhotoEvent(context.Background(), payload); err != nil {
			uc.logger.Error("Failed to publish photo event", err,
				zap.String("event_type", string(eventType)), zap.String("photo_id", p.ID.String()))
		}
	}()
}
