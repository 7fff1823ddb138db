package photo

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/photo-gallery/adapters/event"
	"github.com/khoahotran/photo-gallery/internal/application/service"
	"github.com/khoahotran/photo-gallery/internal/domain/photo"
	"github.com/khoahotran/photo-gallery/pkg/apperror"
	"github.com/khoahotran/photo-gallery/pkg/logger"
)

type AddPhotoUseCase struct {
	photoRepo   photo.Repository
	uploader    service.Uploader
	rateLimiter service.RateLimiter
	publisher   event.PhotoEventPublisher
	logger      logger.Logger
}

func NewAddPhotoUseCase(
	r photo.Repository,
	u service.Uploader,
	rl service.RateLimiter,
	pub event.PhotoEventPublisher,
	log logger.Logger,
) *AddPhotoUseCase {
	return &AddPhotoUseCase{photoRepo: r, uploader: u, rateLimiter: rl, publisher: pub, logger: log}
}

type AddPhotoInput struct {
	UserID      uuid.UUID
	File        io.Reader
	Description string
}

type AddPhotoOutput struct {
	Photo *photo.Photo
}

// Execute uploads the image and persists its record. Upload-then-persist is
// one logical transaction: when the insert fails after a successful upload,
// the remote asset is deleted before the error is surfaced, so no asset is
// left orphaned on the media host.
func (uc *AddPhotoUseCase) Execute(ctx context.Context, input AddPhotoInput) (*AddPhotoOutput, error) {
	allowed, err := uc.rateLimiter.Allow(ctx, fmt.Sprintf("upload:%s", input.UserID))
	if err != nil {
		uc.logger.Warn("Rate limiter unavailable, letting upload through", zap.Error(err))
	} else if !allowed {
		return nil, apperror.NewRateLimited("upload quota exceeded for user")
	}

	photoID := uuid.New()
	folder := fmt.Sprintf("users/%s/photos", input.UserID.String())

	result, err := uc.uploader.Upload(ctx, input.File, folder, photoID.String(), service.ProfileTransformation)
	if err != nil {
		return nil, apperror.NewUpload("failed to upload photo to media host", err)
	}

	newPhoto := &photo.Photo{
		ID:          photoID,
		UserID:      input.UserID,
		URL:         result.URL,
		PublicID:    result.PublicID,
		Description: input.Description,
		CreatedAt:   time.Now().UTC(),
	}

	persisted, err := uc.photoRepo.Create(ctx, newPhoto)
	if err != nil {
		// Compensation: the upload succeeded but the record did not stick.
		// Remove the remote asset before reporting the failure.
		if delErr := uc.uploader.Delete(context.Background(), result.PublicID); delErr != nil {
			uc.logger.Error("Failed to delete remote asset after persist failure", delErr,
				zap.String("public_id", result.PublicID))
		}
		return nil, err
	}

	go func() {
		payload := event.PhotoEventPayload{
			EventType: event.PhotoEventTypeUploaded,
			PhotoID:   persisted.ID,
			UserID:    persisted.UserID,
			PublicID:  persisted.PublicID,
		}
		if err := uc.publisher.PublishPhotoEvent(context.Background(), payload); err != nil {
			uc.logger.Error("Failed to publish 'photo.uploaded' event", err, zap.String("photo_id", persisted.ID.String()))
		}
	}()

	return &AddPhotoOutput{Photo: persisted}, nil
}
