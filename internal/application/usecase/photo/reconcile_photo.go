package photo

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/khoahotran/photo-gallery/adapters/event"
	"github.com/khoahotran/photo-gallery/internal/domain/photo"
	"github.com/khoahotran/photo-gallery/pkg/apperror"
	"github.com/khoahotran/photo-gallery/pkg/logger"
)

type ReconcilePhotoEventUseCase struct {
	photoRepo photo.Repository
	logger    logger.Logger
}

func NewReconcilePhotoEventUseCase(r photo.Repository, log logger.Logger) *ReconcilePhotoEventUseCase {
	return &ReconcilePhotoEventUseCase{photoRepo: r, logger: log}
}

// Execute handles photo.events in the worker. Only photo.orphaned needs
// action: the remote asset is already gone, so the dangling record is pruned.
// Missing records mean a previous attempt (or the API itself) already
// succeeded, which makes the handler safe to re-run.
func (uc *ReconcilePhotoEventUseCase) Execute(ctx context.Context, payload event.PhotoEventPayload) error {
	l := uc.logger.With(zap.String("photo_id", payload.PhotoID.String()), zap.String("event_type", string(payload.EventType)))

	if payload.EventType != event.PhotoEventTypeOrphaned {
		return nil
	}
	l.Info("Worker pruning orphaned photo record")

	if err := uc.photoRepo.Delete(ctx, payload.PhotoID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			l.Info("Orphaned photo record already pruned, skipping")
			return nil
		}
		return apperror.NewInternal("failed to prune orphaned photo record", err)
	}

	l.Info("Pruned orphaned photo record")
	return nil
}
