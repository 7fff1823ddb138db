package photo

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/photo-gallery/adapters/event"
	"github.com/khoahotran/photo-gallery/internal/application/service"
	"github.com/khoahotran/photo-gallery/internal/domain/photo"
	"github.com/khoahotran/photo-gallery/pkg/apperror"
	"github.com/khoahotran/photo-gallery/pkg/logger"
)

func testLogger() logger.Logger {
	return logger.NewZapLogger("development")
}

// memPhotoRepo is an in-memory photo.Repository honoring the same atomicity
// contracts as the postgres implementation.
type memPhotoRepo struct {
	mu     sync.Mutex
	photos map[uuid.UUID]*photo.Photo

	createErr error
	deleteErr error
}

func newMemPhotoRepo() *memPhotoRepo {
	return &memPhotoRepo{photos: make(map[uuid.UUID]*photo.Photo)}
}

func (r *memPhotoRepo) Create(ctx context.Context, p *photo.Photo) (*photo.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}

	p.IsMain = true
	for _, existing := range r.photos {
		if existing.UserID == p.UserID && existing.IsMain {
			p.IsMain = false
			break
		}
	}
	stored := *p
	r.photos[p.ID] = &stored
	return p, nil
}

func (r *memPhotoRepo) FindByID(ctx context.Context, id uuid.UUID) (*photo.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.photos[id]
	if !ok {
		return nil, apperror.NewNotFound("photo", id.String())
	}
	copied := *p
	return &copied, nil
}

func (r *memPhotoRepo) FindMainByUser(ctx context.Context, userID uuid.UUID) (*photo.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.photos {
		if p.UserID == userID && p.IsMain {
			copied := *p
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("main photo", userID.String())
}

func (r *memPhotoRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*photo.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*photo.Photo, 0)
	for _, p := range r.photos {
		if p.UserID == userID {
			copied := *p
			result = append(result, &copied)
		}
	}
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if result[j].CreatedAt.Before(result[i].CreatedAt) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}
	return result, nil
}

func (r *memPhotoRepo) SetMain(ctx context.Context, userID, photoID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.photos[photoID]
	if !ok || target.UserID != userID || target.IsMain {
		return apperror.NewConflict("photo", "main-flag state changed by a concurrent writer")
	}
	for _, p := range r.photos {
		if p.UserID == userID && p.IsMain {
			p.IsMain = false
		}
	}
	target.IsMain = true
	return nil
}

func (r *memPhotoRepo) Update(ctx context.Context, p *photo.Photo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.photos[p.ID]
	if !ok {
		return apperror.NewNotFound("photo", p.ID.String())
	}
	stored.Description = p.Description
	return nil
}

func (r *memPhotoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.photos[id]; !ok {
		return apperror.NewNotFound("photo", id.String())
	}
	delete(r.photos, id)
	return nil
}

func (r *memPhotoRepo) mainCountForUser(userID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, p := range r.photos {
		if p.UserID == userID && p.IsMain {
			count++
		}
	}
	return count
}

// fakeUploader records upload and delete calls.
type fakeUploader struct {
	mu          sync.Mutex
	uploadCalls []string
	deleteCalls []string

	uploadErr error
	deleteErr error
}

func (u *fakeUploader) Upload(ctx context.Context, file io.Reader, folder, publicID, transformation string) (*service.UploadResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.uploadErr != nil {
		return nil, u.uploadErr
	}
	u.uploadCalls = append(u.uploadCalls, publicID)
	return &service.UploadResult{
		URL:      "https://host/" + publicID + ".jpg",
		PublicID: publicID,
	}, nil
}

func (u *fakeUploader) Delete(ctx context.Context, publicID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.deleteErr != nil {
		return u.deleteErr
	}
	u.deleteCalls = append(u.deleteCalls, publicID)
	return nil
}

func (u *fakeUploader) deleted() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.deleteCalls...)
}

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(ctx context.Context, key string) (bool, error) { return true, nil }

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(ctx context.Context, key string) (bool, error) { return false, nil }

// memPublisher records published events in memory.
type memPublisher struct {
	mu     sync.Mutex
	events []event.PhotoEventPayload
}

func (p *memPublisher) PublishPhotoEvent(ctx context.Context, payload event.PhotoEventPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, payload)
	return nil
}

func (p *memPublisher) published() []event.PhotoEventPayload {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]event.PhotoEventPayload(nil), p.events...)
}

func (p *memPublisher) hasEvent(t event.PhotoEventType) bool {
	for _, e := range p.published() {
		if e.EventType == t {
			return true
		}
	}
	return false
}

func seedPhoto(repo *memPhotoRepo, userID uuid.UUID, isMain bool, createdAt time.Time) *photo.Photo {
	p := &photo.Photo{
		ID:        uuid.New(),
		UserID:    userID,
		URL:       "https://host/seed.jpg",
		PublicID:  "seed-" + uuid.NewString(),
		IsMain:    isMain,
		CreatedAt: createdAt,
	}
	repo.mu.Lock()
	stored := *p
	repo.photos[p.ID] = &stored
	repo.mu.Unlock()
	return p
}
