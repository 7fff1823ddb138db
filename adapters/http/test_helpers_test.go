package http

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/khoahotran/photo-gallery/adapters/event"
	"github.com/khoahotran/photo-gallery/internal/application/service"
	photoUC "github.com/khoahotran/photo-gallery/internal/application/usecase/photo"
	"github.com/khoahotran/photo-gallery/internal/domain/photo"
	"github.com/khoahotran/photo-gallery/pkg/apperror"
	"github.com/khoahotran/photo-gallery/pkg/logger"
)

type memPhotoRepo struct {
	mu     sync.Mutex
	photos map[uuid.UUID]*photo.Photo
}

func newMemPhotoRepo() *memPhotoRepo {
	return &memPhotoRepo{photos: make(map[uuid.UUID]*photo.Photo)}
}

func (r *memPhotoRepo) Create(ctx context.Context, p *photo.Photo) (*photo.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
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
	if _, ok := r.photos[id]; !ok {
		return apperror.NewNotFound("photo", id.String())
	}
	delete(r.photos, id)
	return nil
}

func (r *memPhotoRepo) seed(userID uuid.UUID, isMain bool, createdAt time.Time) *photo.Photo {
	p := &photo.Photo{
		ID:        uuid.New(),
		UserID:    userID,
		URL:       "https://host/seed.jpg",
		PublicID:  "seed-" + uuid.NewString(),
		IsMain:    isMain,
		CreatedAt: createdAt,
	}
	r.mu.Lock()
	stored := *p
	r.photos[p.ID] = &stored
	r.mu.Unlock()
	return p
}

type fakeUploader struct{}

func (fakeUploader) Upload(ctx context.Context, file io.Reader, folder, publicID, transformation string) (*service.UploadResult, error) {
	return &service.UploadResult{
		URL:      "https://host/" + publicID + ".jpg",
		PublicID: publicID,
	}, nil
}

func (fakeUploader) Delete(ctx context.Context, publicID string) error { return nil }

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(ctx context.Context, key string) (bool, error) { return true, nil }

type noopPublisher struct{}

func (noopPublisher) PublishPhotoEvent(ctx context.Context, payload event.PhotoEventPayload) error {
	return nil
}

// newTestRouter wires the photo routes with in-memory collaborators. The auth
// middleware is replaced by one injecting the given user id.
func newTestRouter(repo *memPhotoRepo, userID uuid.UUID) *gin.Engine {
	log := logger.NewZapLogger("development")

	addUC := photoUC.NewAddPhotoUseCase(repo, fakeUploader{}, allowAllLimiter{}, noopPublisher{}, log)
	setMainUC := photoUC.NewSetMainPhotoUseCase(repo, noopPublisher{}, log)
	deleteUC := photoUC.NewDeletePhotoUseCase(repo, fakeUploader{}, noopPublisher{}, log)
	updateUC := photoUC.NewUpdatePhotoUseCase(repo)
	viewUC := photoUC.NewGalleryViewUseCase(repo)

	handler := NewPhotoHandler(addUC, setMainUC, deleteUC, updateUC, viewUC, log)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorMiddleware(log))
	router.Use(func(c *gin.Context) {
		c.Set(GinContextKeyUserID, userID)
		c.Next()
	})

	photos := router.Group("/api/me/photos")
	{
		photos.POST("", handler.AddPhoto)
		photos.GET("", handler.GetGallery)
		photos.PUT("/:id/main", handler.SetMainPhoto)
		photos.PUT("/:id", handler.UpdatePhoto)
		photos.DELETE("/:id", handler.DeletePhoto)
	}
	return router
}

func multipartUpload(description string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", "photo.jpg")
	part.Write([]byte("fake-image-bytes"))
	if description != "" {
		writer.WriteField("description", description)
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func doRequest(router *gin.Engine, method, url string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}
