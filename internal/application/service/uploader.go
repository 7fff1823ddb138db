package service

import (
	"context"
	"io"
)

// ProfileTransformation is the eager transformation applied to gallery
// uploads: square crop centered on the face.
const ProfileTransformation = "w_500,h_500,c_fill,g_face"

type UploadResult struct {
	URL      string
	PublicID string
}

// Uploader is the asset store boundary. Delete is idempotent: removing an
// asset that is already gone is not an error.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder, publicID, transformation string) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}
