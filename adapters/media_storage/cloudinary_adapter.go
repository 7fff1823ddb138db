package media_storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/khoahotran/photo-gallery/internal/application/service"
	"github.com/khoahotran/photo-gallery/internal/config"
)

type cloudinaryAdapter struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryAdapter(cfg config.Config) (service.Uploader, error) {

	if cfg.Cloudinary.CloudName == "" {
		return nil, fmt.Errorf("cloudinary cloud_name has not config")
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}

	log.Println("connect Cloudinary successfully.")
	return &cloudinaryAdapter{cld: cld}, nil
}

func (a *cloudinaryAdapter) Upload(ctx context.Context, file io.Reader, folder, publicID, transformation string) (*service.UploadResult, error) {
	uploadParams := uploader.UploadParams{
		PublicID:       publicID,
		Folder:         folder,
		Transformation: transformation,
	}
	result, err := a.cld.Upload.Upload(ctx, file, uploadParams)
	if err != nil {
		return nil, fmt.Errorf("failed to upload cloudinary: %w", err)
	}
	return &service.UploadResult{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
	}, nil
}

func (a *cloudinaryAdapter) Delete(ctx context.Context, publicID string) error {
	result, err := a.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: publicID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete cloudinary: %w", err)
	}
	// "not found" means the asset is already gone, which is the state we want.
	if result.Result != "ok" && !strings.Contains(result.Result, "not found") {
		return fmt.Errorf("cloudinary destroy rejected: %s", result.Result)
	}
	return nil
}
