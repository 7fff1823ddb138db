package http

import (
	"time"

	"github.com/khoahotran/photo-gallery/internal/domain/photo"
)

// Photo DTOs

type PhotoDTO struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	IsMain      bool      `json:"is_main"`
	CreatedAt   time.Time `json:"created_at"`
}

type GalleryDTO struct {
	Photos []PhotoDTO `json:"photos"`
	Main   *PhotoDTO  `json:"main,omitempty"`
}

type UpdatePhotoRequest struct {
	Description string `json:"description" binding:"max=500"`
}

func ToPhotoDTO(p *photo.Photo) PhotoDTO {
	return PhotoDTO{
		ID:          p.ID.String(),
		URL:         p.URL,
		Description: p.Description,
		IsMain:      p.IsMain,
		CreatedAt:   p.CreatedAt,
	}
}

func ToGalleryDTO(photos []*photo.Photo, main *photo.Photo) GalleryDTO {
	dto := GalleryDTO{Photos: make([]PhotoDTO, len(photos))}
	for i, p := range photos {
		dto.Photos[i] = ToPhotoDTO(p)
	}
	if main != nil {
		mainDTO := ToPhotoDTO(main)
		dto.Main = &mainDTO
	}
	return dto
}
