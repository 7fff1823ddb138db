package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	photoUC "github.com/khoahotran/photo-gallery/internal/application/usecase/photo"
	"github.com/khoahotran/photo-gallery/pkg/apperror"
	"github.com/khoahotran/photo-gallery/pkg/logger"
)

type PhotoHandler struct {
	addPhotoUC     *photoUC.AddPhotoUseCase
	setMainPhotoUC *photoUC.SetMainPhotoUseCase
	deletePhotoUC  *photoUC.DeletePhotoUseCase
	updatePhotoUC  *photoUC.UpdatePhotoUseCase
	galleryViewUC  *photoUC.GalleryViewUseCase
	logger         logger.Logger
}

func NewPhotoHandler(
	addUC *photoUC.AddPhotoUseCase,
	setMainUC *photoUC.SetMainPhotoUseCase,
	deleteUC *photoUC.DeletePhotoUseCase,
	updateUC *photoUC.UpdatePhotoUseCase,
	viewUC *photoUC.GalleryViewUseCase,
	log logger.Logger,
) *PhotoHandler {
	return &PhotoHandler{
		addPhotoUC:     addUC,
		setMainPhotoUC: setMainUC,
		deletePhotoUC:  deleteUC,
		updatePhotoUC:  updateUC,
		galleryViewUC:  viewUC,
		logger:         log,
	}
}

func (h *PhotoHandler) AddPhoto(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("userID not found in context"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewInvalidInput("'file' is required", err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("failed to open file", err))
		return
	}
	defer file.Close()

	input := photoUC.AddPhotoInput{
		UserID:      userID,
		File:        file,
		Description: c.PostForm("description"),
	}

	output, err := h.addPhotoUC.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, ToPhotoDTO(output.Photo))
}

func (h *PhotoHandler) SetMainPhoto(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("userID not found in context"))
		return
	}
	photoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid photo ID", err))
		return
	}

	input := photoUC.SetMainPhotoInput{UserID: userID, PhotoID: photoID}
	if err := h.setMainPhotoUC.Execute(c.Request.Context(), input); err != nil {
		// Already-main is a no-op, not a failure.
		if errors.Is(err, apperror.ErrAlreadyMain) {
			c.JSON(http.StatusOK, gin.H{"message": "Photo is already the main photo"})
			return
		}
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Main photo updated"})
}

func (h *PhotoHandler) UpdatePhoto(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("userID not found in context"))
		return
	}
	photoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid photo ID", err))
		return
	}

	var req UpdatePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	input := photoUC.UpdatePhotoInput{
		UserID:      userID,
		PhotoID:     photoID,
		Description: req.Description,
	}

	if err := h.updatePhotoUC.Execute(c.Request.Context(), input); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Photo updated"})
}

func (h *PhotoHandler) DeletePhoto(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("userID not found in context"))
		return
	}
	photoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid photo ID", err))
		return
	}

	input := photoUC.DeletePhotoInput{UserID: userID, PhotoID: photoID}
	if err := h.deletePhotoUC.Execute(c.Request.Context(), input); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PhotoHandler) GetGallery(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("userID not found in context"))
		return
	}

	output, err := h.galleryViewUC.Execute(c.Request.Context(), photoUC.GalleryViewInput{UserID: userID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToGalleryDTO(output.Photos, output.Main))
}
