package handlers

import (
	"lumbung/internal/services/upload"

	"github.com/gofiber/fiber/v2"
)

// UploadHandler handles file uploads
type UploadHandler struct {
	uploadService upload.Service
}

func NewUploadHandler(uploadService upload.Service) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// UploadImage stores one image sent as multipart field "file" (or "image").
func (h *UploadHandler) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		file, err = c.FormFile("image")
	}
	if err != nil {
		file = nil
	}

	res, err := h.uploadService.SaveImage(c.UserContext(), file)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}
