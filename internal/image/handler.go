package image

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// RegisterAdminRoutes registers image management on the JWT-protected admin
// group.
func (h *Handler) RegisterAdminRoutes(admin fiber.Router) {
	admin.Get("/images", h.listImages)
	admin.Post("/images/upload", h.uploadImages)
	admin.Delete("/images/:filename", h.deleteImage)
}

func (h *Handler) listImages(c *fiber.Ctx) error {
	files, err := h.store.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"images": files})
}

// uploadImages accepts one or more files under the multipart field
// "images". Per-file failures are collected; the request only fails when
// nothing was stored.
func (h *Handler) uploadImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "no files provided"})
	}
	files := form.File["images"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "no files provided"})
	}

	uploaded := make([]string, 0, len(files))
	uploadErrors := make([]string, 0)

	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			uploadErrors = append(uploadErrors, fmt.Sprintf("%s: upload failed", fh.Filename))
			continue
		}
		name, err := h.store.Save(fh.Filename, fh.Header.Get("Content-Type"), fh.Size, src)
		src.Close()
		if err != nil {
			uploadErrors = append(uploadErrors, fmt.Sprintf("%s: %v", fh.Filename, err))
			continue
		}
		uploaded = append(uploaded, name)
	}

	if len(uploaded) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "no files uploaded", "errors": uploadErrors})
	}

	resp := fiber.Map{"success": true, "uploaded": uploaded}
	if len(uploadErrors) > 0 {
		resp["errors"] = uploadErrors
	}
	return c.JSON(resp)
}

func (h *Handler) deleteImage(c *fiber.Ctx) error {
	filename, err := url.PathUnescape(c.Params("filename"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid filename"})
	}

	if err := h.store.Delete(filename); err != nil {
		switch {
		case errors.Is(err, ErrInvalidFilename):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid filename"})
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "file not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"success": true})
}
