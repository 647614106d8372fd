package handlers

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// FileHandler stores uploaded product images on disk and serves them back.
// The catalog itself only ever sees the URL strings this handler returns.
type FileHandler struct {
	uploadDir string
}

// NewFileHandler creates a new FileHandler rooted at uploadDir.
func NewFileHandler(uploadDir string) *FileHandler {
	return &FileHandler{
		uploadDir: uploadDir,
	}
}

// RegisterRoutes registers the file routes with the Fiber app.
func (h *FileHandler) RegisterRoutes(router fiber.Router) {
	fileRoutes := router.Group("/files")
	fileRoutes.Post("/product", h.HandleUpload)
	fileRoutes.Get("/product/:imageName", h.HandleServe)
}

// HandleUpload accepts a multipart image, stores it under a generated name,
// and returns the URL the catalog should reference.
func (h *FileHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Make sure that the file is an image",
		})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExtensions[ext] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("File extension %s is not allowed", ext),
		})
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		log.Printf("Failed to create upload dir %s: %v", h.uploadDir, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "something went wrong",
		})
	}

	fileName := uuid.New().String() + ext
	if err := c.SaveFile(file, filepath.Join(h.uploadDir, fileName)); err != nil {
		log.Printf("Failed to save uploaded file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "something went wrong",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"secureUrl": fmt.Sprintf("%s/api/v1/files/product/%s", c.BaseURL(), fileName),
		"fileName":  fileName,
	})
}

// HandleServe returns a stored product image by name.
func (h *FileHandler) HandleServe(c *fiber.Ctx) error {
	imageName := filepath.Base(c.Params("imageName"))
	path := filepath.Join(h.uploadDir, imageName)
	if _, err := os.Stat(path); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("No product found with image %s", imageName),
		})
	}
	return c.SendFile(path)
}
