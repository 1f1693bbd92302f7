// Package storage persists uploaded images on local disk. The rest of the
// system only ever sees the returned relative path.
package storage

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UploadDir returns the root directory for stored images.
func UploadDir() string {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads"
	}
	return dir
}

// SaveImage writes the uploaded file under <upload_dir>/<subdir>/ with a
// collision-proof name and returns the path to store on the model.
func SaveImage(c *fiber.Ctx, file *multipart.FileHeader, subdir string) (string, error) {
	dir := filepath.Join(UploadDir(), subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(file.Filename))
	path := filepath.Join(dir, name)
	if err := c.SaveFile(file, path); err != nil {
		return "", err
	}
	return path, nil
}
