package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadSize = 5 << 20 // 5 MiB

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// Uploads stores product and content images on local disk under a
// uuid-based name, served back as static files.
type Uploads struct {
	dir string
}

func NewUploads(dir string) *Uploads {
	os.MkdirAll(dir, 0o755)
	return &Uploads{dir: dir}
}

// Upload accepts one multipart image (staff/admin) and returns its URL.
func (h *Uploads) Upload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "An image file is required.")
		return
	}
	if file.Size > maxUploadSize {
		respondError(c, http.StatusBadRequest, "Image must be smaller than 5 MB.")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		respondError(c, http.StatusBadRequest, "Unsupported image type.")
		return
	}

	name := uuid.New().String() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(h.dir, name)); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to store image.")
		return
	}

	respondData(c, http.StatusCreated, gin.H{"url": fmt.Sprintf("/uploads/%s", name)})
}
