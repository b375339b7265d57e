package upload

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "lumbung/internal/errors"

	"github.com/google/uuid"
)

// URLPrefix is where stored files are served from.
const URLPrefix = "/uploads/"

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type Result struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
}

type Service interface {
	SaveImage(ctx context.Context, file *multipart.FileHeader) (*Result, error)
}

type service struct {
	dir     string
	maxSize int64
	now     func() time.Time
}

// NewService stores images under dir, creating it when missing.
func NewService(dir string, maxSize int64) (Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &service{dir: dir, maxSize: maxSize, now: time.Now}, nil
}

func (s *service) SaveImage(ctx context.Context, file *multipart.FileHeader) (*Result, error) {
	if file == nil {
		return nil, apperrors.Validation("file_required", "image file is required")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return nil, apperrors.Validation("invalid_file_type", "only .jpg, .jpeg, .png, .gif and .webp files are allowed")
	}
	if file.Size > s.maxSize {
		return nil, s.tooLarge()
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%s_%s%s", s.now().Format("20060102_150405"), uuid.NewString()[:8], ext)
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	written, err := io.Copy(dst, io.LimitReader(src, s.maxSize+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	if written > s.maxSize {
		os.Remove(path)
		return nil, s.tooLarge()
	}

	log.Printf("Stored upload %s (%d bytes)", name, written)
	return &Result{Filename: name, URL: URLPrefix + name, Size: written}, nil
}

func (s *service) tooLarge() error {
	return apperrors.Validation("file_too_large", "file exceeds the %.1f MB limit", float64(s.maxSize)/(1<<20))
}
