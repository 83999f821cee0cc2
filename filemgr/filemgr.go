package filemgr

import (
	"errors"
	"fmt"
	_ "image/gif"
	_ "image/png"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"agrisetu/utils"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

type EntityType string

const (
	EntityCrop       EntityType = "crop"
	EntityCollection EntityType = "collection"
	EntityUser       EntityType = "user"
	EntityQR         EntityType = "qr"
)

const (
	maxUploadSize = 10 << 20 // 10MB

	// Quality-check photos are normalized before inspection.
	processedMaxWidth  = 1024
	processedMaxHeight = 768
	processedQuality   = 85
)

var (
	allowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	allowedMIMEs      = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidMIME      = errors.New("invalid MIME type")
	ErrFileTooLarge     = errors.New("file size exceeds limit")
)

// ResolvePath returns the on-disk directory for an entity's images.
func ResolvePath(entity EntityType) string {
	return filepath.Join("static", "uploads", string(entity))
}

// WebPath converts a saved filename into the URL the API serves it under.
func WebPath(entity EntityType, filename string) string {
	return "/static/uploads/" + string(entity) + "/" + filename
}

// SaveQualityImages saves every file under the given form field, recompressed
// to a bounded size for inspection, and returns their web paths.
func SaveQualityImages(form *multipart.Form, field string, entity EntityType) ([]string, error) {
	if form == nil {
		return nil, nil
	}

	headers := form.File[field]
	paths := make([]string, 0, len(headers))
	for _, header := range headers {
		name, err := saveProcessedImage(header, entity)
		if err != nil {
			return nil, err
		}
		paths = append(paths, WebPath(entity, name))
	}
	return paths, nil
}

func saveProcessedImage(header *multipart.FileHeader, entity EntityType) (string, error) {
	if header.Size > maxUploadSize {
		return "", ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !contains(allowedExtensions, ext) {
		return "", fmt.Errorf("%w: %s", ErrInvalidExtension, ext)
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	head := make([]byte, 512)
	n, _ := file.Read(head)
	mimeType := http.DetectContentType(head[:n])
	if !contains(allowedMIMEs, mimeType) {
		return "", fmt.Errorf("%w: %s", ErrInvalidMIME, mimeType)
	}
	if _, err := file.Seek(0, 0); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	// Fit inside the inspection bounds without enlarging small photos.
	b := img.Bounds()
	if b.Dx() > processedMaxWidth || b.Dy() > processedMaxHeight {
		img = imaging.Fit(img, processedMaxWidth, processedMaxHeight, imaging.Lanczos)
	}

	destDir := ResolvePath(entity)
	if err := utils.EnsureDir(destDir); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", destDir, err)
	}

	filename := processedFilename(header.Filename)
	fullPath := filepath.Join(destDir, filename)
	if err := imaging.Save(img, fullPath, imaging.JPEGQuality(processedQuality)); err != nil {
		return "", fmt.Errorf("save %s: %w", fullPath, err)
	}
	return filename, nil
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9_\-]`)

func processedFilename(original string) string {
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = unsafeChars.ReplaceAllString(strings.ToLower(base), "")
	if base == "" {
		base = uuid.New().String()
	}
	return fmt.Sprintf("quality-%d-%s.jpg", time.Now().UnixNano(), base)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
