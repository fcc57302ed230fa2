package helper

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"campusevents_backend/internals/configs"
	"campusevents_backend/internals/logger"
)

/*
BlobService is the upload/delete facade controllers and services use.
Implementations: Aliyun OSS (OSSService) and local disk (LocalStore).
*/
type BlobService interface {
	// UploadImageAsWebP recompresses fh and stores it under dir. Returns the public URL and object key.
	UploadImageAsWebP(ctx context.Context, dir string, fh *multipart.FileHeader, opt WebPOptions) (publicURL, objectKey string, err error)
	DeleteObject(ctx context.Context, objectKey string) error
}

// NewBlobService picks OSS when fully configured, else local disk.
func NewBlobService(cfg *configs.AppConfig) (BlobService, error) {
	if cfg.OSS.Enabled() {
		s, err := NewOSSService(cfg.OSS)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	logger.L().Info("OSS not configured, storing uploads on local disk", zap.String("dir", cfg.UploadDir))
	s, err := NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL+LocalPublicPath)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// IsMultipart reports a multipart/form-data request.
func IsMultipart(c *fiber.Ctx) bool {
	ct := strings.ToLower(strings.TrimSpace(c.Get(fiber.HeaderContentType)))
	return strings.HasPrefix(ct, "multipart/form-data")
}

var defaultImageFields = []string{"logo", "image", "file"}

// GetImageFile returns the first file found in fieldNames (or the defaults).
func GetImageFile(c *fiber.Ctx, fieldNames ...string) (*multipart.FileHeader, error) {
	if !IsMultipart(c) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "use multipart/form-data")
	}
	names := fieldNames
	if len(names) == 0 {
		names = defaultImageFields
	}
	for _, fn := range names {
		if fh, err := c.FormFile(fn); err == nil && fh != nil {
			return fh, nil
		}
	}
	return nil, fiber.NewError(fiber.StatusBadRequest, "image file is required")
}

func convertHeader(fh *multipart.FileHeader, opt WebPOptions) ([]byte, error) {
	if fh == nil {
		return nil, errors.New("nil file header")
	}
	if fh.Size > MaxUploadSize {
		return nil, ErrTooLarge
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer src.Close()
	return ConvertToWebP(src, fh.Filename, opt)
}

/* =======================================================================
   Key utils
======================================================================= */

// BuildObjectKey: <prefix>/<dir>/<slug>_<ts>_<rand><ext>
func BuildObjectKey(prefix, dir, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	parts := make([]string, 0, 3)
	for _, p := range []string{prefix, dir} {
		if p = strings.Trim(strings.TrimSpace(p), "/"); p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, fmt.Sprintf("%s_%s_%s%s", slugify(base), now.UTC().Format("20060102_150405"), randHex(3), ext))
	return strings.Join(parts, "/")
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "-", "_", "-").Replace(s)
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, s)
	if s == "" {
		return "file"
	}
	return s
}

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func webpName(filename string) string {
	return strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)) + ".webp"
}
