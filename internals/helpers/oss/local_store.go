package helper

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalPublicPath is where serve mounts UploadDir as static files.
const LocalPublicPath = "/uploads"

// LocalStore writes objects below Root. Used when OSS is not configured.
type LocalStore struct {
	Root    string
	BaseURL string
}

func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("upload dir is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStore) UploadImageAsWebP(ctx context.Context, dir string, fh *multipart.FileHeader, opt WebPOptions) (string, string, error) {
	data, err := convertHeader(fh, opt)
	if err != nil {
		return "", "", err
	}
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	key := BuildObjectKey("", dir, webpName(fh.Filename), time.Now())
	full, err := s.path(key)
	if err != nil {
		return "", "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", "", err
	}
	return s.BaseURL + "/" + key, key, nil
}

func (s *LocalStore) DeleteObject(_ context.Context, key string) error {
	if key == "" {
		return nil
	}
	full, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// path keeps keys inside Root.
func (s *LocalStore) path(key string) (string, error) {
	full := filepath.Join(s.Root, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.Root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("object key escapes upload dir: %s", key)
	}
	return full, nil
}
