package helper

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"go.uber.org/zap"

	"campusevents_backend/internals/configs"
	"campusevents_backend/internals/logger"
)

type OSSService struct {
	Client        *oss.Client
	Bucket        *oss.Bucket
	Endpoint      string
	BucketName    string
	Prefix        string
	PublicBaseURL string
}

func NewOSSService(cfg configs.OSSConfig) (*OSSService, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bkt, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	// light location check; restricted keys often lack GetBucketLocation
	if loc, err := client.GetBucketLocation(cfg.Bucket); err != nil {
		if se, ok := err.(oss.ServiceError); ok && se.StatusCode == 403 {
			logger.L().Warn("OSS location check denied, continuing", zap.String("bucket", cfg.Bucket))
		} else {
			return nil, fmt.Errorf("verify bucket: %w", err)
		}
	} else {
		logger.L().Info("OSS bucket ready", zap.String("bucket", cfg.Bucket), zap.String("location", loc))
	}

	return &OSSService{
		Client:        client,
		Bucket:        bkt,
		Endpoint:      cfg.Endpoint,
		BucketName:    cfg.Bucket,
		Prefix:        cfg.Prefix,
		PublicBaseURL: cfg.PublicBaseURL,
	}, nil
}

func (s *OSSService) UploadImageAsWebP(ctx context.Context, dir string, fh *multipart.FileHeader, opt WebPOptions) (string, string, error) {
	data, err := convertHeader(fh, opt)
	if err != nil {
		return "", "", err
	}
	key := BuildObjectKey(s.Prefix, dir, webpName(fh.Filename), time.Now())
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType("image/webp"),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	if err := s.Bucket.PutObject(key, bytes.NewReader(data), opts...); err != nil {
		return "", "", err
	}
	return s.PublicURL(key), key, nil
}

func (s *OSSService) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.Bucket.DeleteObject(key, oss.WithContext(ctx))
}

// PublicURL prefers the configured CDN base, else the virtual-hosted bucket URL.
func (s *OSSService) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	if s.PublicBaseURL != "" {
		return s.PublicBaseURL + "/" + key
	}
	end := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.BucketName, end, key)
}
