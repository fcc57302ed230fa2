package service

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campusevents_backend/internals/features/campus/colleges/dto"
	"campusevents_backend/internals/features/campus/colleges/model"
	helper "campusevents_backend/internals/helpers"
	"campusevents_backend/internals/helpers/apperr"
	helperOSS "campusevents_backend/internals/helpers/oss"
	"campusevents_backend/internals/logger"
)

var (
	ErrCollegeNotFound = apperr.NotFound("college not found")
	ErrUploadDisabled  = apperr.Precondition("logo upload is not configured")
)

type Service struct {
	DB        *gorm.DB
	Blob      helperOSS.BlobService
	Validator *validator.Validate
}

// New: blob may be nil, then only logo URLs can be set.
func New(db *gorm.DB, blob helperOSS.BlobService) *Service {
	return &Service{DB: db, Blob: blob, Validator: helper.NewValidator()}
}

func (s *Service) Get(ctx context.Context, collegeID uuid.UUID) (*model.CollegeModel, error) {
	var m model.CollegeModel
	if err := s.DB.WithContext(ctx).First(&m, "college_id = ?", collegeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollegeNotFound
		}
		return nil, apperr.Internal("load college", err)
	}
	return &m, nil
}

// Patch updates name and logo URL. The code never changes after bootstrap.
func (s *Service) Patch(ctx context.Context, collegeID uuid.UUID, req dto.PatchCollegeRequest) (*model.CollegeModel, error) {
	req.Normalize()
	if err := req.Validate(s.Validator); err != nil {
		return nil, apperr.Validation("invalid college payload", helper.ValidationFields(err))
	}

	cur, err := s.Get(ctx, collegeID)
	if err != nil {
		return nil, err
	}
	updates := req.Apply()
	if len(updates) == 0 {
		return cur, nil
	}
	oldKey := copyKey(cur.CollegeLogoObjectKey)

	if err := s.DB.WithContext(ctx).Model(cur).Updates(updates).Error; err != nil {
		return nil, apperr.Internal("update college", err)
	}
	if req.Logo != nil {
		s.dropObject(ctx, oldKey)
	}
	return s.Get(ctx, collegeID)
}

// UploadLogo stores a WebP rendition and points the college at it.
func (s *Service) UploadLogo(ctx context.Context, collegeID uuid.UUID, fh *multipart.FileHeader) (*model.CollegeModel, error) {
	if s.Blob == nil {
		return nil, ErrUploadDisabled
	}
	cur, err := s.Get(ctx, collegeID)
	if err != nil {
		return nil, err
	}

	url, key, err := s.Blob.UploadImageAsWebP(ctx, collegeID.String(), fh, helperOSS.LogoOptions())
	if err != nil {
		if errors.Is(err, helperOSS.ErrUnsupportedImage) || errors.Is(err, helperOSS.ErrEmptyFile) || errors.Is(err, helperOSS.ErrTooLarge) {
			return nil, apperr.Validation("invalid logo", map[string][]string{"logo": {err.Error()}})
		}
		return nil, apperr.Internal("upload logo", err)
	}

	oldKey := copyKey(cur.CollegeLogoObjectKey)
	if err := s.DB.WithContext(ctx).Model(cur).Updates(map[string]any{
		"college_logo_url":        url,
		"college_logo_object_key": key,
	}).Error; err != nil {
		s.dropObject(ctx, &key)
		return nil, apperr.Internal("update college logo", err)
	}
	s.dropObject(ctx, oldKey)

	logger.Ctx(ctx).Info("college logo replaced",
		zap.String("college_id", collegeID.String()),
		zap.String("object_key", key))
	return s.Get(ctx, collegeID)
}

// dropObject is best-effort.
func (s *Service) dropObject(ctx context.Context, key *string) {
	if s.Blob == nil || key == nil || *key == "" {
		return
	}
	if err := s.Blob.DeleteObject(ctx, *key); err != nil {
		logger.Ctx(ctx).Warn("delete previous logo failed", zap.String("object_key", *key), zap.Error(err))
	}
}

// copyKey detaches the key from the model GORM is about to update.
func copyKey(k *string) *string {
	if k == nil {
		return nil
	}
	v := *k
	return &v
}
