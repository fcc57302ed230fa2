// file: internals/features/platform/bootstrap/service/bootstrap_service.go
package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campusevents_backend/internals/constants"
	collegeModel "campusevents_backend/internals/features/campus/colleges/model"
	"campusevents_backend/internals/features/platform/bootstrap/dto"
	"campusevents_backend/internals/features/platform/bootstrap/model"
	userModel "campusevents_backend/internals/features/users/users/model"
	helper "campusevents_backend/internals/helpers"
	"campusevents_backend/internals/helpers/apperr"
	"campusevents_backend/internals/helpers/dberr"
	"campusevents_backend/internals/logger"
	"campusevents_backend/internals/metrics"
)

var (
	ErrAlreadyInitialized = apperr.Precondition("platform is already initialized")
	ErrCodeTaken          = apperr.Conflict("college code is already in use")
	ErrEmailTaken         = apperr.Conflict("admin email is already registered")
	ErrConcurrentSetup    = apperr.Conflict("platform initialization raced with another request")
)

type Service struct {
	DB         *gorm.DB
	Validator  *validator.Validate
	BcryptCost int
}

func New(db *gorm.DB, bcryptCost int) *Service {
	return &Service{DB: db, Validator: helper.NewValidator(), BcryptCost: bcryptCost}
}

type Result struct {
	College collegeModel.CollegeModel
	Admin   userModel.UserModel
}

// IsInitialized reports whether any college exists.
func (s *Service) IsInitialized(ctx context.Context) (bool, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&collegeModel.CollegeModel{}).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// Bootstrap creates the first college and its ADMIN atomically, at most once.
//
// The college count is only a fast path. Exactly-once comes from the
// platform_bootstrap primary key and the unique code/email indexes: a racing
// request fails inside the transaction and nothing it wrote survives.
func (s *Service) Bootstrap(ctx context.Context, req dto.BootstrapRequest) (*Result, error) {
	res, err := s.bootstrap(ctx, req)
	metrics.BootstrapAttempts.WithLabelValues(outcome(err)).Inc()
	return res, err
}

func (s *Service) bootstrap(ctx context.Context, req dto.BootstrapRequest) (*Result, error) {
	req.Normalize()
	if err := req.Validate(s.Validator); err != nil {
		if fields := helper.ValidationFields(err); fields != nil {
			return nil, apperr.Validation("invalid bootstrap payload", fields)
		}
		return nil, apperr.Internal("validate bootstrap payload", err)
	}

	initialized, err := s.IsInitialized(ctx)
	if err != nil {
		return nil, apperr.Internal("count colleges", err)
	}
	if initialized {
		return nil, ErrAlreadyInitialized
	}

	hash, err := helper.HashPassword(req.Admin.Password, s.BcryptCost)
	if err != nil {
		return nil, apperr.Internal("hash admin password", err)
	}

	college := collegeModel.CollegeModel{
		CollegeName:    req.College.Name,
		CollegeCode:    req.College.Code,
		CollegeLogoURL: req.College.Logo,
	}
	admin := userModel.UserModel{
		UserName:         req.Admin.Name,
		UserEmail:        req.Admin.Email,
		UserPasswordHash: hash,
		UserRole:         constants.RoleAdmin,
		UserIsActive:     true,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&collegeModel.CollegeModel{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadyInitialized
		}

		if taken, err := exists(tx, &collegeModel.CollegeModel{}, "college_code = ?", college.CollegeCode); err != nil {
			return err
		} else if taken {
			return ErrCodeTaken
		}
		if taken, err := exists(tx, &userModel.UserModel{}, "user_email = ?", admin.UserEmail); err != nil {
			return err
		} else if taken {
			return ErrEmailTaken
		}

		if err := tx.Create(&college).Error; err != nil {
			return err
		}
		admin.UserCollegeID = college.CollegeID
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}

		marker := model.PlatformBootstrapModel{
			PlatformBootstrapKey:       model.PlatformKey,
			PlatformBootstrapCollegeID: college.CollegeID,
			PlatformBootstrapAdminID:   admin.UserID,
		}
		return tx.Create(&marker).Error
	})
	if err != nil {
		if _, ok := apperr.As(err); ok {
			return nil, err
		}
		if dberr.IsUniqueViolation(err) {
			logger.Ctx(ctx).Warn("bootstrap lost a race on a unique constraint", zap.Error(err))
			return nil, ErrConcurrentSetup.Wrap(err)
		}
		return nil, apperr.Internal("bootstrap transaction", err)
	}

	logger.Ctx(ctx).Info("✅ platform bootstrapped",
		zap.String("college_code", college.CollegeCode),
		zap.String("college_id", college.CollegeID.String()),
		zap.String("admin_id", admin.UserID.String()),
	)
	return &Result{College: college, Admin: admin}, nil
}

func exists(tx *gorm.DB, m any, query string, args ...any) (bool, error) {
	var n int64
	if err := tx.Model(m).Where(query, args...).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func outcome(err error) string {
	if err == nil {
		return "created"
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae.Kind.String()
	}
	return "internal"
}
