package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campusevents_backend/internals/features/users/users/dto"
	"campusevents_backend/internals/features/users/users/model"
	helper "campusevents_backend/internals/helpers"
	"campusevents_backend/internals/helpers/apperr"
	"campusevents_backend/internals/helpers/dberr"
	"campusevents_backend/internals/logger"
)

var (
	ErrEmailTaken     = apperr.Conflict("email is already registered")
	ErrUserNotFound   = apperr.NotFound("user not found")
	ErrSelfDeactivate = apperr.Forbidden("admins cannot deactivate their own account")
)

type Service struct {
	DB         *gorm.DB
	Validator  *validator.Validate
	BcryptCost int
}

func New(db *gorm.DB, bcryptCost int) *Service {
	return &Service{DB: db, Validator: helper.NewValidator(), BcryptCost: bcryptCost}
}

// Create adds an ORGANIZER or STUDENT to the admin's own college.
func (s *Service) Create(ctx context.Context, collegeID uuid.UUID, req dto.CreateUserRequest) (*model.UserModel, error) {
	req.Normalize()
	if err := req.Validate(s.Validator); err != nil {
		return nil, apperr.Validation("invalid user payload", helper.ValidationFields(err))
	}
	hash, err := helper.HashPassword(req.Password, s.BcryptCost)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}
	u := req.ToModel(collegeID, hash)
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, apperr.Internal("create user", err)
	}
	logger.Ctx(ctx).Info("user created",
		zap.String("user_id", u.UserID.String()),
		zap.String("role", u.UserRole.String()))
	return u, nil
}

// SetActive toggles login ability inside one college.
func (s *Service) SetActive(ctx context.Context, collegeID, actorID, userID uuid.UUID, active bool) (*model.UserModel, error) {
	if userID == actorID && !active {
		return nil, ErrSelfDeactivate
	}
	var u model.UserModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, "user_id = ? AND user_college_id = ?", userID, collegeID).Error; err != nil {
			return err
		}
		u.UserIsActive = active
		return tx.Model(&u).Update("user_is_active", active).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Internal("update user", err)
	}
	return &u, nil
}

// FindInCollege loads a user scoped to a college; role optional.
func FindInCollege(ctx context.Context, db *gorm.DB, collegeID, userID uuid.UUID) (*model.UserModel, error) {
	var u model.UserModel
	if err := db.WithContext(ctx).First(&u, "user_id = ? AND user_college_id = ?", userID, collegeID).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
