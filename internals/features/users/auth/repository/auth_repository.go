// internals/features/users/auth/repository/auth_repository.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	collegeModel "campusevents_backend/internals/features/campus/colleges/model"
	authModel "campusevents_backend/internals/features/users/auth/model"
	userModel "campusevents_backend/internals/features/users/users/model"
)

/* ====================== USER ====================== */

func FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).Where("user_email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByGoogleID(ctx context.Context, db *gorm.DB, googleID string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).Where("user_google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).First(&user, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserActive loads only the flag the auth middleware needs.
func FindUserActive(ctx context.Context, db *gorm.DB, userID uuid.UUID) (bool, error) {
	var user userModel.UserModel
	if err := db.WithContext(ctx).Select("user_id", "user_is_active").
		First(&user, "user_id = ?", userID).Error; err != nil {
		return false, err
	}
	return user.UserIsActive, nil
}

func LinkGoogleID(ctx context.Context, db *gorm.DB, userID uuid.UUID, googleID string) error {
	return db.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("user_id = ? AND user_google_id IS NULL", userID).
		Update("user_google_id", googleID).Error
}

func CreateUser(ctx context.Context, db *gorm.DB, user *userModel.UserModel) error {
	return db.WithContext(ctx).Create(user).Error
}

/* ====================== COLLEGE ====================== */

func FindCollegeByCode(ctx context.Context, db *gorm.DB, code string) (*collegeModel.CollegeModel, error) {
	var college collegeModel.CollegeModel
	if err := db.WithContext(ctx).Where("college_code = ?", code).First(&college).Error; err != nil {
		return nil, err
	}
	return &college, nil
}

func FindCollegeByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*collegeModel.CollegeModel, error) {
	var college collegeModel.CollegeModel
	if err := db.WithContext(ctx).First(&college, "college_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &college, nil
}

/* ====================== BLACKLIST TOKEN ====================== */

// BlacklistToken is idempotent: a second logout with the same token is a no-op.
func BlacklistToken(ctx context.Context, db *gorm.DB, fingerprint string, until time.Time) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&authModel.TokenBlacklist{Token: fingerprint, ExpiredAt: until}).Error
}

func IsBlacklisted(ctx context.Context, db *gorm.DB, fingerprint string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&authModel.TokenBlacklist{}).
		Where("token = ?", fingerprint).
		Count(&n).Error
	return n > 0, err
}

// CleanupExpiredBlacklist hard deletes entries whose token has expired anyway.
func CleanupExpiredBlacklist(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Unscoped().
		Where("expired_at <= ?", now).
		Delete(&authModel.TokenBlacklist{})
	return res.RowsAffected, res.Error
}
