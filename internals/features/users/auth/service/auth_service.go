package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campusevents_backend/internals/constants"
	collegeModel "campusevents_backend/internals/features/campus/colleges/model"
	"campusevents_backend/internals/features/users/auth/dto"
	authRepo "campusevents_backend/internals/features/users/auth/repository"
	userDTO "campusevents_backend/internals/features/users/users/dto"
	userModel "campusevents_backend/internals/features/users/users/model"
	helper "campusevents_backend/internals/helpers"
	"campusevents_backend/internals/helpers/apperr"
	helperAuth "campusevents_backend/internals/helpers/auth"
	"campusevents_backend/internals/helpers/dberr"
	"campusevents_backend/internals/logger"
)

var (
	ErrBadCredentials  = apperr.Unauthorized("invalid email or password")
	ErrInactive        = apperr.Forbidden("your account has been deactivated, contact your college admin")
	ErrUnknownCollege  = apperr.NotFound("no college with that code")
	ErrEmailRegistered = apperr.Conflict("email is already registered")
	ErrGoogleDisabled  = apperr.Precondition("google sign-in is not configured")
	ErrGoogleNoAccount = apperr.Unauthorized("no account is linked to this google identity")
)

type Service struct {
	DB         *gorm.DB
	Validator  *validator.Validate
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
	Google     GoogleVerifier
	Now        func() time.Time
}

func New(db *gorm.DB, secret string, ttl time.Duration, bcryptCost int, google GoogleVerifier) *Service {
	return &Service{
		DB:         db,
		Validator:  helper.NewValidator(),
		JWTSecret:  secret,
		TokenTTL:   ttl,
		BcryptCost: bcryptCost,
		Google:     google,
		Now:        func() time.Time { return time.Now().UTC() },
	}
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	User      userModel.UserModel
}

/* ==========================
   LOGIN
========================== */

func (s *Service) Login(ctx context.Context, req dto.LoginRequest) (*Session, error) {
	req.Normalize()
	if err := req.Validate(s.Validator); err != nil {
		return nil, apperr.Validation("invalid login payload", helper.ValidationFields(err))
	}

	user, err := authRepo.FindUserByEmail(ctx, s.DB, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, apperr.Internal("find user", err)
	}
	if !helper.CheckPassword(user.UserPasswordHash, req.Password) {
		return nil, ErrBadCredentials
	}
	if !user.UserIsActive {
		return nil, ErrInactive
	}
	return s.issue(user)
}

/* ==========================
   REGISTER (student self sign-up)
========================== */

func (s *Service) Register(ctx context.Context, req dto.RegisterRequest) (*Session, error) {
	req.Normalize()
	if err := req.Validate(s.Validator); err != nil {
		return nil, apperr.Validation("invalid registration payload", helper.ValidationFields(err))
	}

	college, err := authRepo.FindCollegeByCode(ctx, s.DB, req.CollegeCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownCollege
		}
		return nil, apperr.Internal("find college", err)
	}

	hash, err := helper.HashPassword(req.Password, s.BcryptCost)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}
	user := userModel.UserModel{
		UserName:         req.Name,
		UserEmail:        req.Email,
		UserPasswordHash: hash,
		UserRole:         constants.RoleStudent,
		UserCollegeID:    college.CollegeID,
		UserIsActive:     true,
	}
	if err := authRepo.CreateUser(ctx, s.DB, &user); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, ErrEmailRegistered
		}
		return nil, apperr.Internal("create user", err)
	}

	logger.Ctx(ctx).Info("student registered",
		zap.String("user_id", user.UserID.String()),
		zap.String("college_code", college.CollegeCode))
	return s.issue(&user)
}

/* ==========================
   LOGIN GOOGLE
========================== */

// LoginGoogle signs in an existing account. The first google login for an
// email links the google id; no accounts are created here.
func (s *Service) LoginGoogle(ctx context.Context, idToken string) (*Session, error) {
	if s.Google == nil {
		return nil, ErrGoogleDisabled
	}
	if idToken == "" {
		return nil, apperr.Validation("invalid google login payload", map[string][]string{"id_token": {"is required"}})
	}
	gid, err := s.Google.Verify(idToken)
	if err != nil {
		return nil, apperr.Unauthorized("invalid google id token").Wrap(err)
	}

	user, err := authRepo.FindUserByGoogleID(ctx, s.DB, gid.Sub)
	if errors.Is(err, gorm.ErrRecordNotFound) && gid.Email != "" {
		user, err = authRepo.FindUserByEmail(ctx, s.DB, userDTO.NormalizeEmail(gid.Email))
		if err == nil && user.UserGoogleID == nil {
			if lerr := authRepo.LinkGoogleID(ctx, s.DB, user.UserID, gid.Sub); lerr != nil {
				return nil, apperr.Internal("link google id", lerr)
			}
			user.UserGoogleID = &gid.Sub
		} else if err == nil {
			// email belongs to an account linked to another google identity
			return nil, ErrGoogleNoAccount
		}
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoogleNoAccount
		}
		return nil, apperr.Internal("find user", err)
	}
	if !user.UserIsActive {
		return nil, ErrInactive
	}
	return s.issue(user)
}

/* ==========================
   LOGOUT / BLACKLIST
========================== */

// Logout revokes raw until its own expiry. Unparseable tokens are already useless.
func (s *Service) Logout(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	claims, err := helperAuth.ParseToken(s.JWTSecret, raw)
	if err != nil {
		return nil
	}
	until := claims.ExpiresAt.Time.UTC().Add(time.Minute)
	if err := authRepo.BlacklistToken(ctx, s.DB, helperAuth.TokenFingerprint(raw, s.JWTSecret), until); err != nil {
		return apperr.Internal("blacklist token", err)
	}
	return nil
}

// IsBlacklisted matches the auth middleware's BlacklistChecker.
func (s *Service) IsBlacklisted(ctx context.Context, raw string) (bool, error) {
	ok, err := authRepo.IsBlacklisted(ctx, s.DB, helperAuth.TokenFingerprint(raw, s.JWTSecret))
	if err != nil {
		return false, apperr.Internal("check token blacklist", err)
	}
	return ok, nil
}

// EnsureActive matches the auth middleware's ActiveChecker.
func (s *Service) EnsureActive(ctx context.Context, userID uuid.UUID) error {
	active, err := authRepo.FindUserActive(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Unauthorized("Unauthorized - user not found")
		}
		return apperr.Internal("check user active", err)
	}
	if !active {
		return ErrInactive
	}
	return nil
}

func (s *Service) CleanupBlacklist(ctx context.Context) (int64, error) {
	return authRepo.CleanupExpiredBlacklist(ctx, s.DB, s.Now())
}

/* ==========================
   ME
========================== */

func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*userModel.UserModel, *collegeModel.CollegeModel, error) {
	user, err := authRepo.FindUserByID(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.NotFound("user not found")
		}
		return nil, nil, apperr.Internal("find user", err)
	}
	college, err := authRepo.FindCollegeByID(ctx, s.DB, user.UserCollegeID)
	if err != nil {
		return nil, nil, apperr.Internal("find college", err)
	}
	return user, college, nil
}

func (s *Service) issue(user *userModel.UserModel) (*Session, error) {
	token, exp, err := helperAuth.IssueToken(s.JWTSecret, helperAuth.TokenSubject{
		UserID:    user.UserID,
		Role:      user.UserRole,
		CollegeID: user.UserCollegeID,
		Name:      user.UserName,
	}, s.TokenTTL, s.Now())
	if err != nil {
		return nil, apperr.Internal("issue token", err)
	}
	return &Session{Token: token, ExpiresAt: exp, User: *user}, nil
}
