package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campusevents_backend/internals/constants"
	"campusevents_backend/internals/features/campus/clubs/dto"
	"campusevents_backend/internals/features/campus/clubs/model"
	eventModel "campusevents_backend/internals/features/campus/events/model"
	userModel "campusevents_backend/internals/features/users/users/model"
	helper "campusevents_backend/internals/helpers"
	"campusevents_backend/internals/helpers/apperr"
	"campusevents_backend/internals/helpers/dberr"
	"campusevents_backend/internals/logger"
)

var (
	ErrClubNotFound     = apperr.NotFound("club not found")
	ErrClubNameTaken    = apperr.Conflict("a club with this name already exists")
	ErrClubHasEvents    = apperr.Conflict("club still has events")
	ErrInvalidOrganizer = apperr.Validation("invalid organizer", map[string][]string{
		"organizer_id": {"must be an active organizer of this college"},
	})
)

type Service struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func New(db *gorm.DB) *Service {
	return &Service{DB: db, Validator: helper.NewValidator()}
}

type ListParams struct {
	Query       string
	OrganizerID *uuid.UUID
	Offset      int
	Limit       int
}

// List returns one page of the college's clubs ordered by name.
func (s *Service) List(ctx context.Context, collegeID uuid.UUID, p ListParams) ([]model.ClubModel, int64, error) {
	tx := s.DB.WithContext(ctx).Model(&model.ClubModel{}).Where("club_college_id = ?", collegeID)
	if q := strings.ToLower(strings.TrimSpace(p.Query)); q != "" {
		tx = tx.Where("LOWER(club_name) LIKE ?", "%"+q+"%")
	}
	if p.OrganizerID != nil {
		tx = tx.Where("club_organizer_id = ?", *p.OrganizerID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("count clubs", err)
	}
	var rows []model.ClubModel
	if err := tx.Order("club_name ASC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return nil, 0, apperr.Internal("list clubs", err)
	}
	return rows, total, nil
}

func (s *Service) Get(ctx context.Context, collegeID, clubID uuid.UUID) (*model.ClubModel, error) {
	return FindInCollege(ctx, s.DB, collegeID, clubID)
}

// FindInCollege loads a live club scoped to a college; other colleges' clubs are not found.
func FindInCollege(ctx context.Context, db *gorm.DB, collegeID, clubID uuid.UUID) (*model.ClubModel, error) {
	var m model.ClubModel
	err := db.WithContext(ctx).First(&m, "club_id = ? AND club_college_id = ?", clubID, collegeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, apperr.Internal("load club", err)
	}
	return &m, nil
}

func (s *Service) Create(ctx context.Context, collegeID uuid.UUID, req dto.CreateClubRequest) (*model.ClubModel, error) {
	req.Normalize()
	if err := req.Validate(s.Validator); err != nil {
		return nil, apperr.Validation("invalid club payload", helper.ValidationFields(err))
	}
	if err := s.checkOrganizer(ctx, collegeID, req.Organizer()); err != nil {
		return nil, err
	}

	m := req.ToModel(collegeID)
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, ErrClubNameTaken
		}
		return nil, apperr.Internal("create club", err)
	}
	logger.Ctx(ctx).Info("club created",
		zap.String("club_id", m.ClubID.String()),
		zap.String("college_id", collegeID.String()))
	return m, nil
}

func (s *Service) Patch(ctx context.Context, collegeID, clubID uuid.UUID, req dto.PatchClubRequest) (*model.ClubModel, error) {
	req.Normalize()
	if err := req.Validate(s.Validator); err != nil {
		return nil, apperr.Validation("invalid club payload", helper.ValidationFields(err))
	}
	if id, set := req.Organizer(); set {
		if err := s.checkOrganizer(ctx, collegeID, id); err != nil {
			return nil, err
		}
	}

	m, err := s.Get(ctx, collegeID, clubID)
	if err != nil {
		return nil, err
	}
	updates := req.Apply()
	if len(updates) == 0 {
		return m, nil
	}
	if err := s.DB.WithContext(ctx).Model(m).Updates(updates).Error; err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, ErrClubNameTaken
		}
		return nil, apperr.Internal("update club", err)
	}
	return s.Get(ctx, collegeID, clubID)
}

// Delete soft-deletes a club that has no live events.
func (s *Service) Delete(ctx context.Context, collegeID, clubID uuid.UUID) (*model.ClubModel, error) {
	var m model.ClubModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "club_id = ? AND club_college_id = ?", clubID, collegeID).Error; err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&eventModel.EventModel{}).Where("event_club_id = ?", clubID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrClubHasEvents
		}
		return tx.Delete(&m).Error
	})
	switch {
	case err == nil:
		return &m, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrClubNotFound
	case errors.Is(err, ErrClubHasEvents):
		return nil, ErrClubHasEvents
	}
	return nil, apperr.Internal("delete club", err)
}

// checkOrganizer: nil is allowed (unassigned club).
func (s *Service) checkOrganizer(ctx context.Context, collegeID uuid.UUID, organizerID *uuid.UUID) error {
	if organizerID == nil {
		return nil
	}
	var n int64
	err := s.DB.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("user_id = ? AND user_college_id = ? AND user_role = ? AND user_is_active = ?",
			*organizerID, collegeID, constants.RoleOrganizer, true).
		Count(&n).Error
	if err != nil {
		return apperr.Internal("check organizer", err)
	}
	if n == 0 {
		return ErrInvalidOrganizer
	}
	return nil
}

// IsOrganizerOf reports whether userID runs the club.
func IsOrganizerOf(club *model.ClubModel, userID uuid.UUID) bool {
	return club != nil && club.ClubOrganizerID != nil && *club.ClubOrganizerID == userID
}
