package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"campusevents_backend/internals/constants"
	"campusevents_backend/internals/features/campus/dashboards/dto"
	regModel "campusevents_backend/internals/features/campus/registrations/model"
	paymentModel "campusevents_backend/internals/features/finance/payments/model"
	"campusevents_backend/internals/helpers/apperr"
	helperAuth "campusevents_backend/internals/helpers/auth"
)

// NextEventsLimit caps the event lists embedded in a summary.
const NextEventsLimit = 5

// Service computes dashboard summaries with live aggregates; nothing is cached.
type Service struct {
	DB  *gorm.DB
	Now func() time.Time
}

func New(db *gorm.DB) *Service {
	return &Service{DB: db, Now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) Admin(ctx context.Context, actor helperAuth.Actor) (*dto.AdminSummary, error) {
	db := s.DB.WithContext(ctx)
	now := s.Now()
	out := &dto.AdminSummary{Revenue: []dto.Revenue{}}

	users := func() *gorm.DB {
		return db.Table("users").Where("user_college_id = ? AND user_is_active = ?", actor.CollegeID, true)
	}
	events := func() *gorm.DB {
		return db.Table("events").Where("event_college_id = ? AND event_deleted_at IS NULL", actor.CollegeID)
	}

	counts := []struct {
		q   *gorm.DB
		dst *int64
	}{
		{users().Where("user_role = ?", constants.RoleOrganizer), &out.Organizers},
		{users().Where("user_role = ?", constants.RoleStudent), &out.Students},
		{db.Table("clubs").Where("club_college_id = ? AND club_deleted_at IS NULL", actor.CollegeID), &out.Clubs},
		{events(), &out.Events},
		{events().Where("event_is_published = ?", true), &out.PublishedEvents},
		{events().Where("event_starts_at > ?", now), &out.UpcomingEvents},
		{db.Model(&paymentModel.PaymentGatewayEventModel{}).Where("gateway_event_status = ?", paymentModel.GatewayEventStatusFailed), &out.FailedWebhooks},
	}
	for _, c := range counts {
		if err := c.q.Count(c.dst).Error; err != nil {
			return nil, apperr.Internal("admin dashboard", err)
		}
	}

	regs := func() *gorm.DB {
		return db.Table("registrations").Where("registration_college_id = ?", actor.CollegeID)
	}
	var err error
	if out.Registrations, err = statusCounts(regs()); err != nil {
		return nil, err
	}
	if out.Revenue, err = revenue(regs()); err != nil {
		return nil, err
	}
	return out, nil
}

// Organiser summarizes the clubs the caller organizes.
func (s *Service) Organiser(ctx context.Context, actor helperAuth.Actor) (*dto.OrganiserSummary, error) {
	db := s.DB.WithContext(ctx)
	now := s.Now()
	out := &dto.OrganiserSummary{Clubs: []dto.ClubSummary{}, Revenue: []dto.Revenue{}, NextEvents: []dto.EventEntry{}}

	if err := db.Table("clubs").
		Select(`clubs.club_id, clubs.club_name,
			COUNT(events.event_id) AS events,
			COALESCE(SUM(CASE WHEN events.event_starts_at > ? THEN 1 ELSE 0 END), 0) AS upcoming_events`, now).
		Joins("LEFT JOIN events ON events.event_club_id = clubs.club_id AND events.event_deleted_at IS NULL").
		Where("clubs.club_college_id = ? AND clubs.club_organizer_id = ? AND clubs.club_deleted_at IS NULL", actor.CollegeID, actor.UserID).
		Group("clubs.club_id, clubs.club_name").
		Order("clubs.club_name ASC").
		Scan(&out.Clubs).Error; err != nil {
		return nil, apperr.Internal("organiser clubs", err)
	}
	if len(out.Clubs) == 0 {
		return out, nil
	}
	clubIDs := make([]uuid.UUID, 0, len(out.Clubs))
	for _, c := range out.Clubs {
		clubIDs = append(clubIDs, c.ID)
	}

	regs := func() *gorm.DB {
		return db.Table("registrations").
			Joins("JOIN events ON events.event_id = registrations.registration_event_id AND events.event_deleted_at IS NULL").
			Where("events.event_club_id IN ?", clubIDs)
	}
	var err error
	if out.Registrations, err = statusCounts(regs()); err != nil {
		return nil, err
	}
	if out.Revenue, err = revenue(regs()); err != nil {
		return nil, err
	}

	if err := db.Table("events").
		Select(`events.event_id, events.event_title, events.event_starts_at, events.event_venue,
			(SELECT COUNT(*) FROM registrations r WHERE r.registration_event_id = events.event_id) AS registrations`).
		Where("events.event_club_id IN ? AND events.event_deleted_at IS NULL AND events.event_starts_at > ?", clubIDs, now).
		Order("events.event_starts_at ASC").
		Limit(NextEventsLimit).
		Scan(&out.NextEvents).Error; err != nil {
		return nil, apperr.Internal("organiser events", err)
	}
	return out, nil
}

func (s *Service) Student(ctx context.Context, actor helperAuth.Actor) (*dto.StudentSummary, error) {
	db := s.DB.WithContext(ctx)
	now := s.Now()
	out := &dto.StudentSummary{Upcoming: []dto.UpcomingRegistration{}}

	mine := func() *gorm.DB {
		return db.Table("registrations").
			Joins("JOIN events ON events.event_id = registrations.registration_event_id AND events.event_deleted_at IS NULL").
			Where("registrations.registration_user_id = ? AND registrations.registration_college_id = ?", actor.UserID, actor.CollegeID)
	}
	var err error
	if out.Registrations, err = statusCounts(mine()); err != nil {
		return nil, err
	}

	if err := mine().
		Select(`registrations.registration_id, registrations.registration_payment_status,
			events.event_id, events.event_title, events.event_starts_at, events.event_venue`).
		Where("events.event_starts_at > ? AND registrations.registration_payment_status <> ?", now, regModel.PaymentFailed).
		Order("events.event_starts_at ASC").
		Limit(NextEventsLimit).
		Scan(&out.Upcoming).Error; err != nil {
		return nil, apperr.Internal("student upcoming", err)
	}

	// published, not started, not already registered
	if err := db.Table("events").
		Where("event_college_id = ? AND event_deleted_at IS NULL AND event_is_published = ? AND event_starts_at > ?", actor.CollegeID, true, now).
		Where("NOT EXISTS (SELECT 1 FROM registrations r WHERE r.registration_event_id = events.event_id AND r.registration_user_id = ?)", actor.UserID).
		Count(&out.OpenEvents).Error; err != nil {
		return nil, apperr.Internal("student open events", err)
	}
	return out, nil
}

func statusCounts(q *gorm.DB) (dto.StatusCounts, error) {
	var rows []dto.StatusRow
	if err := q.Select("registrations.registration_payment_status AS status, COUNT(*) AS n").
		Group("registrations.registration_payment_status").
		Scan(&rows).Error; err != nil {
		return dto.StatusCounts{}, apperr.Internal("count registrations by status", err)
	}
	return dto.FromStatusRows(rows), nil
}

func revenue(q *gorm.DB) ([]dto.Revenue, error) {
	out := []dto.Revenue{}
	if err := q.Select("registrations.registration_currency AS currency, SUM(registrations.registration_amount) AS amount").
		Where("registrations.registration_payment_status = ?", regModel.PaymentPaid).
		Group("registrations.registration_currency").
		Order("registrations.registration_currency ASC").
		Scan(&out).Error; err != nil {
		return nil, apperr.Internal("sum revenue", err)
	}
	return out, nil
}
