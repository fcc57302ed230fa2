package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campusevents_backend/internals/constants"
	clubModel "campusevents_backend/internals/features/campus/clubs/model"
	clubService "campusevents_backend/internals/features/campus/clubs/service"
	"campusevents_backend/internals/features/campus/events/dto"
	"campusevents_backend/internals/features/campus/events/model"
	"campusevents_backend/internals/features/campus/events/search"
	registrationModel "campusevents_backend/internals/features/campus/registrations/model"
	helper "campusevents_backend/internals/helpers"
	"campusevents_backend/internals/helpers/apperr"
	helperAuth "campusevents_backend/internals/helpers/auth"
	"campusevents_backend/internals/logger"
	"campusevents_backend/internals/metrics"
)

var (
	ErrEventNotFound   = apperr.NotFound("event not found")
	ErrNotEventOwner   = apperr.Forbidden("only admins or the club's organizer can manage this event")
	ErrEventHasPayment = apperr.Conflict("event has paid registrations")
)

type Service struct {
	DB              *gorm.DB
	Index           search.Index
	Validator       *validator.Validate
	DefaultCurrency string
	Now             func() time.Time
}

// New: index may be nil, then search runs on SQL only.
func New(db *gorm.DB, index search.Index, defaultCurrency string) *Service {
	return &Service{
		DB:              db,
		Index:           index,
		Validator:       helper.NewValidator(),
		DefaultCurrency: defaultCurrency,
		Now:             func() time.Time { return time.Now().UTC() },
	}
}

type ListParams struct {
	ClubID   *uuid.UUID
	Upcoming bool
	Query    string
	Offset   int
	Limit    int
}

// scoped applies the college and, for students, the published-only filter.
func (s *Service) scoped(ctx context.Context, actor helperAuth.Actor) *gorm.DB {
	tx := s.DB.WithContext(ctx).Model(&model.EventModel{}).Where("event_college_id = ?", actor.CollegeID)
	if actor.Is(constants.RoleStudent) {
		tx = tx.Where("event_is_published = ?", true)
	}
	return tx
}

func (s *Service) List(ctx context.Context, actor helperAuth.Actor, p ListParams) ([]model.EventModel, int64, error) {
	tx := s.scoped(ctx, actor)
	if p.ClubID != nil {
		tx = tx.Where("event_club_id = ?", *p.ClubID)
	}
	if p.Upcoming {
		tx = tx.Where("event_starts_at >= ?", s.Now())
	}
	if q := strings.ToLower(strings.TrimSpace(p.Query)); q != "" {
		like := "%" + q + "%"
		tx = tx.Where("(LOWER(event_title) LIKE ? OR LOWER(COALESCE(event_venue, '')) LIKE ?)", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("count events", err)
	}
	var rows []model.EventModel
	if err := tx.Order("event_starts_at ASC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return nil, 0, apperr.Internal("list events", err)
	}
	return rows, total, nil
}

// Get hides unpublished events from students.
func (s *Service) Get(ctx context.Context, actor helperAuth.Actor, id uuid.UUID) (*model.EventModel, error) {
	var m model.EventModel
	if err := s.scoped(ctx, actor).First(&m, "event_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, apperr.Internal("load event", err)
	}
	return &m, nil
}

// Search asks the index first and falls back to SQL when it is absent or failing.
func (s *Service) Search(ctx context.Context, actor helperAuth.Actor, text string, offset, limit int) ([]model.EventModel, int64, error) {
	if s.Index != nil {
		hits, err := s.Index.Search(ctx, search.Query{
			CollegeID:     actor.CollegeID,
			Text:          text,
			PublishedOnly: actor.Is(constants.RoleStudent),
			From:          offset,
			Size:          limit,
		})
		if err == nil {
			rows, err := s.hydrate(ctx, actor, hits.IDs)
			return rows, hits.Total, err
		}
		metrics.SearchFallbacks.Inc()
		logger.Ctx(ctx).Warn("event search index failed, using SQL", zap.Error(err))
	}
	return s.List(ctx, actor, ListParams{Query: text, Offset: offset, Limit: limit})
}

// hydrate loads ids in index order; stale ids are dropped.
func (s *Service) hydrate(ctx context.Context, actor helperAuth.Actor, ids []uuid.UUID) ([]model.EventModel, error) {
	if len(ids) == 0 {
		return []model.EventModel{}, nil
	}
	var rows []model.EventModel
	if err := s.scoped(ctx, actor).Where("event_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, apperr.Internal("load events", err)
	}
	byID := make(map[uuid.UUID]model.EventModel, len(rows))
	for _, r := range rows {
		byID[r.EventID] = r
	}
	out := make([]model.EventModel, 0, len(rows))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, actor helperAuth.Actor, req dto.CreateEventRequest) (*model.EventModel, error) {
	req.Normalize(s.DefaultCurrency)
	if err := req.Validate(s.Validator); err != nil {
		return nil, apperr.Validation("invalid event payload", helper.ValidationFields(err))
	}
	if err := checkWindow(req.StartsAt, req.EndsAt); err != nil {
		return nil, err
	}
	clubID := uuid.MustParse(req.ClubID)
	club, err := clubService.FindInCollege(ctx, s.DB, actor.CollegeID, clubID)
	if err != nil {
		if errors.Is(err, clubService.ErrClubNotFound) {
			return nil, apperr.Validation("invalid event payload", map[string][]string{"club_id": {"club not found"}})
		}
		return nil, err
	}
	if !CanManage(actor, club) {
		return nil, ErrNotEventOwner
	}

	m := req.ToModel(actor.CollegeID, club.ClubID)
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		return nil, apperr.Internal("create event", err)
	}
	logger.Ctx(ctx).Info("event created",
		zap.String("event_id", m.EventID.String()),
		zap.String("club_id", club.ClubID.String()),
		zap.Int64("fee", m.EventFee))
	s.sync(ctx, m)
	return m, nil
}

func (s *Service) Patch(ctx context.Context, actor helperAuth.Actor, id uuid.UUID, req dto.PatchEventRequest) (*model.EventModel, error) {
	req.Normalize()
	if err := req.Validate(s.Validator); err != nil {
		return nil, apperr.Validation("invalid event payload", helper.ValidationFields(err))
	}
	m, err := s.loadManaged(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	updates := req.ApplyTo(m)
	if len(updates) == 0 {
		return m, nil
	}
	if err := checkWindow(m.EventStartsAt, m.EventEndsAt); err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(&model.EventModel{}).Where("event_id = ?", m.EventID).Updates(updates).Error; err != nil {
		return nil, apperr.Internal("update event", err)
	}
	if m, err = s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	s.sync(ctx, m)
	return m, nil
}

// Delete soft-deletes an event unless someone already paid for it.
func (s *Service) Delete(ctx context.Context, actor helperAuth.Actor, id uuid.UUID) (*model.EventModel, error) {
	m, err := s.loadManaged(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	var paid int64
	if err := s.DB.WithContext(ctx).Model(&registrationModel.RegistrationModel{}).
		Where("registration_event_id = ? AND registration_payment_status = ?", id, registrationModel.PaymentPaid).
		Count(&paid).Error; err != nil {
		return nil, apperr.Internal("count paid registrations", err)
	}
	if paid > 0 {
		return nil, ErrEventHasPayment
	}
	if err := s.DB.WithContext(ctx).Delete(m).Error; err != nil {
		return nil, apperr.Internal("delete event", err)
	}
	if s.Index != nil {
		if err := s.Index.Delete(ctx, m.EventID); err != nil {
			logger.Ctx(ctx).Warn("search index delete failed", zap.String("event_id", m.EventID.String()), zap.Error(err))
		}
	}
	return m, nil
}

// LoadManaged returns an event the actor may manage (admin, or organizer of the club).
func (s *Service) LoadManaged(ctx context.Context, actor helperAuth.Actor, id uuid.UUID) (*model.EventModel, error) {
	return s.loadManaged(ctx, actor, id)
}

func (s *Service) loadManaged(ctx context.Context, actor helperAuth.Actor, id uuid.UUID) (*model.EventModel, error) {
	if actor.Is(constants.RoleStudent) {
		return nil, ErrNotEventOwner
	}
	m, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if actor.Is(constants.RoleAdmin) {
		return m, nil
	}
	club, err := clubService.FindInCollege(ctx, s.DB, actor.CollegeID, m.EventClubID)
	if err != nil {
		if errors.Is(err, clubService.ErrClubNotFound) {
			return nil, ErrNotEventOwner
		}
		return nil, err
	}
	if !CanManage(actor, club) {
		return nil, ErrNotEventOwner
	}
	return m, nil
}

// CanManage: admins manage every club of their college, organizers only their own.
func CanManage(actor helperAuth.Actor, club *clubModel.ClubModel) bool {
	if club == nil || club.ClubCollegeID != actor.CollegeID {
		return false
	}
	switch actor.Role {
	case constants.RoleAdmin:
		return true
	case constants.RoleOrganizer:
		return clubService.IsOrganizerOf(club, actor.UserID)
	}
	return false
}

func checkWindow(start time.Time, end *time.Time) error {
	if end != nil && !end.After(start) {
		return apperr.Validation("invalid event payload", map[string][]string{"ends_at": {"must be after starts_at"}})
	}
	return nil
}

// sync is best-effort.
func (s *Service) sync(ctx context.Context, m *model.EventModel) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Upsert(ctx, search.BuildDocument(m)); err != nil {
		logger.Ctx(ctx).Warn("search index upsert failed", zap.String("event_id", m.EventID.String()), zap.Error(err))
	}
}

// AllDocuments feeds a full reindex.
func (s *Service) AllDocuments(ctx context.Context) ([]search.Document, error) {
	var rows []model.EventModel
	if err := s.DB.WithContext(ctx).Order("event_starts_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	docs := make([]search.Document, 0, len(rows))
	for i := range rows {
		docs = append(docs, search.BuildDocument(&rows[i]))
	}
	return docs, nil
}
