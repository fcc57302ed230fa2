package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campusevents_backend/internals/constants"
	eventModel "campusevents_backend/internals/features/campus/events/model"
	"campusevents_backend/internals/features/campus/registrations/dto"
	"campusevents_backend/internals/features/campus/registrations/model"
	"campusevents_backend/internals/features/finance/payments/gateway"
	userModel "campusevents_backend/internals/features/users/users/model"
	helper "campusevents_backend/internals/helpers"
	"campusevents_backend/internals/helpers/apperr"
	helperAuth "campusevents_backend/internals/helpers/auth"
	"campusevents_backend/internals/helpers/dberr"
	"campusevents_backend/internals/logger"
	"campusevents_backend/internals/metrics"
)

var (
	ErrOnlyStudents        = apperr.Forbidden("only students can register for events")
	ErrEventNotFound       = apperr.NotFound("event not found")
	ErrRegistrationClosed  = apperr.Precondition("registration is closed for this event")
	ErrEventFull           = apperr.Conflict("event is full")
	ErrAlreadyRegistered   = apperr.Conflict("already registered for this event")
	ErrPaymentsUnavailable = apperr.Precondition("payments are not configured")
	ErrGatewayFailed       = apperr.Precondition("payment gateway could not open an order")
)

type Service struct {
	DB        *gorm.DB
	Gateway   gateway.OrderCreator
	Validator *validator.Validate
	Now       func() time.Time
}

// New: gw may be nil, then only free events accept registrations.
func New(db *gorm.DB, gw gateway.OrderCreator) *Service {
	return &Service{
		DB:        db,
		Gateway:   gw,
		Validator: helper.NewValidator(),
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

type Checkout struct {
	Registration *model.RegistrationModel
	Order        *gateway.Order
}

// Register creates a PENDING registration. Paid events also get a gateway order whose
// id is stored as payment_id; only the webhook moves the status afterwards.
func (s *Service) Register(ctx context.Context, actor helperAuth.Actor, req dto.CreateRegistrationRequest) (*Checkout, error) {
	if !actor.Is(constants.RoleStudent) {
		return nil, ErrOnlyStudents
	}
	req.Normalize()
	if err := req.Validate(s.Validator); err != nil {
		return nil, apperr.Validation("invalid registration payload", helper.ValidationFields(err))
	}
	eventID := uuid.MustParse(req.EventID)

	ev, err := s.openEvent(ctx, s.DB, actor.CollegeID, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.checkNotRegistered(ctx, s.DB, eventID, actor.UserID); err != nil {
		return nil, err
	}
	if err := checkCapacity(ctx, s.DB, ev); err != nil {
		return nil, err
	}

	reg := &model.RegistrationModel{
		RegistrationID:            uuid.New(),
		RegistrationEventID:       ev.EventID,
		RegistrationUserID:        actor.UserID,
		RegistrationCollegeID:     actor.CollegeID,
		RegistrationAmount:        ev.EventFee,
		RegistrationCurrency:      ev.EventCurrency,
		RegistrationPaymentStatus: model.PaymentPending,
	}

	// gateway call stays outside the transaction; an order left without a row is never paid
	var order *gateway.Order
	if !ev.IsFree() {
		if order, err = s.openOrder(ctx, actor, ev, reg.RegistrationID); err != nil {
			return nil, err
		}
		provider := string(order.Provider)
		reg.RegistrationPaymentID = &order.OrderID
		reg.RegistrationPaymentProvider = &provider
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := s.openEvent(ctx, lockEvent(tx), actor.CollegeID, eventID)
		if err != nil {
			return err
		}
		if err := checkCapacity(ctx, tx, locked); err != nil {
			return err
		}
		return tx.Create(reg).Error
	})
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, ErrAlreadyRegistered
		}
		if _, ok := apperr.As(err); ok {
			return nil, err
		}
		return nil, apperr.Internal("create registration", err)
	}

	metrics.RegistrationsCreated.WithLabelValues(strconv.FormatBool(order != nil)).Inc()
	logger.Ctx(ctx).Info("registration created",
		zap.String("registration_id", reg.RegistrationID.String()),
		zap.String("event_id", ev.EventID.String()),
		zap.Bool("paid_event", order != nil))
	return &Checkout{Registration: reg, Order: order}, nil
}

func (s *Service) openOrder(ctx context.Context, actor helperAuth.Actor, ev *eventModel.EventModel, regID uuid.UUID) (*gateway.Order, error) {
	if s.Gateway == nil {
		return nil, ErrPaymentsUnavailable
	}
	var u userModel.UserModel
	if err := s.DB.WithContext(ctx).Select("user_name", "user_email").
		First(&u, "user_id = ?", actor.UserID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("load student", err)
	}
	order, err := s.Gateway.CreateOrder(ctx, gateway.OrderRequest{
		Receipt:       regID.String(),
		Amount:        ev.EventFee,
		Currency:      ev.EventCurrency,
		Description:   ev.EventTitle,
		CustomerName:  u.UserName,
		CustomerEmail: u.UserEmail,
	})
	if err != nil {
		if errors.Is(err, gateway.ErrNotConfigured) {
			return nil, ErrPaymentsUnavailable
		}
		logger.Ctx(ctx).Error("gateway order failed",
			zap.String("provider", string(s.Gateway.Provider())),
			zap.String("event_id", ev.EventID.String()),
			zap.Error(err))
		return nil, ErrGatewayFailed.Wrap(err)
	}
	return order, nil
}

// openEvent loads a published, not yet started event of the college.
func (s *Service) openEvent(ctx context.Context, db *gorm.DB, collegeID, eventID uuid.UUID) (*eventModel.EventModel, error) {
	var ev eventModel.EventModel
	err := db.WithContext(ctx).
		Where("event_id = ? AND event_college_id = ? AND event_is_published = ?", eventID, collegeID, true).
		First(&ev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, apperr.Internal("load event", err)
	}
	if !ev.EventStartsAt.After(s.Now()) {
		return nil, ErrRegistrationClosed
	}
	return &ev, nil
}

func (s *Service) checkNotRegistered(ctx context.Context, db *gorm.DB, eventID, userID uuid.UUID) error {
	var n int64
	if err := db.WithContext(ctx).Model(&model.RegistrationModel{}).
		Where("registration_event_id = ? AND registration_user_id = ?", eventID, userID).
		Count(&n).Error; err != nil {
		return apperr.Internal("check registration", err)
	}
	if n > 0 {
		return ErrAlreadyRegistered
	}
	return nil
}

// checkCapacity counts every registration that is not FAILED.
func checkCapacity(ctx context.Context, db *gorm.DB, ev *eventModel.EventModel) error {
	if ev.EventCapacity == nil {
		return nil
	}
	var n int64
	if err := db.WithContext(ctx).Model(&model.RegistrationModel{}).
		Where("registration_event_id = ? AND registration_payment_status <> ?", ev.EventID, model.PaymentFailed).
		Count(&n).Error; err != nil {
		return apperr.Internal("count registrations", err)
	}
	if n >= int64(*ev.EventCapacity) {
		return ErrEventFull
	}
	return nil
}

// lockEvent serializes registrations per event on postgres; sqlite transactions already serialize.
func lockEvent(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

/* ===================== Reads ===================== */

// Mine lists the student's registrations, newest first.
func (s *Service) Mine(ctx context.Context, actor helperAuth.Actor, offset, limit int) ([]dto.MyRegistrationRow, int64, error) {
	base := s.DB.WithContext(ctx).Table("registrations").
		Joins("JOIN events ON events.event_id = registrations.registration_event_id AND events.event_deleted_at IS NULL").
		Where("registrations.registration_user_id = ? AND registrations.registration_college_id = ?", actor.UserID, actor.CollegeID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("count registrations", err)
	}
	var rows []dto.MyRegistrationRow
	if err := base.Select("registrations.*, events.event_title, events.event_starts_at, events.event_venue").
		Order("registrations.registration_created_at DESC").
		Offset(offset).Limit(limit).Scan(&rows).Error; err != nil {
		return nil, 0, apperr.Internal("list registrations", err)
	}
	return rows, total, nil
}

// Attendees lists an event's registrations with the student's name and email.
// Callers check event ownership first.
func (s *Service) Attendees(ctx context.Context, collegeID, eventID uuid.UUID, status *model.PaymentStatus, offset, limit int) ([]dto.AttendeeRow, int64, error) {
	base := s.DB.WithContext(ctx).Table("registrations").
		Joins("JOIN users ON users.user_id = registrations.registration_user_id").
		Where("registrations.registration_event_id = ? AND registrations.registration_college_id = ?", eventID, collegeID)
	if status != nil {
		base = base.Where("registrations.registration_payment_status = ?", *status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("count attendees", err)
	}
	var rows []dto.AttendeeRow
	if err := base.Select("registrations.*, users.user_name, users.user_email").
		Order("registrations.registration_created_at ASC").
		Offset(offset).Limit(limit).Scan(&rows).Error; err != nil {
		return nil, 0, apperr.Internal("list attendees", err)
	}
	return rows, total, nil
}
