// file: internals/features/finance/payments/service/reconcile_service.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	regModel "campusevents_backend/internals/features/campus/registrations/model"
	"campusevents_backend/internals/features/finance/payments/model"
	"campusevents_backend/internals/helpers/dberr"
	"campusevents_backend/internals/logger"
	"campusevents_backend/internals/metrics"
)

// Notification is a verified gateway event reduced to what reconciliation needs.
type Notification struct {
	Provider  model.PaymentGatewayProvider
	EventID   string // gateway delivery id; empty when the gateway sends none
	EventType string
	OrderID   string
	// Target is the status to apply; empty means the event is acknowledged and ignored.
	Target    regModel.PaymentStatus
	Headers   map[string]string
	Payload   []byte
	Signature string
}

type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeDuplicate Outcome = "duplicate"
)

type Result struct {
	Outcome        Outcome
	Updated        int64
	GatewayEventID uuid.UUID
}

type Reconciler struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewReconciler(db *gorm.DB) *Reconciler {
	return &Reconciler{DB: db, Now: func() time.Time { return time.Now().UTC() }}
}

// Apply records the delivery in payment_gateway_events, then sets the target
// status on every registration carrying the order id in one UPDATE.
// The latest delivered event wins; re-applying the same event is a no-op.
func (r *Reconciler) Apply(ctx context.Context, n Notification) (*Result, error) {
	res, err := r.apply(ctx, n)
	label := "error"
	if err == nil {
		label = string(res.Outcome)
	}
	metrics.WebhookEvents.WithLabelValues(string(n.Provider), label).Inc()
	return res, err
}

func (r *Reconciler) apply(ctx context.Context, n Notification) (*Result, error) {
	log := logger.Ctx(ctx).With(
		zap.String("provider", string(n.Provider)),
		zap.String("event", n.EventType),
		zap.String("order_id", n.OrderID),
		zap.String("event_id", n.EventID),
	)

	ev, duplicate, err := r.record(ctx, n)
	if err != nil {
		return nil, err
	}
	if duplicate && (ev.GatewayEventStatus == model.GatewayEventStatusProcessed || ev.GatewayEventStatus == model.GatewayEventStatusIgnored) {
		log.Info("duplicate gateway delivery acknowledged")
		return &Result{Outcome: OutcomeDuplicate, GatewayEventID: ev.GatewayEventID}, nil
	}

	if n.Target == "" || n.OrderID == "" {
		if err := r.finish(ctx, r.DB, ev, model.GatewayEventStatusIgnored, 0, ""); err != nil {
			return nil, err
		}
		log.Info("gateway event ignored")
		return &Result{Outcome: OutcomeIgnored, GatewayEventID: ev.GatewayEventID}, nil
	}

	var updated int64
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := r.Now()
		q := tx.Model(&regModel.RegistrationModel{}).
			Where("registration_payment_id = ?", n.OrderID).
			Updates(map[string]any{
				"registration_payment_status":     n.Target,
				"registration_payment_updated_at": now,
			})
		if q.Error != nil {
			return q.Error
		}
		updated = q.RowsAffected
		return r.finish(ctx, tx, ev, model.GatewayEventStatusProcessed, updated, "")
	})
	if err != nil {
		log.Error("reconciliation failed", zap.Error(err))
		if ferr := r.finish(ctx, r.DB, ev, model.GatewayEventStatusFailed, 0, err.Error()); ferr != nil {
			log.Error("mark gateway event failed", zap.Error(ferr))
		}
		return nil, err
	}

	if updated == 0 {
		log.Warn("no registration matches the gateway order")
	}
	metrics.RegistrationsReconciled.WithLabelValues(string(n.Provider), string(n.Target)).Add(float64(updated))
	log.Info("✅ registrations reconciled", zap.String("status", string(n.Target)), zap.Int64("rows", updated))
	return &Result{Outcome: OutcomeProcessed, Updated: updated, GatewayEventID: ev.GatewayEventID}, nil
}

// record inserts the audit row. A repeated (provider, event id) returns the
// existing row with duplicate=true.
func (r *Reconciler) record(ctx context.Context, n Notification) (*model.PaymentGatewayEventModel, bool, error) {
	headersJSON, _ := sonic.Marshal(n.Headers)
	ev := model.PaymentGatewayEventModel{
		GatewayEventProvider:   n.Provider,
		GatewayEventExternalID: strPtr(n.EventID),
		GatewayEventType:       strPtr(n.EventType),
		GatewayEventOrderID:    strPtr(n.OrderID),
		GatewayEventHeaders:    datatypes.JSON(headersJSON),
		GatewayEventPayload:    datatypes.JSON(append([]byte(nil), n.Payload...)),
		GatewayEventSignature:  strPtr(n.Signature),
		GatewayEventStatus:     model.GatewayEventStatusReceived,
		GatewayEventTryCount:   1,
		GatewayEventReceivedAt: r.Now(),
	}
	if len(ev.GatewayEventPayload) == 0 {
		ev.GatewayEventPayload = nil
	}

	err := r.DB.WithContext(ctx).Create(&ev).Error
	if err == nil {
		return &ev, false, nil
	}
	if !dberr.IsUniqueViolation(err) || ev.GatewayEventExternalID == nil {
		return nil, false, err
	}

	var existing model.PaymentGatewayEventModel
	if err := r.DB.WithContext(ctx).
		Where("gateway_event_provider = ? AND gateway_event_external_id = ?", n.Provider, n.EventID).
		First(&existing).Error; err != nil {
		return nil, false, err
	}
	if err := r.DB.WithContext(ctx).Model(&existing).
		UpdateColumn("gateway_event_try_count", gorm.Expr("gateway_event_try_count + 1")).Error; err != nil {
		return nil, false, err
	}
	return &existing, true, nil
}

func (r *Reconciler) finish(ctx context.Context, db *gorm.DB, ev *model.PaymentGatewayEventModel, status model.GatewayEventStatus, updated int64, errMsg string) error {
	now := r.Now()
	ev.GatewayEventStatus = status
	ev.GatewayEventProcessedAt = &now
	ev.GatewayEventRegistrationsUpdated = updated
	ev.GatewayEventError = strPtr(errMsg)
	return db.WithContext(ctx).Model(&model.PaymentGatewayEventModel{}).
		Where("gateway_event_id = ?", ev.GatewayEventID).
		Updates(map[string]any{
			"gateway_event_status":                status,
			"gateway_event_processed_at":          now,
			"gateway_event_registrations_updated": updated,
			"gateway_event_error":                 ev.GatewayEventError,
		}).Error
}

// ErrUnparseable marks a signed body that is not a gateway event.
var ErrUnparseable = errors.New("unparseable gateway payload")

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
