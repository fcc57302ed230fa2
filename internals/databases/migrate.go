package database

import (
	"gorm.io/gorm"

	clubModel "campusevents_backend/internals/features/campus/clubs/model"
	collegeModel "campusevents_backend/internals/features/campus/colleges/model"
	eventModel "campusevents_backend/internals/features/campus/events/model"
	registrationModel "campusevents_backend/internals/features/campus/registrations/model"
	paymentModel "campusevents_backend/internals/features/finance/payments/model"
	bootstrapModel "campusevents_backend/internals/features/platform/bootstrap/model"
	authModel "campusevents_backend/internals/features/users/auth/model"
	userModel "campusevents_backend/internals/features/users/users/model"
)

// Models lists every table owned by the service, in dependency order.
func Models() []any {
	return []any{
		&collegeModel.CollegeModel{},
		&userModel.UserModel{},
		&bootstrapModel.PlatformBootstrapModel{},
		&clubModel.ClubModel{},
		&eventModel.EventModel{},
		&registrationModel.RegistrationModel{},
		&paymentModel.PaymentGatewayEventModel{},
		&authModel.TokenBlacklist{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
