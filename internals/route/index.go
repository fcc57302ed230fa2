// file: internals/route/index.go
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campusevents_backend/internals/configs"
	"campusevents_backend/internals/constants"
	clubController "campusevents_backend/internals/features/campus/clubs/controller"
	clubRoute "campusevents_backend/internals/features/campus/clubs/route"
	clubService "campusevents_backend/internals/features/campus/clubs/service"
	collegeController "campusevents_backend/internals/features/campus/colleges/controller"
	collegeRoute "campusevents_backend/internals/features/campus/colleges/route"
	collegeService "campusevents_backend/internals/features/campus/colleges/service"
	dashboardController "campusevents_backend/internals/features/campus/dashboards/controller"
	dashboardRoute "campusevents_backend/internals/features/campus/dashboards/route"
	dashboardService "campusevents_backend/internals/features/campus/dashboards/service"
	eventController "campusevents_backend/internals/features/campus/events/controller"
	eventRoute "campusevents_backend/internals/features/campus/events/route"
	"campusevents_backend/internals/features/campus/events/search"
	eventService "campusevents_backend/internals/features/campus/events/service"
	registrationController "campusevents_backend/internals/features/campus/registrations/controller"
	registrationRoute "campusevents_backend/internals/features/campus/registrations/route"
	registrationService "campusevents_backend/internals/features/campus/registrations/service"
	paymentController "campusevents_backend/internals/features/finance/payments/controller"
	"campusevents_backend/internals/features/finance/payments/gateway"
	paymentRoute "campusevents_backend/internals/features/finance/payments/route"
	paymentService "campusevents_backend/internals/features/finance/payments/service"
	bootstrapController "campusevents_backend/internals/features/platform/bootstrap/controller"
	bootstrapRoute "campusevents_backend/internals/features/platform/bootstrap/route"
	bootstrapService "campusevents_backend/internals/features/platform/bootstrap/service"
	authController "campusevents_backend/internals/features/users/auth/controller"
	authRoute "campusevents_backend/internals/features/users/auth/route"
	authService "campusevents_backend/internals/features/users/auth/service"
	userController "campusevents_backend/internals/features/users/users/controller"
	userRoute "campusevents_backend/internals/features/users/users/route"
	userService "campusevents_backend/internals/features/users/users/service"
	helperOSS "campusevents_backend/internals/helpers/oss"
	"campusevents_backend/internals/logger"
	"campusevents_backend/internals/middlewares"
	"campusevents_backend/internals/middlewares/access"
	authMiddleware "campusevents_backend/internals/middlewares/auth"
)

var startTime time.Time

// Deps are the long-lived collaborators built by the serve command.
// Blob, Gateway, Index and Store are optional.
type Deps struct {
	Config  *configs.AppConfig
	DB      *gorm.DB
	Store   fiber.Storage
	Blob    helperOSS.BlobService
	Gateway gateway.OrderCreator
	Index   search.Index
}

// SetupRoutes wires every feature. It returns the auth service so the caller
// can schedule blacklist cleanup against it.
func SetupRoutes(app *fiber.App, d Deps) *authService.Service {
	startTime = time.Now()
	cfg := d.Config
	dev := cfg.IsDevelopment()

	BaseRoutes(app, d.DB, cfg)
	api := app.Group("/api")

	// ===================== AUTH =====================
	authSvc := authService.New(d.DB, cfg.JWTSecret, cfg.JWTTTL, cfg.BcryptCost, authService.NewGoogleVerifier(cfg.GoogleClientID))
	protect := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              cfg.JWTSecret,
		BlacklistChecker:    authSvc.IsBlacklisted,
		ActiveChecker:       authSvc.EnsureActive,
		AllowCookieFallback: true,
		DevMode:             dev,
	})
	adminOnly := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("this resource"), constants.AdminOnly...)
	staffOnly := authMiddleware.OnlyRoles(constants.RoleErrorOrganizer("this resource"), constants.OrganizerAndUp...)
	studentOnly := authMiddleware.OnlyRoles(constants.RoleErrorStudent("event registration"), constants.StudentOnly...)

	logger.L().Info("mounting auth routes")
	authRoute.AuthRoutes(api, authController.NewAuthController(authSvc, dev), protect, authRoute.Limiters{
		Login:    middlewares.LoginRateLimiter(d.Store),
		Register: middlewares.RegisterRateLimiter(d.Store),
	})

	// ===================== PLATFORM =====================
	bootstrapRoute.BootstrapRoutes(api,
		bootstrapController.NewBootstrapController(bootstrapService.New(d.DB, cfg.BcryptCost), dev),
		middlewares.BootstrapRateLimiter(d.Store))

	// ===================== CAMPUS =====================
	logger.L().Info("mounting campus routes",
		zap.Bool("uploads", d.Blob != nil),
		zap.Bool("payments", d.Gateway != nil),
		zap.Bool("search_index", d.Index != nil))

	userRoute.AdminUserRoutes(api,
		userController.NewAdminUserController(d.DB, userService.New(d.DB, cfg.BcryptCost), dev),
		protect, adminOnly)

	collegeRoute.CollegeRoutes(api,
		collegeController.NewCollegeController(collegeService.New(d.DB, d.Blob), dev),
		protect, adminOnly)

	clubRoute.ClubRoutes(api, clubController.NewClubController(clubService.New(d.DB), dev), protect, adminOnly)

	events := eventService.New(d.DB, d.Index, cfg.Currency)
	registrations := registrationController.NewRegistrationController(registrationService.New(d.DB, d.Gateway), events, dev)
	eventRoute.EventRoutes(api, eventController.NewEventController(events, dev), protect, staffOnly,
		registrationRoute.EventRegistrationsMount(registrations, staffOnly))
	registrationRoute.RegistrationRoutes(api, registrations, protect, studentOnly)

	// ===================== PAYMENTS =====================
	paymentRoute.WebhookRoutes(api, paymentController.NewWebhookController(
		paymentService.NewReconciler(d.DB), cfg.RazorpayWebhookSecret, cfg.MidtransServerKey, dev))
	paymentRoute.GatewayEventAdminRoutes(api, paymentController.NewPaymentGatewayEventController(d.DB, dev), protect, adminOnly)

	// ===================== DASHBOARDS =====================
	filter := access.Middleware(access.NewTable(cfg.AccessPublicPrefixes, access.DefaultRules()), cfg.JWTSecret)
	dashboardRoute.DashboardRoutes(app,
		dashboardController.NewDashboardController(dashboardService.New(d.DB), dev), filter, protect)

	return authSvc
}
