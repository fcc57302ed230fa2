package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	collegeDTO "campusevents_backend/internals/features/campus/colleges/dto"
	"campusevents_backend/internals/features/users/auth/dto"
	"campusevents_backend/internals/features/users/auth/service"
	userDTO "campusevents_backend/internals/features/users/users/dto"
	helper "campusevents_backend/internals/helpers"
	helperAuth "campusevents_backend/internals/helpers/auth"
)

type AuthController struct {
	Service *service.Service
	DevMode bool
}

func NewAuthController(svc *service.Service, devMode bool) *AuthController {
	return &AuthController{Service: svc, DevMode: devMode}
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	sess, err := ac.Service.Login(c.UserContext(), req)
	if err != nil {
		return helper.FromError(c, err, ac.DevMode)
	}
	return ac.respondSession(c, fiber.StatusOK, "Login successful", sess)
}

// POST /api/auth/register
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	sess, err := ac.Service.Register(c.UserContext(), req)
	if err != nil {
		return helper.FromError(c, err, ac.DevMode)
	}
	return ac.respondSession(c, fiber.StatusCreated, "Registration successful", sess)
}

// POST /api/auth/google
func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	sess, err := ac.Service.LoginGoogle(c.UserContext(), req.IDToken)
	if err != nil {
		return helper.FromError(c, err, ac.DevMode)
	}
	return ac.respondSession(c, fiber.StatusOK, "Login successful", sess)
}

// POST /api/auth/logout (idempotent)
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	if err := ac.Service.Logout(c.UserContext(), helperAuth.ExtractRawToken(c, true)); err != nil {
		return helper.FromError(c, err, ac.DevMode)
	}
	c.Cookie(&fiber.Cookie{
		Name:     helperAuth.AccessTokenCookie,
		Value:    "",
		HTTPOnly: true,
		Secure:   !ac.DevMode,
		SameSite: ac.sameSite(),
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
	})
	return helper.JsonOK(c, "Logout successful", nil)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.FromError(c, err, ac.DevMode)
	}
	user, college, err := ac.Service.Me(c.UserContext(), userID)
	if err != nil {
		return helper.FromError(c, err, ac.DevMode)
	}
	return helper.JsonOK(c, "ok", dto.MeResponse{
		User:    userDTO.FromModel(user),
		College: collegeDTO.FromModel(college),
		Landing: user.UserRole.LandingPath(),
	})
}

func (ac *AuthController) respondSession(c *fiber.Ctx, status int, msg string, sess *service.Session) error {
	c.Cookie(&fiber.Cookie{
		Name:     helperAuth.AccessTokenCookie,
		Value:    sess.Token,
		HTTPOnly: true,
		Secure:   !ac.DevMode,
		SameSite: ac.sameSite(),
		Path:     "/",
		Expires:  sess.ExpiresAt,
	})
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": msg,
		"data": dto.SessionResponse{
			AccessToken: sess.Token,
			ExpiresAt:   sess.ExpiresAt,
			User:        userDTO.FromModel(&sess.User),
			Landing:     sess.User.UserRole.LandingPath(),
		},
	})
}

// SameSite=None requires Secure, which plain-http dev servers cannot offer.
func (ac *AuthController) sameSite() string {
	if ac.DevMode {
		return fiber.CookieSameSiteLaxMode
	}
	return fiber.CookieSameSiteNoneMode
}
