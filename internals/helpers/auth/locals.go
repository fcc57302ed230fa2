package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"campusevents_backend/internals/constants"
)

/* ============================================
   Locals keys (set by the auth middleware / access filter)
   ============================================ */

const (
	LocUserID    = "user_id"
	LocRole      = "userRole"
	LocCollegeID = "college_id"
	LocUserName  = "user_name"
	LocRawToken  = "raw_token"
	LocClaims    = "jwt_claims"
)

// StoreClaims hydrates Locals from verified claims.
func StoreClaims(c *fiber.Ctx, cl *Claims, raw string) {
	c.Locals(LocClaims, cl)
	c.Locals(LocUserID, cl.UserID)
	c.Locals(LocRole, cl.Role)
	c.Locals(LocCollegeID, cl.CollegeID)
	c.Locals(LocUserName, cl.Name)
	if raw = strings.TrimSpace(raw); raw != "" {
		c.Locals(LocRawToken, raw)
	}
}

func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	if id, ok := c.Locals(LocUserID).(uuid.UUID); ok && id != uuid.Nil {
		return id, nil
	}
	return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - missing user id")
}

func GetCollegeID(c *fiber.Ctx) (uuid.UUID, error) {
	if id, ok := c.Locals(LocCollegeID).(uuid.UUID); ok && id != uuid.Nil {
		return id, nil
	}
	return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - missing college scope")
}

func GetRole(c *fiber.Ctx) (constants.Role, bool) {
	r, ok := c.Locals(LocRole).(constants.Role)
	return r, ok && r.Valid()
}

func GetClaims(c *fiber.Ctx) (*Claims, bool) {
	cl, ok := c.Locals(LocClaims).(*Claims)
	return cl, ok && cl != nil
}

func GetRawToken(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocRawToken).(string); ok {
		return v
	}
	return ""
}

// Actor is the authenticated caller as services see it.
type Actor struct {
	UserID    uuid.UUID
	CollegeID uuid.UUID
	Role      constants.Role
}

func (a Actor) Is(role constants.Role) bool { return a.Role == role }

// CurrentActor reads the caller from Locals; AuthJWT must have run.
func CurrentActor(c *fiber.Ctx) (Actor, error) {
	userID, err := GetUserID(c)
	if err != nil {
		return Actor{}, err
	}
	collegeID, err := GetCollegeID(c)
	if err != nil {
		return Actor{}, err
	}
	role, ok := GetRole(c)
	if !ok {
		return Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - missing role")
	}
	return Actor{UserID: userID, CollegeID: collegeID, Role: role}, nil
}
