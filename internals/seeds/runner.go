// Package seeds loads demo data into a bootstrapped college for local
// development. Every step skips rows that already exist, so reruns are safe.
package seeds

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campusevents_backend/internals/constants"
	clubModel "campusevents_backend/internals/features/campus/clubs/model"
	collegeModel "campusevents_backend/internals/features/campus/colleges/model"
	eventModel "campusevents_backend/internals/features/campus/events/model"
	userModel "campusevents_backend/internals/features/users/users/model"
	helper "campusevents_backend/internals/helpers"
	"campusevents_backend/internals/logger"
)

// DefaultFile is the demo data shipped with the repo.
const DefaultFile = "internals/seeds/data_demo.json"

type UserSeed struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // ORGANIZER or STUDENT
}

type ClubSeed struct {
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	OrganizerEmail string  `json:"organizer_email"`
}

type EventSeed struct {
	Club          string  `json:"club"`
	Title         string  `json:"title"`
	Description   *string `json:"description"`
	Venue         *string `json:"venue"`
	StartsInDays  int     `json:"starts_in_days"`
	DurationHours int     `json:"duration_hours"`
	Fee           int64   `json:"fee"`
	Currency      string  `json:"currency"`
	Capacity      *int    `json:"capacity"`
	Published     bool    `json:"published"`
}

type DemoSeed struct {
	CollegeCode string      `json:"college_code"`
	Users       []UserSeed  `json:"users"`
	Clubs       []ClubSeed  `json:"clubs"`
	Events      []EventSeed `json:"events"`
}

// Result counts inserted rows; skipped ones are not included.
type Result struct {
	Users  int
	Clubs  int
	Events int
}

type Runner struct {
	DB         *gorm.DB
	BcryptCost int
	Now        func() time.Time
}

func NewRunner(db *gorm.DB, bcryptCost int) *Runner {
	return &Runner{DB: db, BcryptCost: bcryptCost, Now: func() time.Time { return time.Now().UTC() }}
}

func (r *Runner) RunFile(ctx context.Context, path string) (*Result, error) {
	logger.L().Info("📥 reading seed file", zap.String("path", path))
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var data DemoSeed
	if err := sonic.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return r.Run(ctx, data)
}

// Run inserts everything in one transaction.
func (r *Runner) Run(ctx context.Context, data DemoSeed) (*Result, error) {
	res := &Result{}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var college collegeModel.CollegeModel
		code := strings.ToUpper(strings.TrimSpace(data.CollegeCode))
		if err := tx.First(&college, "college_code = ?", code).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("college %q not found, run bootstrap first", code)
			}
			return err
		}

		users, err := r.seedUsers(tx, college.CollegeID, data.Users, res)
		if err != nil {
			return err
		}
		clubs, err := seedClubs(tx, college.CollegeID, data.Clubs, users, res)
		if err != nil {
			return err
		}
		return r.seedEvents(tx, college.CollegeID, data.Events, clubs, res)
	})
	if err != nil {
		return nil, err
	}
	logger.L().Info("✅ demo data seeded",
		zap.Int("users", res.Users), zap.Int("clubs", res.Clubs), zap.Int("events", res.Events))
	return res, nil
}

// seedUsers returns user ids by lowercased email, existing ones included.
func (r *Runner) seedUsers(tx *gorm.DB, collegeID uuid.UUID, in []UserSeed, res *Result) (map[string]uuid.UUID, error) {
	ids := map[string]uuid.UUID{}
	for _, u := range in {
		email := strings.ToLower(strings.TrimSpace(u.Email))
		role, ok := constants.ParseRole(u.Role)
		if !ok || role == constants.RoleAdmin {
			return nil, fmt.Errorf("user %s: role must be ORGANIZER or STUDENT", email)
		}

		var existing userModel.UserModel
		err := tx.Where("user_email = ?", email).First(&existing).Error
		if err == nil {
			logger.L().Info("ℹ️ user exists, skipped", zap.String("email", email))
			ids[email] = existing.UserID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		hash, err := helper.HashPassword(u.Password, r.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", email, err)
		}
		row := userModel.UserModel{
			UserName:         strings.TrimSpace(u.Name),
			UserEmail:        email,
			UserPasswordHash: hash,
			UserRole:         role,
			UserCollegeID:    collegeID,
			UserIsActive:     true,
		}
		if err := tx.Create(&row).Error; err != nil {
			return nil, fmt.Errorf("insert user %s: %w", email, err)
		}
		ids[email] = row.UserID
		res.Users++
	}
	return ids, nil
}

func seedClubs(tx *gorm.DB, collegeID uuid.UUID, in []ClubSeed, users map[string]uuid.UUID, res *Result) (map[string]uuid.UUID, error) {
	ids := map[string]uuid.UUID{}
	for _, c := range in {
		name := strings.TrimSpace(c.Name)

		// soft-deleted clubs still hold their name
		var existing clubModel.ClubModel
		err := tx.Unscoped().Where("club_college_id = ? AND club_name = ?", collegeID, name).First(&existing).Error
		if err == nil {
			ids[name] = existing.ClubID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		row := clubModel.ClubModel{ClubCollegeID: collegeID, ClubName: name, ClubDescription: c.Description}
		if email := strings.ToLower(strings.TrimSpace(c.OrganizerEmail)); email != "" {
			id, ok := users[email]
			if !ok {
				return nil, fmt.Errorf("club %s: organizer %s is not in the seed users", name, email)
			}
			row.ClubOrganizerID = &id
		}
		if err := tx.Create(&row).Error; err != nil {
			return nil, fmt.Errorf("insert club %s: %w", name, err)
		}
		ids[name] = row.ClubID
		res.Clubs++
	}
	return ids, nil
}

// seedEvents places events relative to Now; club plus title identifies an event.
func (r *Runner) seedEvents(tx *gorm.DB, collegeID uuid.UUID, in []EventSeed, clubs map[string]uuid.UUID, res *Result) error {
	day := r.Now().UTC().Truncate(24 * time.Hour)
	for _, e := range in {
		clubID, ok := clubs[strings.TrimSpace(e.Club)]
		if !ok {
			return fmt.Errorf("event %s: unknown club %s", e.Title, e.Club)
		}

		var n int64
		if err := tx.Model(&eventModel.EventModel{}).
			Where("event_club_id = ? AND event_title = ?", clubID, e.Title).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}

		starts := day.AddDate(0, 0, e.StartsInDays).Add(10 * time.Hour)
		row := eventModel.EventModel{
			EventCollegeID:   collegeID,
			EventClubID:      clubID,
			EventTitle:       e.Title,
			EventDescription: e.Description,
			EventVenue:       e.Venue,
			EventStartsAt:    starts,
			EventFee:         e.Fee,
			EventCurrency:    strings.ToUpper(strings.TrimSpace(e.Currency)),
			EventCapacity:    e.Capacity,
			EventIsPublished: e.Published,
		}
		if row.EventCurrency == "" {
			row.EventCurrency = "INR"
		}
		if e.DurationHours > 0 {
			ends := starts.Add(time.Duration(e.DurationHours) * time.Hour)
			row.EventEndsAt = &ends
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("insert event %s: %w", e.Title, err)
		}
		res.Events++
	}
	return nil
}
