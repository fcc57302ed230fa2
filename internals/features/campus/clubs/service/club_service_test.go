package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"campusevents_backend/internals/constants"
	"campusevents_backend/internals/features/campus/clubs/dto"
	eventModel "campusevents_backend/internals/features/campus/events/model"
	userModel "campusevents_backend/internals/features/users/users/model"
	"campusevents_backend/internals/helpers/apperr"
	"campusevents_backend/internals/helpers/testdb"
)

func seedUser(t *testing.T, db *gorm.DB, college uuid.UUID, role constants.Role, email string) uuid.UUID {
	t.Helper()
	u := userModel.UserModel{
		UserName: "x", UserEmail: email, UserPasswordHash: "h",
		UserRole: role, UserCollegeID: college, UserIsActive: true,
	}
	require.NoError(t, db.Create(&u).Error)
	return u.UserID
}

func strp(s string) *string { return &s }

func TestCreate_OrganizerRules(t *testing.T) {
	db := testdb.Open(t)
	svc := New(db)
	ctx := context.Background()
	college, other := uuid.New(), uuid.New()

	organizer := seedUser(t, db, college, constants.RoleOrganizer, "org@kiet.edu")
	student := seedUser(t, db, college, constants.RoleStudent, "stu@kiet.edu")
	foreign := seedUser(t, db, other, constants.RoleOrganizer, "org@abes.edu")

	club, err := svc.Create(ctx, college, dto.CreateClubRequest{Name: " Robotics ", OrganizerID: strp(organizer.String())})
	require.NoError(t, err)
	assert.Equal(t, "Robotics", club.ClubName)
	require.NotNil(t, club.ClubOrganizerID)
	assert.Equal(t, organizer, *club.ClubOrganizerID)
	assert.True(t, IsOrganizerOf(club, organizer))

	for _, bad := range []uuid.UUID{student, foreign, uuid.New()} {
		_, err = svc.Create(ctx, college, dto.CreateClubRequest{Name: "Chess " + bad.String()[:4], OrganizerID: strp(bad.String())})
		assert.True(t, errors.Is(err, ErrInvalidOrganizer), "organizer %s", bad)
	}

	_, err = svc.Create(ctx, college, dto.CreateClubRequest{Name: "Robotics"})
	assert.True(t, errors.Is(err, ErrClubNameTaken))

	// same name in another college is fine
	_, err = svc.Create(ctx, other, dto.CreateClubRequest{Name: "Robotics"})
	assert.NoError(t, err)

	_, err = svc.Create(ctx, college, dto.CreateClubRequest{Name: "X", OrganizerID: strp("nope")})
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Contains(t, ae.Fields, "name")
	assert.Contains(t, ae.Fields, "organizer_id")
}

func TestPatch(t *testing.T) {
	db := testdb.Open(t)
	svc := New(db)
	ctx := context.Background()
	college := uuid.New()
	organizer := seedUser(t, db, college, constants.RoleOrganizer, "org@kiet.edu")

	club, err := svc.Create(ctx, college, dto.CreateClubRequest{Name: "Drama", Description: strp("stage")})
	require.NoError(t, err)

	got, err := svc.Patch(ctx, college, club.ClubID, dto.PatchClubRequest{OrganizerID: strp(organizer.String())})
	require.NoError(t, err)
	assert.Equal(t, organizer, *got.ClubOrganizerID)
	assert.Equal(t, "stage", *got.ClubDescription)

	got, err = svc.Patch(ctx, college, club.ClubID, dto.PatchClubRequest{OrganizerID: strp(""), Description: strp("")})
	require.NoError(t, err)
	assert.Nil(t, got.ClubOrganizerID)
	assert.Nil(t, got.ClubDescription)

	_, err = svc.Patch(ctx, uuid.New(), club.ClubID, dto.PatchClubRequest{Name: strp("Theatre")})
	assert.True(t, errors.Is(err, ErrClubNotFound))
}

func TestDelete_RefusesWithEvents(t *testing.T) {
	db := testdb.Open(t)
	svc := New(db)
	ctx := context.Background()
	college := uuid.New()

	club, err := svc.Create(ctx, college, dto.CreateClubRequest{Name: "Music"})
	require.NoError(t, err)
	ev := eventModel.EventModel{
		EventCollegeID: college, EventClubID: club.ClubID, EventTitle: "Jam",
		EventStartsAt: time.Now().UTC().Add(time.Hour), EventCurrency: "INR",
	}
	require.NoError(t, db.Create(&ev).Error)

	_, err = svc.Delete(ctx, college, club.ClubID)
	assert.True(t, errors.Is(err, ErrClubHasEvents))

	require.NoError(t, db.Delete(&ev).Error)
	_, err = svc.Delete(ctx, college, club.ClubID)
	require.NoError(t, err)

	_, err = svc.Get(ctx, college, club.ClubID)
	assert.True(t, errors.Is(err, ErrClubNotFound))
}

func TestList(t *testing.T) {
	db := testdb.Open(t)
	svc := New(db)
	ctx := context.Background()
	college := uuid.New()
	organizer := seedUser(t, db, college, constants.RoleOrganizer, "org@kiet.edu")

	for _, n := range []string{"Coding", "Chess", "Cricket"} {
		_, err := svc.Create(ctx, college, dto.CreateClubRequest{Name: n})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, college, dto.CreateClubRequest{Name: "Dance", OrganizerID: strp(organizer.String())})
	require.NoError(t, err)

	rows, total, err := svc.List(ctx, college, ListParams{Query: "c", Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "Chess", rows[0].ClubName)

	rows, total, err = svc.List(ctx, college, ListParams{OrganizerID: &organizer, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Dance", rows[0].ClubName)
}
