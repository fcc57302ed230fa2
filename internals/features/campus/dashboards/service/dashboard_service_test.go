package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"campusevents_backend/internals/constants"
	clubModel "campusevents_backend/internals/features/campus/clubs/model"
	"campusevents_backend/internals/features/campus/dashboards/dto"
	eventModel "campusevents_backend/internals/features/campus/events/model"
	regModel "campusevents_backend/internals/features/campus/registrations/model"
	paymentModel "campusevents_backend/internals/features/finance/payments/model"
	userModel "campusevents_backend/internals/features/users/users/model"
	helperAuth "campusevents_backend/internals/helpers/auth"
	"campusevents_backend/internals/helpers/testdb"
)

type fixture struct {
	db        *gorm.DB
	svc       *Service
	college   uuid.UUID
	now       time.Time
	admin     helperAuth.Actor
	organizer helperAuth.Actor
	student   helperAuth.Actor
	club      clubModel.ClubModel
	soon      eventModel.EventModel
	later     eventModel.EventModel
	past      eventModel.EventModel
}

func user(t *testing.T, db *gorm.DB, college uuid.UUID, role constants.Role, email string) helperAuth.Actor {
	t.Helper()
	u := userModel.UserModel{
		UserName: email, UserEmail: email, UserPasswordHash: "h",
		UserRole: role, UserCollegeID: college, UserIsActive: true,
	}
	require.NoError(t, db.Create(&u).Error)
	return helperAuth.Actor{UserID: u.UserID, CollegeID: college, Role: role}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t)
	f := &fixture{db: db, college: uuid.New(), now: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)}
	f.svc = New(db)
	f.svc.Now = func() time.Time { return f.now }

	f.admin = user(t, db, f.college, constants.RoleAdmin, "admin@kiet.edu")
	f.organizer = user(t, db, f.college, constants.RoleOrganizer, "org@kiet.edu")
	f.student = user(t, db, f.college, constants.RoleStudent, "asha@kiet.edu")
	other := user(t, db, f.college, constants.RoleStudent, "ravi@kiet.edu")

	f.club = clubModel.ClubModel{ClubCollegeID: f.college, ClubName: "Robotics", ClubOrganizerID: &f.organizer.UserID}
	require.NoError(t, db.Create(&f.club).Error)
	require.NoError(t, db.Create(&clubModel.ClubModel{ClubCollegeID: f.college, ClubName: "Drama"}).Error)

	mk := func(title string, startsIn time.Duration, fee int64, published bool) eventModel.EventModel {
		ev := eventModel.EventModel{
			EventCollegeID: f.college, EventClubID: f.club.ClubID, EventTitle: title,
			EventStartsAt: f.now.Add(startsIn), EventFee: fee, EventCurrency: "INR", EventIsPublished: published,
		}
		require.NoError(t, db.Create(&ev).Error)
		return ev
	}
	f.soon = mk("Line follower", 24*time.Hour, 10000, true)
	f.later = mk("Arm workshop", 72*time.Hour, 0, true)
	f.past = mk("Intro talk", -24*time.Hour, 0, true)
	mk("Draft", 96*time.Hour, 0, false)

	reg := func(ev eventModel.EventModel, who helperAuth.Actor, st regModel.PaymentStatus) {
		require.NoError(t, db.Create(&regModel.RegistrationModel{
			RegistrationEventID: ev.EventID, RegistrationUserID: who.UserID, RegistrationCollegeID: f.college,
			RegistrationAmount: ev.EventFee, RegistrationCurrency: "INR", RegistrationPaymentStatus: st,
		}).Error)
	}
	reg(f.soon, f.student, regModel.PaymentPaid)
	reg(f.soon, other, regModel.PaymentFailed)
	reg(f.later, f.student, regModel.PaymentPending)
	reg(f.past, f.student, regModel.PaymentPending)

	require.NoError(t, db.Create(&paymentModel.PaymentGatewayEventModel{
		GatewayEventProvider: paymentModel.GatewayProviderRazorpay,
		GatewayEventStatus:   paymentModel.GatewayEventStatusFailed,
	}).Error)
	return f
}

func TestAdminSummary(t *testing.T) {
	f := newFixture(t)
	out, err := f.svc.Admin(context.Background(), f.admin)
	require.NoError(t, err)

	assert.EqualValues(t, 1, out.Organizers)
	assert.EqualValues(t, 2, out.Students)
	assert.EqualValues(t, 2, out.Clubs)
	assert.EqualValues(t, 4, out.Events)
	assert.EqualValues(t, 3, out.PublishedEvents)
	assert.EqualValues(t, 3, out.UpcomingEvents)
	assert.Equal(t, dto.StatusCounts{Pending: 2, Paid: 1, Failed: 1, Total: 4}, out.Registrations)
	assert.Equal(t, []dto.Revenue{{Currency: "INR", Amount: 10000}}, out.Revenue)
	assert.EqualValues(t, 1, out.FailedWebhooks)

	// another college sees nothing of this one
	stranger := f.admin
	stranger.CollegeID = uuid.New()
	out, err = f.svc.Admin(context.Background(), stranger)
	require.NoError(t, err)
	assert.Zero(t, out.Events)
	assert.Empty(t, out.Revenue)
}

func TestOrganiserSummary(t *testing.T) {
	f := newFixture(t)
	out, err := f.svc.Organiser(context.Background(), f.organizer)
	require.NoError(t, err)

	require.Len(t, out.Clubs, 1)
	assert.Equal(t, f.club.ClubID, out.Clubs[0].ID)
	assert.EqualValues(t, 4, out.Clubs[0].Events)
	assert.EqualValues(t, 3, out.Clubs[0].UpcomingEvents)
	assert.EqualValues(t, 4, out.Registrations.Total)

	require.Len(t, out.NextEvents, 3)
	assert.Equal(t, f.soon.EventID, out.NextEvents[0].ID)
	assert.EqualValues(t, 2, out.NextEvents[0].Registrations)

	// an organizer without clubs gets an empty summary
	idle := user(t, f.db, f.college, constants.RoleOrganizer, "idle@kiet.edu")
	out, err = f.svc.Organiser(context.Background(), idle)
	require.NoError(t, err)
	assert.Empty(t, out.Clubs)
	assert.NotNil(t, out.NextEvents)
}

func TestStudentSummary(t *testing.T) {
	f := newFixture(t)
	out, err := f.svc.Student(context.Background(), f.student)
	require.NoError(t, err)

	assert.Equal(t, dto.StatusCounts{Pending: 2, Paid: 1, Total: 3}, out.Registrations)
	require.Len(t, out.Upcoming, 2)
	assert.Equal(t, f.soon.EventID, out.Upcoming[0].EventID)
	assert.Equal(t, regModel.PaymentPaid, out.Upcoming[0].PaymentStatus)
	assert.Equal(t, f.later.EventID, out.Upcoming[1].EventID)
	// both published upcoming events are taken; the draft never counts
	assert.Zero(t, out.OpenEvents)
}
