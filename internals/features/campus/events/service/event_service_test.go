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
	clubModel "campusevents_backend/internals/features/campus/clubs/model"
	"campusevents_backend/internals/features/campus/events/dto"
	"campusevents_backend/internals/features/campus/events/search"
	registrationModel "campusevents_backend/internals/features/campus/registrations/model"
	"campusevents_backend/internals/helpers/apperr"
	helperAuth "campusevents_backend/internals/helpers/auth"
	"campusevents_backend/internals/helpers/testdb"
)

type fakeIndex struct {
	docs    map[string]search.Document
	deleted []uuid.UUID
	hits    search.Hits
	err     error
}

func newFakeIndex() *fakeIndex { return &fakeIndex{docs: map[string]search.Document{}} }

func (f *fakeIndex) Upsert(_ context.Context, d search.Document) error {
	f.docs[d.ID] = d
	return nil
}

func (f *fakeIndex) Delete(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ search.Query) (search.Hits, error) {
	return f.hits, f.err
}

type world struct {
	db        *gorm.DB
	svc       *Service
	index     *fakeIndex
	college   uuid.UUID
	admin     helperAuth.Actor
	organizer helperAuth.Actor
	stranger  helperAuth.Actor
	student   helperAuth.Actor
	club      clubModel.ClubModel
	now       time.Time
}

func newWorld(t *testing.T) *world {
	t.Helper()
	db := testdb.Open(t)
	w := &world{db: db, index: newFakeIndex(), college: uuid.New()}
	w.now = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	w.svc = New(db, w.index, "INR")
	w.svc.Now = func() time.Time { return w.now }

	w.admin = helperAuth.Actor{UserID: uuid.New(), CollegeID: w.college, Role: constants.RoleAdmin}
	w.organizer = helperAuth.Actor{UserID: uuid.New(), CollegeID: w.college, Role: constants.RoleOrganizer}
	w.stranger = helperAuth.Actor{UserID: uuid.New(), CollegeID: w.college, Role: constants.RoleOrganizer}
	w.student = helperAuth.Actor{UserID: uuid.New(), CollegeID: w.college, Role: constants.RoleStudent}

	w.club = clubModel.ClubModel{ClubCollegeID: w.college, ClubName: "Robotics", ClubOrganizerID: &w.organizer.UserID}
	require.NoError(t, db.Create(&w.club).Error)
	return w
}

func (w *world) create(t *testing.T, actor helperAuth.Actor, title string, startsIn time.Duration, published bool) uuid.UUID {
	t.Helper()
	m, err := w.svc.Create(context.Background(), actor, dto.CreateEventRequest{
		ClubID:      w.club.ClubID.String(),
		Title:       title,
		StartsAt:    w.now.Add(startsIn),
		Fee:         49900,
		IsPublished: published,
	})
	require.NoError(t, err)
	return m.EventID
}

func TestCreate_Ownership(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	id := w.create(t, w.organizer, "Line Follower Race", 48*time.Hour, true)
	assert.Contains(t, w.index.docs, id.String())
	assert.Equal(t, "Line Follower Race", w.index.docs[id.String()].Title)

	w.create(t, w.admin, "Drone Workshop", 72*time.Hour, false)

	req := dto.CreateEventRequest{ClubID: w.club.ClubID.String(), Title: "Hijack", StartsAt: w.now.Add(time.Hour)}
	_, err := w.svc.Create(ctx, w.stranger, req)
	assert.True(t, errors.Is(err, ErrNotEventOwner))

	_, err = w.svc.Create(ctx, w.student, req)
	assert.True(t, errors.Is(err, ErrNotEventOwner))

	other := w.admin
	other.CollegeID = uuid.New()
	_, err = w.svc.Create(ctx, other, req)
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Contains(t, ae.Fields, "club_id")
}

func TestCreate_Validation(t *testing.T) {
	w := newWorld(t)
	end := w.now

	_, err := w.svc.Create(context.Background(), w.admin, dto.CreateEventRequest{
		ClubID: w.club.ClubID.String(), Title: "Hackathon", StartsAt: w.now.Add(time.Hour), EndsAt: &end,
	})
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Contains(t, ae.Fields, "ends_at")

	_, err = w.svc.Create(context.Background(), w.admin, dto.CreateEventRequest{ClubID: "x", Fee: -1, Currency: "RUPEE"})
	ae, ok = apperr.As(err)
	require.True(t, ok)
	for _, f := range []string{"club_id", "title", "starts_at", "fee", "currency"} {
		assert.Contains(t, ae.Fields, f)
	}
}

func TestStudentsSeePublishedOnly(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	pub := w.create(t, w.organizer, "Open Day", 24*time.Hour, true)
	draft := w.create(t, w.organizer, "Draft Plans", 24*time.Hour, false)

	rows, total, err := w.svc.List(ctx, w.student, ListParams{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, pub, rows[0].EventID)

	_, err = w.svc.Get(ctx, w.student, draft)
	assert.True(t, errors.Is(err, ErrEventNotFound))

	_, total, err = w.svc.List(ctx, w.organizer, ListParams{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestList_UpcomingAndQuery(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	w.create(t, w.admin, "Past Meetup", -24*time.Hour, true)
	soon := w.create(t, w.admin, "Soon Meetup", 2*time.Hour, true)
	w.create(t, w.admin, "Later Talk", 48*time.Hour, true)

	rows, total, err := w.svc.List(ctx, w.student, ListParams{Upcoming: true, Query: "meetup", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, soon, rows[0].EventID)
}

func TestSearch_UsesIndexOrder(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	a := w.create(t, w.admin, "Alpha", time.Hour, true)
	b := w.create(t, w.admin, "Beta", 2*time.Hour, true)
	hidden := w.create(t, w.admin, "Gamma", 3*time.Hour, false)

	w.index.hits = search.Hits{IDs: []uuid.UUID{b, uuid.New(), hidden, a}, Total: 4}
	rows, total, err := w.svc.Search(ctx, w.student, "anything", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, rows, 2)
	assert.Equal(t, b, rows[0].EventID)
	assert.Equal(t, a, rows[1].EventID)
}

func TestSearch_FallsBackToSQL(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	id := w.create(t, w.admin, "Robotics Expo", time.Hour, true)
	w.create(t, w.admin, "Poetry Slam", time.Hour, true)

	w.index.err = errors.New("connection refused")
	rows, total, err := w.svc.Search(ctx, w.student, "expo", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, id, rows[0].EventID)

	w.svc.Index = nil
	rows, _, err = w.svc.Search(ctx, w.student, "slam", 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Poetry Slam", rows[0].EventTitle)
}

func TestPatch(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	id := w.create(t, w.organizer, "Build Night", 24*time.Hour, false)

	title := "Build Night v2"
	published := true
	fee := int64(0)
	m, err := w.svc.Patch(ctx, w.organizer, id, dto.PatchEventRequest{Title: &title, IsPublished: &published, Fee: &fee})
	require.NoError(t, err)
	assert.Equal(t, title, m.EventTitle)
	assert.True(t, m.EventIsPublished)
	assert.True(t, m.IsFree())
	assert.True(t, w.index.docs[id.String()].IsPublished)

	_, err = w.svc.Patch(ctx, w.stranger, id, dto.PatchEventRequest{Title: &title})
	assert.True(t, errors.Is(err, ErrNotEventOwner))

	early := w.now
	_, err = w.svc.Patch(ctx, w.admin, id, dto.PatchEventRequest{EndsAt: &early})
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Contains(t, ae.Fields, "ends_at")
}

func TestDelete(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	id := w.create(t, w.organizer, "Paid Gala", 24*time.Hour, true)

	reg := registrationModel.RegistrationModel{
		RegistrationEventID: id, RegistrationUserID: w.student.UserID, RegistrationCollegeID: w.college,
		RegistrationAmount: 49900, RegistrationCurrency: "INR", RegistrationPaymentStatus: registrationModel.PaymentPaid,
	}
	require.NoError(t, w.db.Create(&reg).Error)

	_, err := w.svc.Delete(ctx, w.organizer, id)
	assert.True(t, errors.Is(err, ErrEventHasPayment))

	free := w.create(t, w.organizer, "Free Walk", 24*time.Hour, true)
	_, err = w.svc.Delete(ctx, w.student, free)
	assert.True(t, errors.Is(err, ErrNotEventOwner))

	_, err = w.svc.Delete(ctx, w.organizer, free)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{free}, w.index.deleted)

	_, err = w.svc.Get(ctx, w.admin, free)
	assert.True(t, errors.Is(err, ErrEventNotFound))
}
