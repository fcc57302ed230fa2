// Package search keeps campus events in an Elasticsearch index for free-text lookup.
package search

import (
	"context"
	"time"

	"github.com/google/uuid"

	"campusevents_backend/internals/features/campus/events/model"
)

// Document is the indexed shape of an event.
type Document struct {
	ID          string    `json:"id"`
	CollegeID   string    `json:"college_id"`
	ClubID      string    `json:"club_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Venue       string    `json:"venue,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	IsPublished bool      `json:"is_published"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func BuildDocument(m *model.EventModel) Document {
	d := Document{
		ID:          m.EventID.String(),
		CollegeID:   m.EventCollegeID.String(),
		ClubID:      m.EventClubID.String(),
		Title:       m.EventTitle,
		StartsAt:    m.EventStartsAt.UTC(),
		IsPublished: m.EventIsPublished,
		UpdatedAt:   m.EventUpdatedAt.UTC(),
	}
	if m.EventDescription != nil {
		d.Description = *m.EventDescription
	}
	if m.EventVenue != nil {
		d.Venue = *m.EventVenue
	}
	return d
}

type Query struct {
	CollegeID     uuid.UUID
	Text          string
	PublishedOnly bool
	From          int
	Size          int
}

// Hits are event ids in relevance order.
type Hits struct {
	IDs   []uuid.UUID
	Total int64
}

type Index interface {
	Upsert(ctx context.Context, doc Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, q Query) (Hits, error)
}
