package domain

import (
	"time"

	"github.com/google/uuid"
)

type Presentation struct {
	Icon            string
	BackgroundColor string
	TextColor       string
}

type Link struct {
	ID             uuid.UUID
	OwnerID        string
	ShortCode      string
	Title          string
	DestinationURL string
	Presentation   Presentation
	Order          int
	IsActive       bool
	ClickCount     int64

	// UniqueViews is a measured unique-view count when the backend has one.
	// Nil means analytics falls back to the estimate.
	UniqueViews *int64

	// ClickEvents is filled only by analytics reads.
	ClickEvents []ClickEvent

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewLink is the validated input of a create operation.
type NewLink struct {
	Title          string
	DestinationURL string
	Presentation   Presentation
}

// LinkPatch carries the fields of a partial update; nil fields are left unchanged.
type LinkPatch struct {
	Title           *string
	DestinationURL  *string
	Icon            *string
	BackgroundColor *string
	TextColor       *string
	IsActive        *bool
	Order           *int
}

func (p LinkPatch) IsEmpty() bool {
	return p.Title == nil &&
		p.DestinationURL == nil &&
		p.Icon == nil &&
		p.BackgroundColor == nil &&
		p.TextColor == nil &&
		p.IsActive == nil &&
		p.Order == nil
}

// Apply returns l with the patch fields applied.
func (p LinkPatch) Apply(l Link) Link {
	if p.Title != nil {
		l.Title = *p.Title
	}

	if p.DestinationURL != nil {
		l.DestinationURL = *p.DestinationURL
	}

	if p.Icon != nil {
		l.Presentation.Icon = *p.Icon
	}

	if p.BackgroundColor != nil {
		l.Presentation.BackgroundColor = *p.BackgroundColor
	}

	if p.TextColor != nil {
		l.Presentation.TextColor = *p.TextColor
	}

	if p.IsActive != nil {
		l.IsActive = *p.IsActive
	}

	if p.Order != nil {
		l.Order = *p.Order
	}

	return l
}

// LinkKey addresses a link either by id or by short code.
type LinkKey struct {
	ID        uuid.UUID
	ShortCode string
}

func (k LinkKey) ByID() bool {
	return k.ID != uuid.Nil
}
