package domain

import (
	"time"

	"github.com/google/uuid"
)

type PollStatus string

const (
	StatusDraft  PollStatus = "draft"
	StatusOpen   PollStatus = "open"
	StatusClosed PollStatus = "closed"
)

func (s PollStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusOpen, StatusClosed:
		return true
	}
	return false
}

const (
	TitleMaxLen      = 200
	OptionTextMaxLen = 500
)

type Poll struct {
	ID             uuid.UUID    `json:"id"`
	CreatorID      uuid.UUID    `json:"creator_id"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	Status         PollStatus   `json:"status"`
	ShareableLink  string       `json:"shareable_link"`
	AllowAnonymous bool         `json:"allow_anonymous"`
	MaxRankings    *int         `json:"max_rankings,omitempty"`
	Options        []PollOption `json:"options"`
	CreatedAt      time.Time    `json:"created_at"`
	ExpiresAt      *time.Time   `json:"expires_at,omitempty"`
	ClosedAt       *time.Time   `json:"closed_at,omitempty"`
}

type PollOption struct {
	ID        uuid.UUID `json:"id"`
	PollID    uuid.UUID `json:"poll_id"`
	Text      string    `json:"text"`
	Order     int       `json:"order"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CanEditFields reports whether the poll's fields may still change.
// Closed polls are immutable.
func (p *Poll) CanEditFields() bool {
	return p.Status != StatusClosed
}

// CanEditOptions reports whether the option set may be replaced. Options are
// frozen the moment the poll leaves draft, since it could have received votes.
func (p *Poll) CanEditOptions() bool {
	return p.Status == StatusDraft
}

// CanAcceptVote reports whether a ballot submitted at now would be accepted.
func (p *Poll) CanAcceptVote(now time.Time) bool {
	if p.Status != StatusOpen {
		return false
	}
	return p.ExpiresAt == nil || now.Before(*p.ExpiresAt)
}

// Expired reports whether the poll's voting window has passed.
func (p *Poll) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && !now.Before(*p.ExpiresAt)
}

// Transition moves the poll to newStatus. Any transition is allowed until the
// poll is closed; closed is terminal. Entering closed stamps ClosedAt exactly
// once.
func (p *Poll) Transition(newStatus PollStatus, now time.Time) error {
	if p.Status == StatusClosed {
		return ErrPollClosed
	}
	if !newStatus.Valid() {
		return ErrInvalidStatus
	}
	if newStatus == StatusClosed && p.ClosedAt == nil {
		t := now
		p.ClosedAt = &t
	}
	p.Status = newStatus
	return nil
}

// OptionIDs returns the poll's live option identifiers as a set.
func (p *Poll) OptionIDs() map[uuid.UUID]struct{} {
	ids := make(map[uuid.UUID]struct{}, len(p.Options))
	for _, opt := range p.Options {
		ids[opt.ID] = struct{}{}
	}
	return ids
}
