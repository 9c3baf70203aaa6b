package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rankpoll/api/internal/core/domain"
)

type PollFilter struct {
	Status    *domain.PollStatus
	CreatorID *uuid.UUID
}

type PollRepository interface {
	Save(ctx context.Context, poll *domain.Poll) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	GetByShareableLink(ctx context.Context, link string) (*domain.Poll, error)
	List(ctx context.Context, filter PollFilter) ([]*domain.Poll, error)
	Update(ctx context.Context, poll *domain.Poll) error
	ReplaceOptions(ctx context.Context, pollID uuid.UUID, options []domain.PollOption) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type OptionInput struct {
	Text     string
	Order    *int
	ImageURL string
}

type CreatePollInput struct {
	CreatorID      uuid.UUID
	Title          string
	Description    string
	AllowAnonymous bool
	MaxRankings    *int
	ExpiresAt      *time.Time
	Options        []OptionInput
}

// UpdatePollInput carries only the fields present in the request; nil means
// "leave as is". MaxRankings set to a non-positive value clears the cap, a
// zero ExpiresAt clears the deadline.
type UpdatePollInput struct {
	Title          *string
	Description    *string
	AllowAnonymous *bool
	MaxRankings    *int
	ExpiresAt      *time.Time
	Status         *domain.PollStatus
	Options        []OptionInput
	ReplaceOptions bool
}

type PollService interface {
	Create(ctx context.Context, input CreatePollInput) (*domain.Poll, error)
	GetPoll(ctx context.Context, id string) (*domain.Poll, error)
	GetPollByLink(ctx context.Context, link string) (*domain.Poll, error)
	ListPolls(ctx context.Context, filter PollFilter) ([]*domain.Poll, error)
	Update(ctx context.Context, pollID, requesterID uuid.UUID, input UpdatePollInput) (*domain.Poll, error)
	TransitionStatus(ctx context.Context, pollID, requesterID uuid.UUID, newStatus domain.PollStatus) (*domain.Poll, error)
	Delete(ctx context.Context, pollID, requesterID uuid.UUID) error
}
