package domain

import (
	"time"

	"github.com/google/uuid"
)

type Ballot struct {
	ID          uuid.UUID       `json:"id"`
	PollID      uuid.UUID       `json:"poll_id"`
	UserID      *uuid.UUID      `json:"user_id,omitempty"`
	GuestID     *string         `json:"guest_id,omitempty"`
	IsAnonymous bool            `json:"is_anonymous"`
	SubmittedAt time.Time       `json:"submitted_at"`
	Rankings    []BallotRanking `json:"rankings,omitempty"`
}

type BallotRanking struct {
	ID           uuid.UUID `json:"id"`
	BallotID     uuid.UUID `json:"ballot_id"`
	PollOptionID uuid.UUID `json:"poll_option_id"`
	Rank         int       `json:"rank"`
}

// NewBallot builds a ballot for the given voter. The nullable user/guest
// columns are derived from the identity union, so a ballot can never carry
// both identifiers or neither.
func NewBallot(pollID uuid.UUID, voter VoterIdentity, submittedAt time.Time) *Ballot {
	b := &Ballot{
		ID:          uuid.New(),
		PollID:      pollID,
		SubmittedAt: submittedAt,
	}
	if voter.Kind == IdentityGuest {
		guestID := voter.GuestID
		b.GuestID = &guestID
		b.IsAnonymous = true
	} else {
		userID := voter.UserID
		b.UserID = &userID
	}
	return b
}

// Voter reconstructs the identity union from the stored columns.
func (b *Ballot) Voter() VoterIdentity {
	if b.GuestID != nil {
		return AnonymousVoter(*b.GuestID)
	}
	return AuthenticatedVoter(*b.UserID)
}
