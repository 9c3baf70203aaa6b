package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/rankpoll/api/internal/core/domain"
)

// BallotRepository is the ledger enforcing one ballot per (poll, voter).
type BallotRepository interface {
	// CreateBallot atomically persists the ballot together with its rankings.
	// A uniqueness violation on the per-poll voter constraint is reported as
	// domain.ErrAlreadyVoted; a ballot with partial rankings is never left
	// behind.
	CreateBallot(ctx context.Context, ballot *domain.Ballot) error
	GetByVoter(ctx context.Context, pollID uuid.UUID, voter domain.VoterIdentity) (*domain.Ballot, error)
}

type SubmitBallotInput struct {
	PollID     uuid.UUID
	Credential string
	GuestID    string
	Rankings   []domain.RankingInput
}

type SubmitBallotResult struct {
	Ballot *domain.Ballot
	// GuestID echoes the anonymous voter's id (possibly freshly minted) so
	// the client can persist it; empty for authenticated voters.
	GuestID string
}

type VotingService interface {
	SubmitBallot(ctx context.Context, input SubmitBallotInput) (*SubmitBallotResult, error)
	GetBallot(ctx context.Context, pollID uuid.UUID, credential, guestID string) (*domain.Ballot, error)
}
