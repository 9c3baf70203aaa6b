package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rankpoll/api/internal/core/domain"
	"github.com/rankpoll/api/internal/core/ports"
)

type votingService struct {
	pollRepo   ports.PollRepository
	ballotRepo ports.BallotRepository
	resolver   ports.IdentityResolver
	now        func() time.Time
}

func NewVotingService(pollRepo ports.PollRepository, ballotRepo ports.BallotRepository, resolver ports.IdentityResolver) ports.VotingService {
	return &votingService{
		pollRepo:   pollRepo,
		ballotRepo: ballotRepo,
		resolver:   resolver,
		now:        time.Now,
	}
}

// SubmitBallot runs the full acceptance pipeline: poll state, voter identity,
// ranking validation, then the single state-mutating commit through the
// ledger. Each failure short-circuits the rest.
func (s *votingService) SubmitBallot(ctx context.Context, input ports.SubmitBallotInput) (*ports.SubmitBallotResult, error) {
	poll, err := s.pollRepo.GetByID(ctx, input.PollID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !poll.CanAcceptVote(now) {
		if poll.Status == domain.StatusOpen && poll.Expired(now) {
			return nil, domain.ErrPollExpired
		}
		return nil, domain.ErrPollNotOpen
	}

	voter, _, err := s.resolver.Resolve(ctx, input.Credential, input.GuestID, poll.AllowAnonymous)
	if err != nil {
		return nil, err
	}

	constraints := domain.RankingConstraints{
		OptionIDs:   poll.OptionIDs(),
		MaxRankings: poll.MaxRankings,
	}
	if err := domain.ValidateRankings(constraints, input.Rankings); err != nil {
		return nil, err
	}

	ballot := domain.NewBallot(poll.ID, voter, now)
	ballot.Rankings = make([]domain.BallotRanking, 0, len(input.Rankings))
	for _, rk := range input.Rankings {
		ballot.Rankings = append(ballot.Rankings, domain.BallotRanking{
			ID:           uuid.New(),
			BallotID:     ballot.ID,
			PollOptionID: rk.PollOptionID,
			Rank:         rk.Rank,
		})
	}

	if err := s.ballotRepo.CreateBallot(ctx, ballot); err != nil {
		return nil, err
	}

	result := &ports.SubmitBallotResult{Ballot: ballot}
	if voter.IsAnonymous() {
		result.GuestID = voter.GuestID
	}
	return result, nil
}

// GetBallot looks up the resolved voter's existing ballot. Resolution is
// lenient here: an unverifiable credential or an unknown guest id simply
// means no ballot, never an error.
func (s *votingService) GetBallot(ctx context.Context, pollID uuid.UUID, credential, guestID string) (*domain.Ballot, error) {
	if _, err := s.pollRepo.GetByID(ctx, pollID); err != nil {
		return nil, err
	}

	voter, minted, err := s.resolver.Resolve(ctx, credential, guestID, true)
	if err != nil {
		return nil, err
	}
	if minted {
		// A freshly minted guest id cannot have voted yet.
		return nil, domain.ErrBallotNotFound
	}

	return s.ballotRepo.GetByVoter(ctx, pollID, voter)
}
