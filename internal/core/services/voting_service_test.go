package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rankpoll/api/internal/core/domain"
	"github.com/rankpoll/api/internal/core/ports"
)

type votingFixture struct {
	poll    *domain.Poll
	options []uuid.UUID
	ledger  *fakeBallotLedger
	service ports.VotingService
}

func newVotingFixture(t *testing.T, mutate func(p *domain.Poll)) *votingFixture {
	t.Helper()

	pollID := uuid.New()
	options := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	poll := &domain.Poll{
		ID:             pollID,
		CreatorID:      uuid.New(),
		Title:          "Lunch spot",
		Status:         domain.StatusOpen,
		ShareableLink:  uuid.NewString(),
		AllowAnonymous: true,
	}
	for i, optID := range options {
		poll.Options = append(poll.Options, domain.PollOption{ID: optID, PollID: pollID, Order: i})
	}
	if mutate != nil {
		mutate(poll)
	}

	ledger := newFakeBallotLedger()
	verifier := &fakeVerifier{users: map[string]uuid.UUID{}}
	service := NewVotingService(newFakePollRepo(poll), ledger, NewIdentityResolver(verifier))

	return &votingFixture{poll: poll, options: options, ledger: ledger, service: service}
}

func TestSubmitBallotAccepted(t *testing.T) {
	max := 2
	f := newVotingFixture(t, func(p *domain.Poll) { p.MaxRankings = &max })

	result, err := f.service.SubmitBallot(context.Background(), ports.SubmitBallotInput{
		PollID: f.poll.ID,
		Rankings: []domain.RankingInput{
			{PollOptionID: f.options[1], Rank: 1},
			{PollOptionID: f.options[0], Rank: 2},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Ballot)
	assert.NotEmpty(t, result.GuestID, "minted guest id must be echoed to the client")
	assert.True(t, result.Ballot.IsAnonymous)
	assert.Len(t, result.Ballot.Rankings, 2)

	stored, err := f.ledger.GetByVoter(context.Background(), f.poll.ID, domain.AnonymousVoter(result.GuestID))
	require.NoError(t, err)
	assert.Equal(t, result.Ballot.ID, stored.ID)
}

func TestSubmitBallotValidationErrors(t *testing.T) {
	max := 2
	f := newVotingFixture(t, func(p *domain.Poll) { p.MaxRankings = &max })

	tests := []struct {
		name     string
		rankings []domain.RankingInput
		wantErr  error
	}{
		{
			name: "duplicate rank",
			rankings: []domain.RankingInput{
				{PollOptionID: f.options[0], Rank: 1},
				{PollOptionID: f.options[1], Rank: 1},
			},
			wantErr: domain.ErrDuplicateRank,
		},
		{
			name:     "missing rank one",
			rankings: []domain.RankingInput{{PollOptionID: f.options[0], Rank: 2}},
			wantErr:  domain.ErrNonContiguousRanks,
		},
		{
			name:     "unknown option",
			rankings: []domain.RankingInput{{PollOptionID: uuid.New(), Rank: 1}},
			wantErr:  domain.ErrUnknownOption,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.SubmitBallot(context.Background(), ports.SubmitBallotInput{
				PollID:   f.poll.ID,
				GuestID:  uuid.NewString(),
				Rankings: tt.rankings,
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSubmitBallotPollState(t *testing.T) {
	t.Run("poll not found", func(t *testing.T) {
		f := newVotingFixture(t, nil)
		_, err := f.service.SubmitBallot(context.Background(), ports.SubmitBallotInput{PollID: uuid.New()})
		assert.ErrorIs(t, err, domain.ErrPollNotFound)
	})

	t.Run("draft poll", func(t *testing.T) {
		f := newVotingFixture(t, func(p *domain.Poll) { p.Status = domain.StatusDraft })
		_, err := f.service.SubmitBallot(context.Background(), ports.SubmitBallotInput{PollID: f.poll.ID})
		assert.ErrorIs(t, err, domain.ErrPollNotOpen)
	})

	t.Run("closed poll", func(t *testing.T) {
		f := newVotingFixture(t, func(p *domain.Poll) { p.Status = domain.StatusClosed })
		_, err := f.service.SubmitBallot(context.Background(), ports.SubmitBallotInput{PollID: f.poll.ID})
		assert.ErrorIs(t, err, domain.ErrPollNotOpen)
	})

	t.Run("expired poll", func(t *testing.T) {
		past := time.Now().Add(-time.Minute)
		f := newVotingFixture(t, func(p *domain.Poll) { p.ExpiresAt = &past })
		_, err := f.service.SubmitBallot(context.Background(), ports.SubmitBallotInput{PollID: f.poll.ID})
		assert.ErrorIs(t, err, domain.ErrPollExpired)
	})

	t.Run("anonymous voting disallowed", func(t *testing.T) {
		f := newVotingFixture(t, func(p *domain.Poll) { p.AllowAnonymous = false })
		_, err := f.service.SubmitBallot(context.Background(), ports.SubmitBallotInput{
			PollID:   f.poll.ID,
			Rankings: []domain.RankingInput{{PollOptionID: f.options[0], Rank: 1}},
		})
		assert.ErrorIs(t, err, domain.ErrAuthRequired)
	})
}

func TestSubmitBallotResubmitConflicts(t *testing.T) {
	f := newVotingFixture(t, nil)
	guestID := uuid.NewString()
	input := ports.SubmitBallotInput{
		PollID:   f.poll.ID,
		GuestID:  guestID,
		Rankings: []domain.RankingInput{{PollOptionID: f.options[0], Rank: 1}},
	}

	_, err := f.service.SubmitBallot(context.Background(), input)
	require.NoError(t, err)

	// Rejection is idempotent: every retry conflicts, no second ballot appears.
	for i := 0; i < 3; i++ {
		_, err = f.service.SubmitBallot(context.Background(), input)
		assert.ErrorIs(t, err, domain.ErrAlreadyVoted)
	}
	assert.Len(t, f.ledger.ballots, 1)
}

func TestSubmitBallotConcurrentSameVoter(t *testing.T) {
	f := newVotingFixture(t, nil)
	guestID := uuid.NewString()

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.SubmitBallot(context.Background(), ports.SubmitBallotInput{
				PollID:   f.poll.ID,
				GuestID:  guestID,
				Rankings: []domain.RankingInput{{PollOptionID: f.options[0], Rank: 1}},
			})
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, domain.ErrAlreadyVoted):
			conflicts++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)
	assert.Len(t, f.ledger.ballots, 1)
}

func TestSubmitBallotAuthenticatedIgnoresGuestID(t *testing.T) {
	f := newVotingFixture(t, nil)
	userID := uuid.New()
	verifier := &fakeVerifier{users: map[string]uuid.UUID{"token": userID}}
	service := NewVotingService(newFakePollRepo(f.poll), f.ledger, NewIdentityResolver(verifier))

	result, err := service.SubmitBallot(context.Background(), ports.SubmitBallotInput{
		PollID:     f.poll.ID,
		Credential: "token",
		GuestID:    uuid.NewString(),
		Rankings:   []domain.RankingInput{{PollOptionID: f.options[0], Rank: 1}},
	})
	require.NoError(t, err)
	assert.Empty(t, result.GuestID)
	require.NotNil(t, result.Ballot.UserID)
	assert.Equal(t, userID, *result.Ballot.UserID)
	assert.Nil(t, result.Ballot.GuestID)
}

func TestGetBallot(t *testing.T) {
	f := newVotingFixture(t, nil)
	guestID := uuid.NewString()

	_, err := f.service.GetBallot(context.Background(), f.poll.ID, "", guestID)
	assert.ErrorIs(t, err, domain.ErrBallotNotFound)

	result, err := f.service.SubmitBallot(context.Background(), ports.SubmitBallotInput{
		PollID:   f.poll.ID,
		GuestID:  guestID,
		Rankings: []domain.RankingInput{{PollOptionID: f.options[2], Rank: 1}},
	})
	require.NoError(t, err)

	ballot, err := f.service.GetBallot(context.Background(), f.poll.ID, "", guestID)
	require.NoError(t, err)
	assert.Equal(t, result.Ballot.ID, ballot.ID)

	// Without any identity material there is no ballot to find, and nothing
	// gets minted as a side effect.
	_, err = f.service.GetBallot(context.Background(), f.poll.ID, "", "")
	assert.ErrorIs(t, err, domain.ErrBallotNotFound)

	_, err = f.service.GetBallot(context.Background(), uuid.New(), "", guestID)
	assert.ErrorIs(t, err, domain.ErrPollNotFound)
}
