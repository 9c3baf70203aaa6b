package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rankpoll/api/internal/core/domain"
	"github.com/rankpoll/api/internal/core/ports"
)

type fakePollRepo struct {
	mu    sync.Mutex
	polls map[uuid.UUID]*domain.Poll
}

func newFakePollRepo(polls ...*domain.Poll) *fakePollRepo {
	r := &fakePollRepo{polls: make(map[uuid.UUID]*domain.Poll)}
	for _, p := range polls {
		r.polls[p.ID] = p
	}
	return r
}

func (r *fakePollRepo) Save(ctx context.Context, poll *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.polls[poll.ID] = poll
	return nil
}

func (r *fakePollRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	poll, ok := r.polls[id]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	return poll, nil
}

func (r *fakePollRepo) GetByShareableLink(ctx context.Context, link string) (*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.polls {
		if p.ShareableLink == link {
			return p, nil
		}
	}
	return nil, domain.ErrPollNotFound
}

func (r *fakePollRepo) List(ctx context.Context, filter ports.PollFilter) ([]*domain.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var polls []*domain.Poll
	for _, p := range r.polls {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if filter.CreatorID != nil && p.CreatorID != *filter.CreatorID {
			continue
		}
		polls = append(polls, p)
	}
	return polls, nil
}

func (r *fakePollRepo) Update(ctx context.Context, poll *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.polls[poll.ID]; !ok {
		return domain.ErrPollNotFound
	}
	r.polls[poll.ID] = poll
	return nil
}

func (r *fakePollRepo) ReplaceOptions(ctx context.Context, pollID uuid.UUID, options []domain.PollOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	poll, ok := r.polls[pollID]
	if !ok {
		return domain.ErrPollNotFound
	}
	poll.Options = options
	return nil
}

func (r *fakePollRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.polls[id]; !ok {
		return domain.ErrPollNotFound
	}
	delete(r.polls, id)
	return nil
}

// fakeBallotLedger mimics the constraint-backed store: insert-if-absent
// under a single lock, so concurrent submissions contend the same way they
// do against the partial unique indexes.
type fakeBallotLedger struct {
	mu      sync.Mutex
	ballots map[string]*domain.Ballot
}

func newFakeBallotLedger() *fakeBallotLedger {
	return &fakeBallotLedger{ballots: make(map[string]*domain.Ballot)}
}

func ledgerKey(pollID uuid.UUID, v domain.VoterIdentity) string {
	if v.IsAnonymous() {
		return pollID.String() + "|guest|" + v.GuestID
	}
	return pollID.String() + "|user|" + v.UserID.String()
}

func (l *fakeBallotLedger) CreateBallot(ctx context.Context, ballot *domain.Ballot) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := ledgerKey(ballot.PollID, ballot.Voter())
	if _, ok := l.ballots[key]; ok {
		return domain.ErrAlreadyVoted
	}
	l.ballots[key] = ballot
	return nil
}

func (l *fakeBallotLedger) GetByVoter(ctx context.Context, pollID uuid.UUID, voter domain.VoterIdentity) (*domain.Ballot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ballot, ok := l.ballots[ledgerKey(pollID, voter)]
	if !ok {
		return nil, domain.ErrBallotNotFound
	}
	return ballot, nil
}

type fakeVerifier struct {
	users map[string]uuid.UUID
}

func (v *fakeVerifier) Verify(ctx context.Context, credential string) (uuid.UUID, error) {
	if userID, ok := v.users[credential]; ok {
		return userID, nil
	}
	return uuid.Nil, errors.New("invalid credential")
}
