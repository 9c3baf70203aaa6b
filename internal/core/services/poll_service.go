package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rankpoll/api/internal/core/domain"
	"github.com/rankpoll/api/internal/core/ports"
)

type pollService struct {
	repo ports.PollRepository
	now  func() time.Time
}

func NewPollService(repo ports.PollRepository) ports.PollService {
	return &pollService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || len(title) > domain.TitleMaxLen {
		return nil, domain.ErrInvalidTitle
	}
	if input.MaxRankings != nil && *input.MaxRankings < 1 {
		return nil, domain.ErrInvalidMaxRankings
	}

	pollID := uuid.New()
	now := s.now()

	options, err := buildOptions(pollID, input.Options, now)
	if err != nil {
		return nil, err
	}

	poll := &domain.Poll{
		ID:             pollID,
		CreatorID:      input.CreatorID,
		Title:          title,
		Description:    strings.TrimSpace(input.Description),
		Status:         domain.StatusDraft,
		ShareableLink:  uuid.NewString(),
		AllowAnonymous: input.AllowAnonymous,
		MaxRankings:    input.MaxRankings,
		Options:        options,
		CreatedAt:      now,
		ExpiresAt:      input.ExpiresAt,
	}

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, err
	}

	return poll, nil
}

func (s *pollService) GetPoll(ctx context.Context, id string) (*domain.Poll, error) {
	pollID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidPollID
	}
	return s.repo.GetByID(ctx, pollID)
}

func (s *pollService) GetPollByLink(ctx context.Context, link string) (*domain.Poll, error) {
	return s.repo.GetByShareableLink(ctx, link)
}

func (s *pollService) ListPolls(ctx context.Context, filter ports.PollFilter) ([]*domain.Poll, error) {
	return s.repo.List(ctx, filter)
}

func (s *pollService) Update(ctx context.Context, pollID, requesterID uuid.UUID, input ports.UpdatePollInput) (*domain.Poll, error) {
	poll, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if poll.CreatorID != requesterID {
		return nil, domain.ErrNotCreator
	}
	if !poll.CanEditFields() {
		return nil, domain.ErrPollClosed
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" || len(title) > domain.TitleMaxLen {
			return nil, domain.ErrInvalidTitle
		}
		poll.Title = title
	}
	if input.Description != nil {
		poll.Description = strings.TrimSpace(*input.Description)
	}
	if input.AllowAnonymous != nil {
		poll.AllowAnonymous = *input.AllowAnonymous
	}
	if input.MaxRankings != nil {
		if *input.MaxRankings < 1 {
			poll.MaxRankings = nil
		} else {
			poll.MaxRankings = input.MaxRankings
		}
	}
	if input.ExpiresAt != nil {
		if input.ExpiresAt.IsZero() {
			poll.ExpiresAt = nil
		} else {
			poll.ExpiresAt = input.ExpiresAt
		}
	}
	if input.Status != nil {
		if err := poll.Transition(*input.Status, s.now()); err != nil {
			return nil, err
		}
	}

	var newOptions []domain.PollOption
	if input.ReplaceOptions {
		if !poll.CanEditOptions() {
			return nil, domain.ErrOptionsLocked
		}
		newOptions, err = buildOptions(poll.ID, input.Options, s.now())
		if err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, poll); err != nil {
		return nil, err
	}
	if input.ReplaceOptions {
		if err := s.repo.ReplaceOptions(ctx, poll.ID, newOptions); err != nil {
			return nil, err
		}
		poll.Options = newOptions
	}

	return poll, nil
}

func (s *pollService) TransitionStatus(ctx context.Context, pollID, requesterID uuid.UUID, newStatus domain.PollStatus) (*domain.Poll, error) {
	poll, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if poll.CreatorID != requesterID {
		return nil, domain.ErrNotCreator
	}

	if err := poll.Transition(newStatus, s.now()); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, poll); err != nil {
		return nil, err
	}
	return poll, nil
}

func (s *pollService) Delete(ctx context.Context, pollID, requesterID uuid.UUID) error {
	poll, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return err
	}
	if poll.CreatorID != requesterID {
		return domain.ErrNotCreator
	}

	return s.repo.Delete(ctx, pollID)
}

func buildOptions(pollID uuid.UUID, inputs []ports.OptionInput, now time.Time) ([]domain.PollOption, error) {
	options := make([]domain.PollOption, 0, len(inputs))
	for i, in := range inputs {
		text := strings.TrimSpace(in.Text)
		if text == "" {
			return nil, domain.ErrInvalidOptions
		}
		if len(text) > domain.OptionTextMaxLen {
			return nil, domain.ErrInvalidOptionText
		}

		order := i
		if in.Order != nil {
			order = *in.Order
		}
		options = append(options, domain.PollOption{
			ID:        uuid.New(),
			PollID:    pollID,
			Text:      text,
			Order:     order,
			ImageURL:  in.ImageURL,
			CreatedAt: now,
		})
	}
	if len(options) < 2 {
		return nil, domain.ErrInvalidOptions
	}
	return options, nil
}
