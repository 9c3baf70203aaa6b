package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/rankpoll/api/internal/core/domain"
	"github.com/rankpoll/api/internal/core/ports"
)

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{
		db: db,
	}
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryPoll := `
		INSERT INTO polls (id, creator_id, title, description, status, shareable_link,
			allow_anonymous, max_rankings, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = tx.ExecContext(ctx, queryPoll,
		poll.ID, poll.CreatorID, poll.Title, poll.Description, poll.Status, poll.ShareableLink,
		poll.AllowAnonymous, poll.MaxRankings, poll.ExpiresAt, poll.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	if err := insertOptions(ctx, tx, poll.Options); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	query := pollSelect + ` WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *pollRepository) GetByShareableLink(ctx context.Context, link string) (*domain.Poll, error) {
	query := pollSelect + ` WHERE shareable_link = $1`
	return r.getOne(ctx, query, link)
}

const pollSelect = `
	SELECT id, creator_id, title, description, status, shareable_link,
		allow_anonymous, max_rankings, expires_at, closed_at, created_at
	FROM polls
`

func (r *pollRepository) getOne(ctx context.Context, query string, arg any) (*domain.Poll, error) {
	var poll domain.Poll
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&poll.ID, &poll.CreatorID, &poll.Title, &poll.Description, &poll.Status, &poll.ShareableLink,
		&poll.AllowAnonymous, &poll.MaxRankings, &poll.ExpiresAt, &poll.ClosedAt, &poll.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	options, err := r.fetchOptions(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	poll.Options = options

	return &poll, nil
}

func (r *pollRepository) List(ctx context.Context, filter ports.PollFilter) ([]*domain.Poll, error) {
	query := pollSelect + ` WHERE 1=1`
	args := []any{}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.CreatorID != nil {
		args = append(args, *filter.CreatorID)
		query += fmt.Sprintf(" AND creator_id = $%d", len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	defer rows.Close()

	var polls []*domain.Poll
	for rows.Next() {
		var poll domain.Poll
		if err := rows.Scan(
			&poll.ID, &poll.CreatorID, &poll.Title, &poll.Description, &poll.Status, &poll.ShareableLink,
			&poll.AllowAnonymous, &poll.MaxRankings, &poll.ExpiresAt, &poll.ClosedAt, &poll.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}

		options, err := r.fetchOptions(ctx, poll.ID)
		if err != nil {
			return nil, err
		}
		poll.Options = options

		polls = append(polls, &poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}
	return polls, nil
}

func (r *pollRepository) Update(ctx context.Context, poll *domain.Poll) error {
	query := `
		UPDATE polls
		SET title = $2, description = $3, status = $4, allow_anonymous = $5,
			max_rankings = $6, expires_at = $7, closed_at = $8
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		poll.ID, poll.Title, poll.Description, poll.Status, poll.AllowAnonymous,
		poll.MaxRankings, poll.ExpiresAt, poll.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update poll: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrPollNotFound
	}
	return nil
}

func (r *pollRepository) ReplaceOptions(ctx context.Context, pollID uuid.UUID, options []domain.PollOption) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM poll_options WHERE poll_id = $1`, pollID); err != nil {
		return fmt.Errorf("failed to delete options: %w", err)
	}

	if err := insertOptions(ctx, tx, options); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *pollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrPollNotFound
	}
	return nil
}

func insertOptions(ctx context.Context, tx *sql.Tx, options []domain.PollOption) error {
	query := `
		INSERT INTO poll_options (id, poll_id, text, option_order, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare option statement: %w", err)
	}
	defer stmt.Close()

	for _, opt := range options {
		var imageURL any
		if opt.ImageURL != "" {
			imageURL = opt.ImageURL
		}
		if _, err := stmt.ExecContext(ctx, opt.ID, opt.PollID, opt.Text, opt.Order, imageURL, opt.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}
	return nil
}

func (r *pollRepository) fetchOptions(ctx context.Context, pollID uuid.UUID) ([]domain.PollOption, error) {
	query := `
		SELECT id, poll_id, text, option_order, COALESCE(image_url, ''), created_at
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY option_order, created_at
	`
	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll options: %w", err)
	}
	defer rows.Close()

	var options []domain.PollOption
	for rows.Next() {
		var opt domain.PollOption
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Text, &opt.Order, &opt.ImageURL, &opt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating options: %w", err)
	}
	return options, nil
}
