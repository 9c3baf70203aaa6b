package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rankpoll/api/internal/core/domain"
	"github.com/rankpoll/api/internal/core/ports"
)

type ballotRepository struct {
	db *sql.DB
}

func NewBallotRepository(db *sql.DB) ports.BallotRepository {
	return &ballotRepository{
		db: db,
	}
}

const uniqueViolation = "23505"

// CreateBallot inserts the ballot and its rankings in one transaction. The
// partial unique indexes on (poll_id, user_id) and (poll_id, guest_id) are
// the authority on "already voted": a violation raised by the insert itself
// is reported as domain.ErrAlreadyVoted, never swallowed as a generic store
// error.
func (r *ballotRepository) CreateBallot(ctx context.Context, ballot *domain.Ballot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryBallot := `
		INSERT INTO ballots (id, poll_id, user_id, guest_id, is_anonymous, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.ExecContext(ctx, queryBallot,
		ballot.ID, ballot.PollID, ballot.UserID, ballot.GuestID, ballot.IsAnonymous, ballot.SubmittedAt,
	)
	if err != nil {
		if isVoterConflict(err) {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("failed to insert ballot: %w", err)
	}

	queryRanking := `
		INSERT INTO ballot_rankings (id, ballot_id, poll_option_id, rank)
		VALUES ($1, $2, $3, $4)
	`
	stmt, err := tx.PrepareContext(ctx, queryRanking)
	if err != nil {
		return fmt.Errorf("failed to prepare ranking statement: %w", err)
	}
	defer stmt.Close()

	for _, rk := range ballot.Rankings {
		if _, err := stmt.ExecContext(ctx, rk.ID, rk.BallotID, rk.PollOptionID, rk.Rank); err != nil {
			return fmt.Errorf("failed to insert ranking: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		if isVoterConflict(err) {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("failed to commit ballot: %w", err)
	}

	return nil
}

func (r *ballotRepository) GetByVoter(ctx context.Context, pollID uuid.UUID, voter domain.VoterIdentity) (*domain.Ballot, error) {
	var (
		query string
		arg   any
	)
	if voter.IsAnonymous() {
		query = `
			SELECT id, poll_id, user_id, guest_id, is_anonymous, submitted_at
			FROM ballots
			WHERE poll_id = $1 AND guest_id = $2
		`
		arg = voter.GuestID
	} else {
		query = `
			SELECT id, poll_id, user_id, guest_id, is_anonymous, submitted_at
			FROM ballots
			WHERE poll_id = $1 AND user_id = $2
		`
		arg = voter.UserID
	}

	var (
		ballot  domain.Ballot
		userID  uuid.NullUUID
		guestID sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, pollID, arg).Scan(
		&ballot.ID, &ballot.PollID, &userID, &guestID, &ballot.IsAnonymous, &ballot.SubmittedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrBallotNotFound
		}
		return nil, fmt.Errorf("failed to get ballot: %w", err)
	}
	if userID.Valid {
		ballot.UserID = &userID.UUID
	}
	if guestID.Valid {
		g := guestID.String
		ballot.GuestID = &g
	}

	rankings, err := r.fetchRankings(ctx, ballot.ID)
	if err != nil {
		return nil, err
	}
	ballot.Rankings = rankings

	return &ballot, nil
}

func (r *ballotRepository) fetchRankings(ctx context.Context, ballotID uuid.UUID) ([]domain.BallotRanking, error) {
	query := `
		SELECT id, ballot_id, poll_option_id, rank
		FROM ballot_rankings
		WHERE ballot_id = $1
		ORDER BY rank
	`
	rows, err := r.db.QueryContext(ctx, query, ballotID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rankings: %w", err)
	}
	defer rows.Close()

	var rankings []domain.BallotRanking
	for rows.Next() {
		var rk domain.BallotRanking
		if err := rows.Scan(&rk.ID, &rk.BallotID, &rk.PollOptionID, &rk.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan ranking: %w", err)
		}
		rankings = append(rankings, rk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rankings: %w", err)
	}
	return rankings, nil
}

// isVoterConflict reports whether err is a unique violation on one of the
// partial voter indexes.
func isVoterConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return false
	}
	return pqErr.Constraint == "unique_poll_user_partial" ||
		pqErr.Constraint == "unique_poll_guest_partial"
}
