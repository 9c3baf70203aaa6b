package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constraintsFor(maxRankings int, ids ...uuid.UUID) RankingConstraints {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	c := RankingConstraints{OptionIDs: set}
	if maxRankings > 0 {
		c.MaxRankings = &maxRankings
	}
	return c
}

func TestValidateRankings(t *testing.T) {
	optX := uuid.New()
	optY := uuid.New()
	optZ := uuid.New()
	unknown := uuid.New()

	tests := []struct {
		name     string
		c        RankingConstraints
		rankings []RankingInput
		wantErr  error
	}{
		{
			name:     "full ranking accepted",
			c:        constraintsFor(0, optX, optY, optZ),
			rankings: []RankingInput{{optZ, 3}, {optX, 1}, {optY, 2}},
		},
		{
			name:     "partial ranking under cap accepted",
			c:        constraintsFor(2, optX, optY, optZ),
			rankings: []RankingInput{{optY, 1}, {optX, 2}},
		},
		{
			name:     "empty ballot",
			c:        constraintsFor(0, optX, optY),
			rankings: nil,
			wantErr:  ErrEmptyBallot,
		},
		{
			name:     "missing rank one",
			c:        constraintsFor(2, optX, optY, optZ),
			rankings: []RankingInput{{optX, 2}},
			wantErr:  ErrNonContiguousRanks,
		},
		{
			name:     "gap in ranks",
			c:        constraintsFor(0, optX, optY, optZ),
			rankings: []RankingInput{{optX, 1}, {optY, 3}},
			wantErr:  ErrNonContiguousRanks,
		},
		{
			name:     "duplicate rank",
			c:        constraintsFor(2, optX, optY, optZ),
			rankings: []RankingInput{{optX, 1}, {optY, 1}},
			wantErr:  ErrDuplicateRank,
		},
		{
			name:     "duplicate option",
			c:        constraintsFor(0, optX, optY),
			rankings: []RankingInput{{optX, 1}, {optX, 2}},
			wantErr:  ErrDuplicateOption,
		},
		{
			name:     "unknown option",
			c:        constraintsFor(0, optX, optY),
			rankings: []RankingInput{{optX, 1}, {unknown, 2}},
			wantErr:  ErrUnknownOption,
		},
		{
			name:     "over the cap",
			c:        constraintsFor(2, optX, optY, optZ),
			rankings: []RankingInput{{optX, 1}, {optY, 2}, {optZ, 3}},
			wantErr:  ErrTooManyRankings,
		},
		{
			name:     "zero rank is non-contiguous",
			c:        constraintsFor(0, optX, optY),
			rankings: []RankingInput{{optX, 0}, {optY, 1}},
			wantErr:  ErrNonContiguousRanks,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRankings(tt.c, tt.rankings)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsRankingError(err))
		})
	}
}

func TestValidateRankingsReportsDuplicateRankBeforeOption(t *testing.T) {
	optX := uuid.New()

	// Same option and same rank twice: duplicate rank is checked first.
	err := ValidateRankings(constraintsFor(0, optX), []RankingInput{{optX, 1}, {optX, 1}})
	assert.ErrorIs(t, err, ErrDuplicateRank)
}

func TestIsRankingError(t *testing.T) {
	assert.True(t, IsRankingError(ErrTooManyRankings))
	assert.False(t, IsRankingError(ErrAlreadyVoted))
	assert.False(t, IsRankingError(nil))
}
