package domain

import (
	"sort"

	"github.com/google/uuid"
)

// RankingInput is a single (option, rank) pair of a candidate ballot.
type RankingInput struct {
	PollOptionID uuid.UUID `json:"poll_option_id"`
	Rank         int       `json:"rank"`
}

// RankingConstraints are the per-poll rules a candidate ballot is judged
// against: the live option set and the optional cap on ballot length.
type RankingConstraints struct {
	OptionIDs   map[uuid.UUID]struct{}
	MaxRankings *int
}

// ValidateRankings judges a candidate ballot against a poll's constraints.
// Pure function; the first violated rule wins: empty ballot, non-contiguous
// ranks, duplicate rank, duplicate option, unknown option, too many rankings.
//
// Contiguity is computed over the distinct rank values (sorted they must be
// exactly 1..m); a repeated rank is reported as ErrDuplicateRank, not as a
// gap.
func ValidateRankings(c RankingConstraints, rankings []RankingInput) error {
	if len(rankings) == 0 {
		return ErrEmptyBallot
	}

	distinct := make([]int, 0, len(rankings))
	seen := make(map[int]struct{}, len(rankings))
	for _, rk := range rankings {
		if _, ok := seen[rk.Rank]; ok {
			continue
		}
		seen[rk.Rank] = struct{}{}
		distinct = append(distinct, rk.Rank)
	}
	sort.Ints(distinct)
	for i, r := range distinct {
		if r != i+1 {
			return ErrNonContiguousRanks
		}
	}

	if len(distinct) != len(rankings) {
		return ErrDuplicateRank
	}

	options := make(map[uuid.UUID]struct{}, len(rankings))
	for _, rk := range rankings {
		if _, ok := options[rk.PollOptionID]; ok {
			return ErrDuplicateOption
		}
		options[rk.PollOptionID] = struct{}{}
	}

	for _, rk := range rankings {
		if _, ok := c.OptionIDs[rk.PollOptionID]; !ok {
			return ErrUnknownOption
		}
	}

	if c.MaxRankings != nil && len(rankings) > *c.MaxRankings {
		return ErrTooManyRankings
	}

	return nil
}
