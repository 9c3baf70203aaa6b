package domain

import "errors"

var (
	ErrPollNotFound   = errors.New("poll not found")
	ErrInvalidPollID  = errors.New("invalid poll id")
	ErrBallotNotFound = errors.New("ballot not found")

	ErrPollClosed    = errors.New("poll is closed")
	ErrInvalidStatus = errors.New("invalid poll status")
	ErrPollNotOpen   = errors.New("poll is not open for voting")
	ErrPollExpired   = errors.New("poll has expired")
	ErrNotCreator    = errors.New("only the poll creator can modify this poll")

	ErrAuthRequired = errors.New("authentication required")
	ErrAlreadyVoted = errors.New("a ballot was already submitted for this poll")
)

// Poll management validation.
var (
	ErrInvalidTitle       = errors.New("title must be 1-200 characters")
	ErrInvalidOptions     = errors.New("at least two options with text are required")
	ErrInvalidOptionText  = errors.New("option text must be 1-500 characters")
	ErrInvalidMaxRankings = errors.New("max rankings must be a positive integer")
	ErrOptionsLocked      = errors.New("options can only be changed while the poll is a draft")
)

// Ranking validation reasons, in the order they are checked.
var (
	ErrEmptyBallot        = errors.New("ballot has no rankings")
	ErrNonContiguousRanks = errors.New("ranks must be contiguous starting at 1")
	ErrDuplicateRank      = errors.New("duplicate rank in ballot")
	ErrDuplicateOption    = errors.New("option ranked more than once")
	ErrUnknownOption      = errors.New("option does not belong to this poll")
	ErrTooManyRankings    = errors.New("too many rankings for this poll")
)

var rankingErrors = []error{
	ErrEmptyBallot,
	ErrNonContiguousRanks,
	ErrDuplicateRank,
	ErrDuplicateOption,
	ErrUnknownOption,
	ErrTooManyRankings,
}

// IsRankingError reports whether err is one of the ranking validation reasons.
func IsRankingError(err error) bool {
	for _, re := range rankingErrors {
		if errors.Is(err, re) {
			return true
		}
	}
	return false
}
