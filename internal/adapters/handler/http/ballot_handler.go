package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rankpoll/api/internal/core/domain"
	"github.com/rankpoll/api/internal/core/ports"
)

type BallotHandler struct {
	service ports.VotingService
}

func NewBallotHandler(service ports.VotingService) *BallotHandler {
	return &BallotHandler{
		service: service,
	}
}

type submitBallotRequest struct {
	GuestID  string                `json:"guest_id"`
	Rankings []domain.RankingInput `json:"rankings"`
}

type submitBallotResponse struct {
	BallotID uuid.UUID `json:"ballot_id"`
	GuestID  string    `json:"guest_id,omitempty"`
}

// Stable reason codes for rejected rankings, so clients can render a precise
// message without parsing error strings.
var rankingCodes = map[error]string{
	domain.ErrEmptyBallot:        "empty",
	domain.ErrNonContiguousRanks: "non_contiguous_ranks",
	domain.ErrDuplicateRank:      "duplicate_rank",
	domain.ErrDuplicateOption:    "duplicate_option",
	domain.ErrUnknownOption:      "unknown_option",
	domain.ErrTooManyRankings:    "too_many_rankings",
}

func (h *BallotHandler) SubmitBallot(w http.ResponseWriter, r *http.Request) {
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid poll id", http.StatusBadRequest)
		return
	}

	var req submitBallotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	input := ports.SubmitBallotInput{
		PollID:     pollID,
		Credential: bearerCredential(r),
		GuestID:    req.GuestID,
		Rankings:   req.Rankings,
	}

	result, err := h.service.SubmitBallot(r.Context(), input)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, submitBallotResponse{
		BallotID: result.Ballot.ID,
		GuestID:  result.GuestID,
	})
}

func (h *BallotHandler) GetMyBallot(w http.ResponseWriter, r *http.Request) {
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid poll id", http.StatusBadRequest)
		return
	}

	guestID := r.URL.Query().Get("guest_id")
	ballot, err := h.service.GetBallot(r.Context(), pollID, bearerCredential(r), guestID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ballot)
}

func (h *BallotHandler) writeError(w http.ResponseWriter, err error) {
	if code, ok := rankingCode(err); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{
			"error": err.Error(),
			"code":  code,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrPollNotFound), errors.Is(err, domain.ErrBallotNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrPollNotOpen), errors.Is(err, domain.ErrPollExpired):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrAuthRequired):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, domain.ErrAlreadyVoted):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func rankingCode(err error) (string, bool) {
	for re, code := range rankingCodes {
		if errors.Is(err, re) {
			return code, true
		}
	}
	return "", false
}
