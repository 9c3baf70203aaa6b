package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rankpoll/api/internal/core/domain"
	"github.com/rankpoll/api/internal/core/ports"
)

type PollHandler struct {
	service ports.PollService
}

func NewPollHandler(service ports.PollService) *PollHandler {
	return &PollHandler{
		service: service,
	}
}

type optionRequest struct {
	Text     string `json:"text"`
	Order    *int   `json:"order"`
	ImageURL string `json:"image_url"`
}

type createPollRequest struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	AllowAnonymous bool            `json:"allow_anonymous"`
	MaxRankings    *int            `json:"max_rankings"`
	ExpiresAt      *time.Time      `json:"expires_at"`
	Options        []optionRequest `json:"options"`
}

type updatePollRequest struct {
	Title          *string            `json:"title"`
	Description    *string            `json:"description"`
	AllowAnonymous *bool              `json:"allow_anonymous"`
	MaxRankings    *int               `json:"max_rankings"`
	ExpiresAt      *time.Time         `json:"expires_at"`
	Status         *domain.PollStatus `json:"status"`
	Options        *[]optionRequest   `json:"options"`
}

type transitionStatusRequest struct {
	Status domain.PollStatus `json:"status"`
}

func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	creatorID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	input := ports.CreatePollInput{
		CreatorID:      creatorID,
		Title:          req.Title,
		Description:    req.Description,
		AllowAnonymous: req.AllowAnonymous,
		MaxRankings:    req.MaxRankings,
		ExpiresAt:      req.ExpiresAt,
		Options:        toOptionInputs(req.Options),
	}

	poll, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, poll)
}

func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.service.GetPoll(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, poll)
}

func (h *PollHandler) GetPollByLink(w http.ResponseWriter, r *http.Request) {
	poll, err := h.service.GetPollByLink(r.Context(), chi.URLParam(r, "link"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, poll)
}

func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	var filter ports.PollFilter
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.PollStatus(s)
		if !status.Valid() {
			http.Error(w, "invalid status filter", http.StatusBadRequest)
			return
		}
		filter.Status = &status
	}
	if c := r.URL.Query().Get("creator_id"); c != "" {
		creatorID, err := uuid.Parse(c)
		if err != nil {
			http.Error(w, "invalid creator id", http.StatusBadRequest)
			return
		}
		filter.CreatorID = &creatorID
	}

	polls, err := h.service.ListPolls(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if polls == nil {
		polls = []*domain.Poll{}
	}
	writeJSON(w, http.StatusOK, polls)
}

func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid poll id", http.StatusBadRequest)
		return
	}

	var req updatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	requesterID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	input := ports.UpdatePollInput{
		Title:          req.Title,
		Description:    req.Description,
		AllowAnonymous: req.AllowAnonymous,
		MaxRankings:    req.MaxRankings,
		ExpiresAt:      req.ExpiresAt,
		Status:         req.Status,
	}
	if req.Options != nil {
		input.ReplaceOptions = true
		input.Options = toOptionInputs(*req.Options)
	}

	poll, err := h.service.Update(r.Context(), pollID, requesterID, input)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, poll)
}

func (h *PollHandler) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid poll id", http.StatusBadRequest)
		return
	}

	var req transitionStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	requesterID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	poll, err := h.service.TransitionStatus(r.Context(), pollID, requesterID, req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, poll)
}

func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid poll id", http.StatusBadRequest)
		return
	}

	requesterID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		http.Error(w, "Unauthorized: missing user context", http.StatusUnauthorized)
		return
	}

	if err := h.service.Delete(r.Context(), pollID, requesterID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PollHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrPollNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidPollID),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidTitle),
		errors.Is(err, domain.ErrInvalidOptions),
		errors.Is(err, domain.ErrInvalidOptionText),
		errors.Is(err, domain.ErrInvalidMaxRankings):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotCreator):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrPollClosed), errors.Is(err, domain.ErrOptionsLocked):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toOptionInputs(reqs []optionRequest) []ports.OptionInput {
	inputs := make([]ports.OptionInput, 0, len(reqs))
	for _, o := range reqs {
		inputs = append(inputs, ports.OptionInput{
			Text:     o.Text,
			Order:    o.Order,
			ImageURL: o.ImageURL,
		})
	}
	return inputs
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
