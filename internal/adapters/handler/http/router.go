package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rankpoll/api/internal/core/ports"
	"go.uber.org/zap"
)

func NewHandler(pollHandler *PollHandler, ballotHandler *BallotHandler, verifier ports.TokenVerifier, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))

	r.Route("/api", func(r chi.Router) {
		r.Route("/polls", func(r chi.Router) {
			r.Get("/", pollHandler.ListPolls)
			r.Get("/{id}", pollHandler.GetPoll)
			r.Get("/link/{link}", pollHandler.GetPollByLink)

			r.Group(func(r chi.Router) {
				r.Use(RequireAuth(verifier))
				r.Post("/", pollHandler.CreatePoll)
				r.Put("/{id}", pollHandler.UpdatePoll)
				r.Patch("/{id}/status", pollHandler.TransitionStatus)
				r.Delete("/{id}", pollHandler.DeletePoll)
			})

			r.Post("/{id}/ballot", ballotHandler.SubmitBallot)
			r.Get("/{id}/ballot", ballotHandler.GetMyBallot)
		})
	})

	return r
}
