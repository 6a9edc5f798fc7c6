package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hzhao-dev/triagecare/backend/internal/handler/intake"
	"github.com/hzhao-dev/triagecare/backend/internal/handler/screening"
	"github.com/hzhao-dev/triagecare/backend/internal/handler/stream"
	middlewarePkg "github.com/hzhao-dev/triagecare/backend/internal/middleware"
	"github.com/hzhao-dev/triagecare/backend/internal/service/ai"
	sessionservice "github.com/hzhao-dev/triagecare/backend/internal/service/session"
	"github.com/hzhao-dev/triagecare/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. gen may be nil; every route
// keeps working on the deterministic paths.
func NewRouter(sessions *sessionservice.Service, gen ai.Generator) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	intakeHandler := intake.New(sessions)
	wsHandler := intake.NewWebSocketHandler(sessions)
	screeningHandler := screening.New()
	streamHandler := stream.New(sessions, gen)

	r.Route("/api", func(api chi.Router) {
		intakeHandler.RegisterRoutes(api)
		screeningHandler.RegisterRoutes(api)
		wsHandler.RegisterWebSocketRoutes(api)

		api.Get("/sessions/{sessionID}/result/stream", func(w http.ResponseWriter, r *http.Request) {
			sessionID := chi.URLParam(r, "sessionID")
			if err := streamHandler.HandleStream(r.Context(), w, sessionID); err != nil {
				log.Printf("[stream] error handling request: %v", err)
				if errors.Is(err, sessionservice.ErrSessionNotFound) {
					utils.RespondError(w, http.StatusNotFound, "session not found")
					return
				}
				utils.RespondError(w, http.StatusConflict, "result not streamable yet")
			}
		})
	})

	return r
}
