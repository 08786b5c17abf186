package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"

	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/handlers"
	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/middleware"
)

type Handlers struct {
	Team       *handlers.TeamHandler
	Profile    *handlers.ProfileHandler
	University *handlers.UniversityHandler
	Event      *handlers.EventHandler
	Contest    *handlers.ContestHandler
	WebSocket  *handlers.WebSocketHandler
}

func SetupRoutes(router chi.Router, h Handlers, allowedOrigins []string, logger *slog.Logger) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", handlers.Healthz)

	// WebSocket живёт дольше таймаута обычных запросов.
	router.Get("/ws/contests/{contestID}", h.WebSocket.ServeWs)

	router.Group(func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", h.Team.ListTeams)
			r.Get("/full", h.Team.ListTeamsFull)
			r.Get("/{teamID}", h.Team.GetTeamByID)
		})

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", h.Profile.ListProfiles)
			r.Get("/{profileID}", h.Profile.GetProfileByID)
		})

		r.Route("/universities", func(r chi.Router) {
			r.Get("/", h.University.ListUniversities)
			r.Get("/{universityID}", h.University.GetUniversityByID)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.Event.ListEvents)
			r.Get("/{eventID}", h.Event.GetEventByID)
		})

		r.Route("/contests", func(r chi.Router) {
			r.Get("/", h.Contest.ListContests)
			r.Get("/{contestID}", h.Contest.GetContestByID)
			r.Get("/{contestID}/results", h.Contest.ListResults)
			r.Get("/{contestID}/scoreboard", h.Contest.GetScoreboard)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Route("/teams", func(r chi.Router) {
				r.Post("/", h.Team.CreateTeam)
				r.Put("/{teamID}", h.Team.UpdateTeam)
				r.Delete("/{teamID}", h.Team.DeleteTeam)
				r.Put("/{teamID}/members/{personID}", h.Team.AddMember)
				r.Delete("/{teamID}/members/{personID}", h.Team.RemoveMember)
			})

			r.Route("/profiles", func(r chi.Router) {
				r.Post("/", h.Profile.CreateProfile)
				r.Put("/{profileID}", h.Profile.UpdateProfile)
				r.Delete("/{profileID}", h.Profile.DeleteProfile)
			})

			r.Route("/universities", func(r chi.Router) {
				r.Post("/", h.University.CreateUniversity)
				r.Put("/{universityID}", h.University.UpdateUniversity)
				r.Delete("/{universityID}", h.University.DeleteUniversity)
				r.Post("/{universityID}/logo", h.University.UploadLogo)
			})

			r.Route("/events", func(r chi.Router) {
				r.Post("/", h.Event.CreateEvent)
				r.Put("/{eventID}", h.Event.UpdateEvent)
				r.Delete("/{eventID}", h.Event.DeleteEvent)
				r.Post("/{eventID}/logo", h.Event.UploadLogo)
			})

			r.Route("/contests", func(r chi.Router) {
				r.Post("/", h.Contest.CreateContest)
				r.Put("/{contestID}", h.Contest.UpdateContest)
				r.Delete("/{contestID}", h.Contest.DeleteContest)
				r.Put("/{contestID}/results/{teamID}", h.Contest.SetResult)
				r.Delete("/{contestID}/results/{teamID}", h.Contest.RemoveResult)
				r.Post("/{contestID}/problems", h.Contest.AddProblem)
				r.Delete("/{contestID}/problems/{problemID}", h.Contest.RemoveProblem)
				r.Post("/{contestID}/submissions", h.Contest.RecordSubmission)
			})
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"the requested resource could not be found"}` + "\n"))
	})
}
