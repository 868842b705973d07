package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"service-desk/internal/config"
	"service-desk/internal/handler"
	"service-desk/internal/middleware"
)

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	ticketHandler *handler.TicketHandler,
	catalogHandler *handler.CatalogHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", authHandler.Register)
			auth.Post("/login", authHandler.Login)
			auth.Post("/logout", authHandler.Logout)
		})

		api.Group(func(protected chi.Router) {
			protected.Use(authMiddleware.RequireAuth)

			protected.Get("/users/me", authHandler.Me)

			protected.Get("/locations", catalogHandler.ListLocations)
			protected.Post("/locations", catalogHandler.CreateLocation)
			protected.Get("/machines", catalogHandler.ListMachines)
			protected.Post("/machines", catalogHandler.CreateMachine)

			protected.Route("/tickets", func(tickets chi.Router) {
				tickets.Get("/", ticketHandler.List)
				tickets.Post("/", ticketHandler.Create)
				tickets.Get("/{ticket_id}", ticketHandler.Get)
				tickets.Put("/{ticket_id}/status", ticketHandler.UpdateStatus)
				tickets.Put("/{ticket_id}/assign", ticketHandler.Assign)
				tickets.Get("/{ticket_id}/comments", ticketHandler.ListComments)
				tickets.Post("/{ticket_id}/comments", ticketHandler.CreateComment)
			})
		})
	})

	return r
}
