package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Dosada05/ryder-manager/handlers"
	"github.com/Dosada05/ryder-manager/middleware"
)

// SetupRoutes wires every handler onto the router. Read-only endpoints are
// public; anything that mutates state sits behind the authenticator.
func SetupRoutes(
	router *chi.Mux,
	authenticator *middleware.Authenticator,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	competitionHandler *handlers.CompetitionHandler,
	enrollmentHandler *handlers.EnrollmentHandler,
	roundHandler *handlers.RoundHandler,
	matchHandler *handlers.MatchHandler,
	referenceHandler *handlers.ReferenceHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler())

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.RegisterHandler)
		r.Post("/login", authHandler.LoginHandler)
		r.Get("/confirm", authHandler.ConfirmEmailHandler)
	})

	router.Route("/users", func(r chi.Router) {
		r.Get("/{userID}", userHandler.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticator.Authenticate)
			r.Patch("/{userID}", userHandler.UpdateHandler)
			r.Put("/{userID}/handicap", userHandler.SetHandicapHandler)
			r.Delete("/{userID}", userHandler.DeleteHandler)
		})
	})

	router.Route("/competitions", func(r chi.Router) {
		r.Get("/", competitionHandler.ListHandler)
		r.Get("/{competitionID}", competitionHandler.GetByIDHandler)
		r.Get("/{competitionID}/points", competitionHandler.PointsHandler)
		r.Get("/{competitionID}/enrollments", enrollmentHandler.ListHandler)
		r.Get("/{competitionID}/rounds", roundHandler.ListHandler)
		r.Get("/{competitionID}/teams", roundHandler.GetTeamsHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticator.Authenticate)

			r.Post("/", competitionHandler.CreateHandler)
			r.Patch("/{competitionID}", competitionHandler.UpdateHandler)
			r.Delete("/{competitionID}", competitionHandler.DeleteHandler)
			r.Post("/{competitionID}/logo", competitionHandler.UploadLogoHandler)

			r.Post("/{competitionID}/activate", competitionHandler.ActivateHandler())
			r.Post("/{competitionID}/close-enrollments", competitionHandler.CloseEnrollmentsHandler())
			r.Post("/{competitionID}/start", competitionHandler.StartHandler())
			r.Post("/{competitionID}/complete", competitionHandler.CompleteHandler())
			r.Post("/{competitionID}/cancel", competitionHandler.CancelHandler())

			r.Post("/{competitionID}/enrollments", enrollmentHandler.RequestHandler)
			r.Post("/{competitionID}/enrollments/invite", enrollmentHandler.InviteHandler)
			r.Post("/{competitionID}/enrollments/direct", enrollmentHandler.DirectEnrollHandler)

			r.Post("/{competitionID}/rounds", roundHandler.CreateHandler)
			r.Post("/{competitionID}/teams", roundHandler.AssignTeamsHandler)
		})
	})

	router.Route("/enrollments", func(r chi.Router) {
		r.Use(authenticator.Authenticate)

		r.Post("/{enrollmentID}/approve", enrollmentHandler.ApproveHandler)
		r.Post("/{enrollmentID}/reject", enrollmentHandler.RejectHandler)
		r.Post("/{enrollmentID}/cancel", enrollmentHandler.CancelHandler)
		r.Post("/{enrollmentID}/withdraw", enrollmentHandler.WithdrawHandler)
		r.Put("/{enrollmentID}/handicap", enrollmentHandler.SetCustomHandicapHandler)
	})

	router.Route("/rounds", func(r chi.Router) {
		r.Get("/{roundID}", roundHandler.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticator.Authenticate)

			r.Delete("/{roundID}", roundHandler.DeleteHandler)
			r.Post("/{roundID}/matches", roundHandler.GenerateMatchesHandler)
			r.Post("/{roundID}/start", roundHandler.StartHandler)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", matchHandler.GetByIDHandler)
		r.Get("/{matchID}/scores", matchHandler.ListScoresHandler)
		r.Get("/{matchID}/standing", matchHandler.StandingHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticator.Authenticate)

			r.Post("/{matchID}/scores", matchHandler.SubmitScoreHandler)
			r.Post("/{matchID}/scorecard", matchHandler.SubmitScorecardHandler)
			r.Post("/{matchID}/concede", matchHandler.ConcedeHandler)
			r.Post("/{matchID}/walkover", matchHandler.WalkoverHandler)
		})
	})

	router.Route("/countries", func(r chi.Router) {
		r.Get("/", referenceHandler.ListCountriesHandler)
		r.Get("/{code}", referenceHandler.GetCountryHandler)
	})

	router.Route("/courses", func(r chi.Router) {
		r.Get("/", referenceHandler.ListCoursesHandler)
		r.Get("/{courseID}", referenceHandler.GetCourseHandler)
	})

	router.Get("/ws/matches/{matchID}", webSocketHandler.ServeMatchWs)
}
