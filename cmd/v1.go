package main

import (
	"github.com/go-chi/chi/v5"
	"github.com/tcp_snm/arena/middleware"
)

func NewV1Router() *chi.Mux {
	v1 := chi.NewRouter()

	// configure all endpoints
	v1.Get("/healthz", middleware.JWTMiddleware(apiConfig.HandlerReadiness))

	// auth layer
	v1.Post("/auth/login", apiConfig.HandlerLogin)

	// evaluations layer
	v1.Get("/evaluations", middleware.JWTMiddleware(apiConfig.HandlerGetEvaluationById))
	v1.Post("/evaluations/migrate-quota", middleware.JWTMiddleware(apiConfig.HandlerMigrateSubmissionQuota))
	v1.Get("/evaluations/team-eligibility", middleware.JWTMiddleware(apiConfig.HandlerGetTeamSubmissionEligibility))

	// rounds layer
	// get rounds
	v1.Get("/evaluations/rounds", middleware.JWTMiddleware(apiConfig.HandlerGetEvaluationRound))
	v1.Get("/evaluations/rounds/all", middleware.JWTMiddleware(apiConfig.HandlerGetAllEvaluationRounds))
	// create round
	v1.Post("/evaluations/rounds", middleware.JWTMiddleware(apiConfig.HandlerCreateEvaluationRound))
	// update round
	v1.Put("/evaluations/rounds", middleware.JWTMiddleware(apiConfig.HandlerUpdateEvaluationRound))
	// delete round
	v1.Delete("/evaluations/rounds", middleware.JWTMiddleware(apiConfig.HandlerDeleteEvaluationRound))

	// submissions layer
	v1.Post("/submissions", middleware.JWTMiddleware(apiConfig.HandlerSubmit))
	v1.Put("/submissions/status-batch", middleware.JWTMiddleware(apiConfig.HandlerUpdateSubmissionStatusBatch))

	return v1
}
