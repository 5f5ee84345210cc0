package main

import (
	"context"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/tcp_snm/arena/internal/api"
	"github.com/tcp_snm/arena/internal/database"
	"github.com/tcp_snm/arena/internal/email"
	"github.com/tcp_snm/arena/internal/service"
	"github.com/tcp_snm/arena/internal/service/auth_service"
	"github.com/tcp_snm/arena/internal/service/challenge_service"
	"github.com/tcp_snm/arena/internal/service/eligibility_service"
	"github.com/tcp_snm/arena/internal/service/evaluation_service"
	"github.com/tcp_snm/arena/internal/service/submission_service"
	"github.com/tcp_snm/arena/internal/service/user_service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var (
	apiConfig *api.Api
)

func initDatabase() (*database.Queries, *pgxpool.Pool) {
	// get the database url
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		panic("dbURL not found")
	}

	// create a connection pool to the database
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		panic(err)
	}

	// get the query tool with this connection
	return database.New(pool), pool
}

func initUserService(db *database.Queries) *user_service.UserService {
	log.Info("initializing user service")
	return &user_service.UserService{
		DB: db,
	}
}

func initAuthService(db *database.Queries, us *user_service.UserService) *auth_service.AuthService {
	log.Info("initializing auth service")
	return &auth_service.AuthService{
		DB:         db,
		UserConfig: us,
	}
}

func initChallengeService(db *database.Queries) *challenge_service.ChallengeService {
	log.Info("initializing challenge service")
	cs := challenge_service.ChallengeService{
		DB: db,
	}
	if err := cs.Start(); err != nil {
		panic(err)
	}
	return &cs
}

func initEvaluationService(
	db *database.Queries,
	pool *pgxpool.Pool,
	us *user_service.UserService,
) *evaluation_service.EvaluationService {
	log.Info("initializing evaluation service")
	return &evaluation_service.EvaluationService{
		DB:                db,
		Pool:              pool,
		UserServiceConfig: us,
	}
}

func initEligibilityService(
	db *database.Queries,
	es *evaluation_service.EvaluationService,
	cs *challenge_service.ChallengeService,
) *eligibility_service.EligibilityService {
	log.Info("initializing eligibility service")
	return &eligibility_service.EligibilityService{
		Evaluations: es,
		Challenges:  cs,
		DB:          db,
	}
}

func initEmailService(db *database.Queries) *email.EmailService {
	log.Info("initializing email service")
	ems := email.EmailService{
		DB: db,
	}
	ems.Start()
	return &ems
}

func initSubmissionService(
	db *database.Queries,
	pool *pgxpool.Pool,
	us *user_service.UserService,
	es *evaluation_service.EvaluationService,
	els *eligibility_service.EligibilityService,
	ems *email.EmailService,
) *submission_service.SubmissionService {
	log.Info("initializing submission service")
	return &submission_service.SubmissionService{
		DB:                       db,
		Pool:                     pool,
		UserServiceConfig:        us,
		EvaluationServiceConfig:  es,
		EligibilityServiceConfig: els,
		EmailServiceConfig:       ems,
	}
}

func initApi(db *database.Queries, pool *pgxpool.Pool) *api.Api {
	log.Info("initializing api config")
	us := initUserService(db)
	as := initAuthService(db, us)
	cs := initChallengeService(db)
	es := initEvaluationService(db, pool, us)
	els := initEligibilityService(db, es, cs)
	ems := initEmailService(db)
	ss := initSubmissionService(db, pool, us, es, els, ems)
	a := api.Api{
		AuthServiceConfig:        as,
		EvaluationServiceConfig:  es,
		EligibilityServiceConfig: els,
		SubmissionServiceConfig:  ss,
	}
	return &a
}

func setup() {
	godotenv.Load()
	service.InitializeServices()
	db, pool := initDatabase()
	apiConfig = initApi(db, pool)
	email.StartEmailWorkers(1)
}

func setCors(router *chi.Mux) {
	router.Use(
		cors.Handler(
			cors.Options{
				AllowedOrigins:   []string{"https://*", "http://*"},
				AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
				AllowedHeaders:   []string{"*"},
				AllowCredentials: false,
				ExposedHeaders:   []string{"Link"},
				MaxAge:           300,
			},
		),
	)
	log.Info("cors options has been set")
}

func main() {
	setup()

	// initialize a new router
	router := chi.NewRouter()
	setCors(router)

	// mount v1 router
	v1router := NewV1Router()
	router.Mount("/v1", v1router)
	log.Info("v1 router has been mounted")

	// find port for the server to start
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		log.Warnf("port not found in environment. using default port %s", port)
	}

	// find the address to start the server
	apiAddress := os.Getenv("API_URL") + ":" + port

	log.Info("starting server")
	// create a server object to listen to all requests
	srv := http.Server{
		Handler: router,
		Addr:    apiAddress,
	}
	err := srv.ListenAndServe()
	if err != nil {
		log.Fatalf("Server cannot be started. Error: %v", err)
		return
	}

}
