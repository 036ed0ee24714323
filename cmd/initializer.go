package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"firebase.google.com/go/messaging"
	"github.com/redis/go-redis/v9"

	"cleanlyBack/internal/config"
	"cleanlyBack/internal/disputes"
	"cleanlyBack/internal/geo"
	"cleanlyBack/internal/handlers"
	"cleanlyBack/internal/health"
	"cleanlyBack/internal/matching"
	"cleanlyBack/internal/notify"
	"cleanlyBack/internal/pay"
	"cleanlyBack/internal/repositories"
	"cleanlyBack/internal/services"
	"cleanlyBack/utils"
)

// logPair adapts the info/error logger pair to the package-level Logger
// interfaces.
type logPair struct {
	info *log.Logger
	err  *log.Logger
}

func (l logPair) Infof(format string, args ...interface{}) { l.info.Printf(format, args...) }
func (l logPair) Errorf(format string, args ...interface{}) { l.err.Printf(format, args...) }

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	db       *sql.DB

	userRepo    *repositories.UserRepository
	proRepo     *repositories.ProRepository
	jobRepo     *repositories.JobRepository
	leadRepo    *repositories.LeadRepository
	disputeRepo *repositories.DisputeRepository
	paymentRepo *repositories.PaymentRepository
	reviewRepo  *repositories.ReviewRepository
	chatRepo    *repositories.ChatRepository
	abuseRepo   *repositories.AbuseRepository
	healthRepo  *repositories.HealthRepository

	healthService *services.HealthService
	sweeper       *disputes.Sweeper

	userHandler    *handlers.UserHandler
	proHandler     *handlers.ProHandler
	chatHandler    *handlers.ChatHandler
	paymentHandler *handlers.PaymentHandler
	jobHandler     *handlers.JobHandler
	leadHandler    *handlers.LeadHandler
	disputeHandler *handlers.DisputeHandler
	healthHandler  *handlers.HealthHandler
	reviewHandler  *handlers.ReviewHandler

	wsManager    *WebSocketManager
	tokenManager *utils.Manager
}

func initializeApp(db *sql.DB, rdb *redis.Client, fcm *messaging.Client, storage *utils.Storage, cfg config.Config, errorLog, infoLog *log.Logger) *application {
	logs := logPair{info: infoLog, err: errorLog}
	wsManager := NewWebSocketManager()

	// Repositories
	userRepo := repositories.UserRepository{DB: db}
	proRepo := repositories.ProRepository{DB: db}
	jobRepo := repositories.JobRepository{DB: db}
	leadRepo := repositories.LeadRepository{DB: db}
	disputeRepo := repositories.DisputeRepository{DB: db}
	paymentRepo := repositories.PaymentRepository{DB: db}
	reviewRepo := repositories.ReviewRepository{DB: db}
	chatRepo := repositories.ChatRepository{DB: db}
	abuseRepo := repositories.AbuseRepository{DB: db}
	healthRepo := repositories.HealthRepository{DB: db}

	// Domain
	var router geo.Router
	if cfg.Routing.BaseURL != "" {
		router = geo.NewRoutingClient(nil, cfg.Routing.BaseURL, cfg.Routing.APIKey)
	}
	etaResolver := geo.NewETAResolver(router, rdb)

	generator := &matching.Generator{
		Discovery: &matching.Discovery{Pros: &proRepo, Health: &healthRepo},
		Leads:     &leadRepo,
		Eta:       etaResolver,
		Tokens:    &userRepo,
		Hub:       wsManager,
		Logger:    logs,
	}
	if fcm != nil {
		generator.Pusher = notify.NewNotifier(fcm)
	}

	scorer := &health.Scorer{
		Jobs:    &jobRepo,
		Abuse:   &abuseRepo,
		Reviews: &reviewRepo,
		Chats:   &chatRepo,
		Records: &healthRepo,
	}

	gateway := pay.NewClient(&http.Client{Timeout: 10 * time.Second},
		cfg.Payment.MerchantID, cfg.Payment.Secret, cfg.Payment.BaseURL)

	lifecycle := &disputes.Service{
		Disputes: &disputeRepo,
		Jobs:     &jobRepo,
		Payments: &paymentRepo,
		Gateway:  gateway,
		Admins:   &userRepo,
		Tokens:   &userRepo,
		Chats:    &chatRepo,
		Hub:      wsManager,
		Logger:   logs,
	}
	if fcm != nil {
		lifecycle.Pusher = notify.NewNotifier(fcm)
	}

	sweeper := &disputes.Sweeper{Store: &disputeRepo, Logger: logs}

	// Services
	jobService := &services.JobService{JobsRepo: &jobRepo, Generator: generator}
	leadService := &services.LeadService{LeadsRepo: &leadRepo}
	disputeService := &services.DisputeService{
		Lifecycle:    lifecycle,
		DisputesRepo: &disputeRepo,
		PaymentsRepo: &paymentRepo,
	}
	healthService := &services.HealthService{
		Scorer:     scorer,
		HealthRepo: &healthRepo,
		AbuseRepo:  &abuseRepo,
	}
	reviewService := &services.ReviewService{ReviewsRepo: &reviewRepo, JobsRepo: &jobRepo}

	tokenManager, err := utils.NewManager(cfg.JWT.Secret)
	if err != nil {
		errorLog.Fatal(err)
	}

	return &application{
		errorLog: errorLog,
		infoLog:  infoLog,
		db:       db,

		userRepo:    &userRepo,
		proRepo:     &proRepo,
		jobRepo:     &jobRepo,
		leadRepo:    &leadRepo,
		disputeRepo: &disputeRepo,
		paymentRepo: &paymentRepo,
		reviewRepo:  &reviewRepo,
		chatRepo:    &chatRepo,
		abuseRepo:   &abuseRepo,
		healthRepo:  &healthRepo,

		healthService: healthService,
		sweeper:       sweeper,

		userHandler:    &handlers.UserHandler{UserRepo: &userRepo},
		proHandler:     &handlers.ProHandler{ProRepo: &proRepo},
		chatHandler:    &handlers.ChatHandler{ChatRepo: &chatRepo, Hub: wsManager},
		paymentHandler: &handlers.PaymentHandler{PaymentsRepo: &paymentRepo, WebhookSecret: cfg.Payment.Secret},
		jobHandler:     &handlers.JobHandler{Service: jobService},
		leadHandler:    &handlers.LeadHandler{Service: leadService},
		disputeHandler: &handlers.DisputeHandler{Service: disputeService, Storage: storage},
		healthHandler:  &handlers.HealthHandler{Service: healthService},
		reviewHandler:  &handlers.ReviewHandler{Service: reviewService},

		wsManager:    wsManager,
		tokenManager: tokenManager,
	}
}
