package main

import (
	"log"

	api "careerpulse-backend/cmd/api"
	appdomain "careerpulse-backend/internal/application/domain"
	appRepo "careerpulse-backend/internal/application/repository"
	authdomain "careerpulse-backend/internal/auth/domain"
	authRepo "careerpulse-backend/internal/auth/repository"
	authUsecase "careerpulse-backend/internal/auth/usecase"
	conndomain "careerpulse-backend/internal/connection/domain"
	connRepo "careerpulse-backend/internal/connection/repository"
	connUsecase "careerpulse-backend/internal/connection/usecase"
	emailUsecase "careerpulse-backend/internal/email/usecase"
	"careerpulse-backend/pkg/config"
	"careerpulse-backend/pkg/database"
	"careerpulse-backend/pkg/gmail"
	"careerpulse-backend/pkg/imapclient"
	"careerpulse-backend/pkg/llm"
)

func main() {
	// Load configuration; the process refuses to serve without required vars
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}, &conndomain.Connection{}, &appdomain.JobApplication{}); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	connectionRepository := connRepo.NewConnectionRepository(db)
	applicationRepository := appRepo.NewApplicationRepository(db)

	// Mail providers
	gmailFetcher := gmail.NewFetcher()
	imapService := imapclient.NewService()

	// Optional LLM extractor; sync runs without it
	var llmExtractor emailUsecase.LLMExtractor
	if cfg.OpenAIAPIKey != "" {
		llmExtractor = llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		log.Printf("[DEBUG] secondary LLM extractor enabled (model %s)", cfg.OpenAIModel)
	} else {
		log.Printf("[DEBUG] no OPENAI_API_KEY configured, secondary extractor disabled")
	}

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepository, cfg)
	tokenManager := connUsecase.NewTokenManager(connectionRepository, gmailFetcher, cfg)
	syncUsecaseInstance := emailUsecase.NewSyncUsecase(tokenManager, applicationRepository, gmailFetcher, imapService, llmExtractor, cfg.SyncMaxConcurrentFetches, cfg.SyncFetchTimeout)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, tokenManager, syncUsecaseInstance, cfg)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
