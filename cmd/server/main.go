package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/proposalflow/backend/internal/assistant"
	"github.com/proposalflow/backend/internal/config"
	"github.com/proposalflow/backend/internal/db"
	"github.com/proposalflow/backend/internal/goroutine"
	httpHandlers "github.com/proposalflow/backend/internal/http/handlers"
	httpRouter "github.com/proposalflow/backend/internal/http/router"
	"github.com/proposalflow/backend/internal/loader"
	"github.com/proposalflow/backend/internal/logger"
	"github.com/proposalflow/backend/internal/mockapi"
	"github.com/proposalflow/backend/internal/models"
	"github.com/proposalflow/backend/internal/repository"
	"github.com/proposalflow/backend/internal/service"
	"github.com/proposalflow/backend/internal/storage"
	"github.com/proposalflow/backend/internal/store"
	"github.com/proposalflow/backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	cache := service.NewCacheService()

	documentStorage, err := storage.NewDocumentStorage(cfg.DocumentStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Снимок последней загруженной страницы. mock-режим работает прямо
	// поверх него; с реальной базой его греет фоновый загрузчик.
	snapshot := store.NewProposalStore()

	var (
		dbConn          *sqlx.DB
		proposalRepo    service.ProposalRepository
		userDirectory   service.UserDirectory
		authRepo        service.AuthRepository
		documents       httpHandlers.DocumentStore
		uploadSimulator httpHandlers.UploadSimulator
		seedHandler     *httpHandlers.SeedHandler
	)

	if cfg.MockEnabled() {
		mockRepo := mockapi.New(snapshot, cfg.MockLatencyMin, cfg.MockLatencyMax, time.Now().UnixNano())
		if err := mockRepo.Seed(); err != nil {
			log.Fatalf("main: не удалось засеять mock-данные: %v", err)
		}

		proposalRepo = mockRepo
		userDirectory = mockRepo
		authRepo = mockRepo
		documents = mockRepo
		uploadSimulator = mockRepo
		seedHandler = httpHandlers.NewSeedHandler(mockRepo)

		logger.Log.Warn("main: сервер работает в mock-режиме, база не используется")
	} else {
		dbConn, err = db.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("main: ошибка подключения к базе: %v", err)
		}
		defer safeClose(dbConn)

		if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
			log.Fatalf("main: ошибка миграций: %v", err)
		}

		userRepo := repository.NewUserRepository(dbConn)
		proposalRepo = repository.NewProposalRepository(dbConn)
		userDirectory = userRepo
		authRepo = userRepo
		documents = repository.NewDocumentRepository(dbConn)
	}

	// Сервисы.
	authService := service.NewAuthService(authRepo, tokenManager)
	proposalService := service.NewProposalService(proposalRepo, userDirectory, cache, time.Now().UnixNano())
	aiAssistant := assistant.New(time.Now().UnixNano())

	// Фоновый загрузчик держит снимок первой страницы свежим. В mock-режиме
	// снимок и есть источник данных, обновлять его не с чего.
	if !cfg.MockEnabled() {
		pageLoader := loader.New(proposalService, snapshot)
		goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
			refreshSnapshot(ctx, pageLoader)
		})
	}

	// Вебсокеты.
	hub := ws.NewHub()
	go hub.Run()

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	proposalHandler := httpHandlers.NewProposalHandler(proposalService, hub)
	assistantHandler := httpHandlers.NewAssistantHandler(aiAssistant)
	documentHandler := httpHandlers.NewDocumentHandler(documents, documentStorage, uploadSimulator)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager, proposalService)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	engine := httpRouter.SetupRouter(cfg, authHandler, proposalHandler, assistantHandler, documentHandler, wsHandler, healthHandler, seedHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// refreshSnapshot периодически перечитывает первую страницу предложений.
func refreshSnapshot(ctx context.Context, pageLoader *loader.Loader) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		if _, err := pageLoader.Load(ctx, 1, 50, models.ProposalFilters{}, models.DefaultSort); err != nil && ctx.Err() == nil {
			logger.Log.WithError(err).Warn("main: не удалось обновить снимок предложений")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
