package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"sourcegate/internal/backend"
	"sourcegate/internal/config"
	"sourcegate/internal/handler"
	"sourcegate/internal/logger"
	"sourcegate/internal/service"
)

func main() {
	// Загружаем конфигурацию
	appConfig, err := config.NewConfig(".app.env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(appConfig.Server.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Клиент бэкенда мониторинга
	store, err := backend.NewClient(appConfig.Backend, log)
	if err != nil {
		log.Fatal("Failed to create backend client", "error", err)
	}

	// Проверяем доступность бэкенда; при недоступности не падаем —
	// сервисы гасят сбои чтения до пустых результатов
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := store.Ping(pingCtx); err != nil {
		log.Warn("monitor backend is not reachable on startup", "error", err)
	}
	cancelPing()

	// Инициализация сервисов
	versionService := service.NewVersionService(store, log)
	fileTreeService := service.NewFileTreeService(store, log)
	locationService := service.NewLocationService(store, log)
	diagnosisService := service.NewDiagnosisService(store, locationService, log)
	associationService := service.NewAssociationService(store, log)

	// Инициализация хендлеров
	versionHandler := handler.NewVersionHandler(versionService, associationService)
	sourceHandler := handler.NewSourceHandler(fileTreeService, locationService)
	diagnosisHandler := handler.NewDiagnosisHandler(diagnosisService)
	associationHandler := handler.NewAssociationHandler(associationService)

	// Настройка HTTP роутера
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// HTTP маршруты
	r.Route("/v1", func(r chi.Router) {
		r.Route("/projects/{projectId}", func(r chi.Router) {
			r.Get("/versions", versionHandler.ListVersions)
			r.Post("/versions/validate", versionHandler.ValidateVersion)

			r.Post("/sourcecode", associationHandler.Upload)
			r.Put("/sourcecode/{associationId}/activate", associationHandler.SetActive)
			r.Delete("/sourcecode/{associationId}", associationHandler.Delete)

			r.Get("/files", sourceHandler.GetFileTree)
			r.Get("/source", sourceHandler.GetSourceWindow)
			r.Post("/resolve", sourceHandler.ResolveLocation)
			r.Post("/resolve/batch", sourceHandler.ResolveBatch)

			r.Post("/diagnosis/context", diagnosisHandler.PrepareContext)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", appConfig.Server.Port),
		Handler: r,
	}

	// Канал для сигналов завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Starting HTTP server", "port", appConfig.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start HTTP server", "error", err)
		}
	}()

	<-quit
	log.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", "error", err)
	}

	log.Info("Server exited properly")
}
