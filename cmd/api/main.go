//	@title			Media Gallery API
//	@version		1.0
//	@description	Lists, uploads and deletes media objects in a storage container.
//
//	@host		localhost:8080
//	@BasePath	/api/v1

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/otel"

	"github.com/radif/gallery/internal/cli"
	"github.com/radif/gallery/internal/config"
	"github.com/radif/gallery/internal/gallery"
	"github.com/radif/gallery/internal/logger"
	appMiddleware "github.com/radif/gallery/internal/middleware"
	"github.com/radif/gallery/internal/storage"
	"github.com/radif/gallery/internal/telemetry"

	_ "github.com/radif/gallery/docs/swagger"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{
		Level:       cfg.SlogLevel(),
		SentryDSN:   cfg.SentryDSN,
		Environment: cfg.AppEnv,
		Extractors:  []logger.ContextExtractor{appMiddleware.RequestIDExtractor},
	})
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	shutdownTracing, err := telemetry.SetupTracerProvider(ctx, cfg.OTLPEndpoint, cfg.ServiceName, cli.Version)
	if err != nil {
		log.Error("tracing init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Error("object storage init failed", slog.String("driver", cfg.StorageDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wire dependencies: storage → controller → handlers
	opts := []gallery.Option{
		gallery.WithLogger(log),
		gallery.WithTracer(otel.Tracer("github.com/radif/gallery/internal/gallery")),
	}
	if cfg.GalleryOverlap == config.OverlapReject {
		opts = append(opts, gallery.WithRejectOverlap())
	}
	ctl := gallery.NewController(store, opts...)

	// A failed initial listing is logged by the controller; the server still starts.
	ctl.Refresh(ctx)

	apiHandler := gallery.NewHandler(ctl, cfg.UploadMaxBytes)
	page, err := gallery.NewPage(ctl, cfg.UploadMaxBytes, log)
	if err != nil {
		log.Error("page templates failed to parse", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// HTML gallery
	page.RegisterRoutes(r)

	// The memory driver's URLs point back at this server.
	if mem, ok := store.(*storage.MemoryStorage); ok {
		r.Handle(storage.MemoryRoute+"/*", mem.Handler(storage.MemoryRoute))
	}

	// API v1
	r.Route("/api/v1", apiHandler.RegisterRoutes)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      telemetry.Trace(r, cfg.ServiceName),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("server listening",
			slog.String("addr", srv.Addr),
			slog.String("env", cfg.AppEnv),
			slog.String("storage", cfg.StorageDriver),
			slog.String("swagger", "http://localhost:"+cfg.Port+"/swagger/"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-quit
	log.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", slog.String("error", err.Error()))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracer shutdown failed", slog.String("error", err.Error()))
	}

	log.Info("server stopped")
	logger.Flush(2 * time.Second)
}
