package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/quillhq/quill/pkg/quill"
	"github.com/quillhq/quill/pkg/quill/api"
	"github.com/quillhq/quill/pkg/quill/config"
)

func main() {
	serverConfig, err := config.LoadServerConfig()
	if err != nil {
		slog.Error("failed to load server configuration", "error", err)
		os.Exit(1)
	}

	svc, err := serverConfig.BuildService()
	if err != nil {
		slog.Error("failed to build service", "error", err)
		os.Exit(1)
	}

	// Bootstrap an admin when none exists so a fresh deployment is usable.
	admin, created, err := svc.EnsureAdmin(context.Background(),
		serverConfig.AdminHandle, serverConfig.AdminEmail, serverConfig.AdminPassword)
	if err != nil {
		slog.Error("failed to bootstrap admin", "error", err)
		os.Exit(1)
	}
	if created {
		slog.Info("created bootstrap admin", "handle", admin.Handle, "email", admin.Email)
	}

	if serverConfig.JWTSecret == "" {
		slog.Warn("JWT_SECRET not set; sessions will not survive a restart")
	}
	tokens := serverConfig.TokenIssuer()

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: routes(svc, tokens),
	}

	go func() {
		slog.Info("quill server starting", "port", serverConfig.Port, "env", serverConfig.Environment)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exiting")
}

func routes(svc quill.Service, tokens *quill.TokenIssuer) http.Handler {
	logger := httplog.NewLogger("quill", httplog.Options{
		LogLevel:       slog.LevelInfo,
		Concise:        true,
		RequestHeaders: false,
	})

	r := chi.NewRouter()

	r.Use(httplog.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Mount("/", api.NewRouter(svc, tokens))

	return r
}
