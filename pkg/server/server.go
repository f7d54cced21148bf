package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/de-tools/capacity-atlas/pkg/handlers/forecast"
	capacitymiddleware "github.com/de-tools/capacity-atlas/pkg/server/middleware"
	"github.com/de-tools/capacity-atlas/pkg/services/tenant"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type Dependencies struct {
	Tenants tenant.Explorer
	Logger  zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

type WebAPI struct {
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

// ConfigureRouter mounts the forecast API. Split from NewWebAPI so tests
// can drive the routes without binding a listener.
func ConfigureRouter(config Config) *chi.Mux {
	handler := handlers.NewHandler(config.Dependencies.Tenants)

	router := chi.NewRouter()
	router.Use(capacitymiddleware.Logger(&config.Dependencies.Logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/tenants", handler.ListTenants)
		r.Get("/tenants/{tenant}/forecast", handler.GetForecast)
	})

	return router
}

func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)

	timeout := config.ShutdownTimeout
	if timeout == 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		logger:          &config.Dependencies.Logger,
		shutdownTimeout: timeout,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
