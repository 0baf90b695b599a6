package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
	"xtvredirect/internal/config"
	herrors "xtvredirect/internal/http-server/handlers/errors"
	"xtvredirect/internal/http-server/handlers/health"
	"xtvredirect/internal/http-server/handlers/redirects"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"xtvredirect/internal/http-server/middleware/authenticate"
	"xtvredirect/internal/http-server/middleware/timeout"
	"xtvredirect/lib/sl"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	redirects.Core
}

// NewRouter builds the routes; /v1 is mounted only when an API token is configured.
func NewRouter(log *slog.Logger, handler Handler, withApi bool) http.Handler {
	router := chi.NewRouter()
	router.Use(timeout.Timeout(5))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(herrors.NotFound(log))
	router.MethodNotAllowed(herrors.NotAllowed(log))

	router.Get("/health", health.Health())

	if withApi {
		router.Route("/v1", func(rootApi chi.Router) {
			rootApi.Use(authenticate.New(log, handler))
			rootApi.Get("/stats", redirects.Stats(log, handler))
			rootApi.Get("/redirects", redirects.List(log, handler))
		})
	}
	return router
}

func New(conf *config.Config, log *slog.Logger, handler Handler) *Server {
	server := &Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:      NewRouter(log, handler, conf.Listen.ApiToken != ""),
		ErrorLog:     httpLog,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return server
}

// Start blocks serving until Shutdown is called.
func (s *Server) Start() error {
	serverAddress := fmt.Sprintf("%s:%s", s.conf.Listen.BindIp, s.conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	s.log.Info("starting api server", slog.String("address", serverAddress))

	err = s.httpServer.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
