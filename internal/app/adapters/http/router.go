package http

import (
	"chatrouter/internal/app/adapters/http/handlers"
	"chatrouter/internal/app/adapters/http/middlewares"
	"chatrouter/internal/app/infrastructure/config"
	"chatrouter/pkg/logger"
	"context"
	"errors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"log/slog"
	"net/http"
	"time"
)

type Router struct {
	router      *gin.Engine
	handlers    *handlers.Handlers
	middlewares *middlewares.Middlewares

	log     logger.Logger
	manager *config.Manager
}

func NewRouter(log logger.Logger, manager *config.Manager, participants handlers.Participants, notifications gin.HandlerFunc) *Router {
	cfg := manager.Get()
	gin.SetMode(cfg.App.GinMode)

	r := &Router{
		router:      gin.New(),
		handlers:    handlers.New(log, manager, participants),
		middlewares: middlewares.New(),
		log:         log,
		manager:     manager,
	}
	r.router.Use(gin.Recovery())

	pprofGroup := r.router.Group("/", gin.BasicAuth(gin.Accounts{
		"admin": cfg.App.AuthToken,
	}))
	pprof.RouteRegister(pprofGroup)

	r.router.GET("/metrics", gin.BasicAuth(gin.Accounts{
		"admin": cfg.App.AuthToken,
	}), gin.WrapH(promhttp.Handler()))

	r.router.GET("/healthz", r.handlers.HealthzHandler)
	r.router.GET("/participants", r.middlewares.Auth(cfg.App.AuthToken), r.handlers.ParticipantsHandler)
	if notifications != nil {
		r.router.GET("/ws", notifications)
	}

	return r
}

func (r *Router) Handler() http.Handler {
	return r.router
}

// Run serves until ctx is done, then shuts the server down gracefully.
func (r *Router) Run(ctx context.Context) error {
	srv := r.newServer(r.manager.Get().App.HTTPAddr, r.router)

	errCh := make(chan error, 1)
	go func() {
		r.log.Info("HTTP server listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (r *Router) newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
}
