package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	"newsletter-go/internal/handlers"
	"newsletter-go/internal/logging"
	"newsletter-go/internal/metrics"
	"newsletter-go/internal/middleware"
	"newsletter-go/internal/repository"
	"newsletter-go/internal/service"
)

// Config carries the dependencies Build wires together. When Listener is
// set it is served instead of binding Address.
type Config struct {
	ServiceName    string
	Address        string
	Listener       net.Listener
	Logger         *logging.ContextLogger
	TracerProvider trace.TracerProvider
	GinMode        string
	Repository     repository.SubscriptionRepository
}

// Application is the request-handling context: it owns the router and
// every dependency the handlers reach, constructed once in Build.
type Application struct {
	server  *http.Server
	config  *Config
	router  *gin.Engine
	repo    repository.SubscriptionRepository
	metrics *metrics.Metrics
}

func Build(config *Config) *Application {
	if config.GinMode != "" {
		gin.SetMode(config.GinMode)
	}

	repo := config.Repository
	if repo == nil {
		repo = repository.NewInMemorySubscriptionRepository()
	}

	appMetrics := metrics.New()
	subscriptionService := service.NewSubscriptionService(repo, config.Logger)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService, config.Logger, appMetrics)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(config.ServiceName, otelgin.WithTracerProvider(config.TracerProvider)))
	router.Use(middleware.RequestLogger(config.Logger))
	router.Use(middleware.GinMetrics(appMetrics))

	router.GET("/health_check", handlers.HealthCheck)
	router.POST("/subscriptions", subscriptionHandler.Subscribe)
	router.GET("/metrics", gin.WrapH(appMetrics.Handler()))

	server := &http.Server{
		Addr:              config.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Application{
		server:  server,
		config:  config,
		router:  router,
		repo:    repo,
		metrics: appMetrics,
	}
}

func (app *Application) Run() error {
	var err error
	if app.config.Listener != nil {
		app.config.Logger.Info("Starting server on " + app.config.Listener.Addr().String())
		err = app.server.Serve(app.config.Listener)
	} else {
		app.config.Logger.Info("Starting server on " + app.config.Address)
		err = app.server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (app *Application) Shutdown(ctx context.Context) error {
	app.config.Logger.Info("Shutting down server...")
	return app.server.Shutdown(ctx)
}

func (app *Application) GetRepo() repository.SubscriptionRepository {
	return app.repo
}

func (app *Application) GetMetrics() *metrics.Metrics {
	return app.metrics
}

func (app *Application) GetRouter() *gin.Engine {
	return app.router
}
