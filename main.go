package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"artmarket-app/config"
	"artmarket-app/database"
	authapi "artmarket-app/internal/api/auth"
	routes "artmarket-app/internal/app/http"
	"artmarket-app/internal/domain/site"
	"artmarket-app/internal/events"
	"artmarket-app/internal/infra/blob"
	"artmarket-app/internal/infra/previews"
	"artmarket-app/internal/infra/stability"
	"artmarket-app/internal/infra/stripe"
	"artmarket-app/internal/jobs"
	"artmarket-app/internal/logging"
	"artmarket-app/internal/metrics"
	"artmarket-app/internal/services"
	"artmarket-app/internal/storage"
	"artmarket-app/internal/storage/gormstore"
	"artmarket-app/internal/storage/memory"

	"github.com/getsentry/sentry-go"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	config.LoadEnv()
	log := logging.Setup(config.LOG_LEVEL, config.APP_ENV)
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if config.SENTRY_DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: config.SENTRY_DSN, Environment: config.APP_ENV}); err != nil {
			log.WithError(err).Warn("sentry disabled")
		}
		defer sentry.Flush(2 * time.Second)
	}

	site.PublicBaseURL = config.APP_URL
	ctx := context.Background()

	var store storage.Store
	if config.STORAGE == "memory" {
		log.Warn("using in-memory storage; data is lost on restart")
		store = memory.New()
	} else {
		db, err := database.InitDB(config.DB_URL, log)
		if err != nil {
			log.WithError(err).Fatal("database init failed")
		}
		defer database.Close()
		store = gormstore.New(db)
	}

	blobs, err := blob.Open(ctx, config.MEDIA_BUCKET_URL)
	if err != nil {
		log.WithError(err).Fatal("media bucket open failed")
	}
	defer blobs.Close()

	var previewStore previews.Store = previews.NewMemory(previews.DefaultTTL)
	if config.REDIS_ADDR != "" {
		rdb := redis.NewClient(&redis.Options{Addr: config.REDIS_ADDR})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.WithError(err).Fatal("redis unreachable")
		}
		defer rdb.Close()
		previewStore = previews.NewRedis(rdb, previews.DefaultTTL)
	}

	var publisher events.Publisher = events.LogPublisher{Log: log}
	if len(config.KAFKA_BROKERS) > 0 {
		publisher = events.NewKafkaPublisher(config.KAFKA_BROKERS, config.KAFKA_TOPIC, log)
	}
	defer publisher.Close()

	var ai services.Generator
	if config.STABILITY_API_KEY != "" {
		ai = stability.New(stability.Config{
			BaseURL: config.STABILITY_API_URL,
			APIKey:  config.STABILITY_API_KEY,
			Timeout: config.AI_TIMEOUT,
		}, log)
	}

	svc := services.New(services.Deps{
		Store:     store,
		Blobs:     blobs,
		Previews:  previewStore,
		AI:        ai,
		Payments:  stripe.New(config.STRIPE_SECRET_KEY, log),
		Events:    publisher,
		Log:       log,
		JWTSecret: config.JWT_SECRET,
		TokenTTL:  config.TOKEN_TTL,
	})

	if config.ADMIN_USERNAME != "" && config.ADMIN_PASSWORD != "" {
		if err := svc.Auth.EnsureAdmin(ctx, config.ADMIN_USERNAME, config.ADMIN_PASSWORD); err != nil {
			log.WithError(err).Fatal("admin seed failed")
		}
	}

	var google *authapi.GoogleConfig
	if config.GoogleEnabled() {
		google = &authapi.GoogleConfig{
			ClientID:         config.GOOGLE_CLIENT_ID,
			ClientSecret:     config.GOOGLE_CLIENT_SECRET,
			RedirectURL:      config.GOOGLE_REDIRECT_URL,
			FrontendRedirect: config.GOOGLE_FRONTEND_REDIRECT,
			SecureCookie:     config.IsProduction(),
		}
	}

	r := gin.New()

	// CORS goes before the routes.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(logging.Middleware(log), metrics.Middleware(), gin.Recovery())

	routes.RegisterRoutes(r, routes.Options{
		Services:            svc,
		Blobs:               blobs,
		Google:              google,
		StripeWebhookSecret: config.STRIPE_WEBHOOK_SECRET,
		Log:                 log,
	})

	sweeper, err := jobs.Start(config.AUCTION_SWEEP_SPEC, svc.Auctions, log)
	if err != nil {
		log.WithError(err).Fatal("auction sweeper failed to start")
	}

	srv := &http.Server{
		Addr:              ":" + config.PORT,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		log.Info("shutting down")
	case err := <-errc:
		// Fall through so the deferred closers still run.
		log.WithError(err).Error("server stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
	<-sweeper.Stop().Done()
}
