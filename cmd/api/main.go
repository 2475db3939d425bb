package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"address-resolver/internal/config"
	"address-resolver/internal/facility"
	"address-resolver/internal/geocoder"
	"address-resolver/internal/handler"
	"address-resolver/internal/logger"
	"address-resolver/internal/metrics"
	"address-resolver/internal/models"
	"address-resolver/internal/repository"
	"address-resolver/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logger.Setup(config.LogLevel, config.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Facility directories
	var source facility.Source = facility.FileSource{Path: config.FacilitiesFile}
	if config.FacilitySource == "postgres" {
		conn, err := pgxpool.New(ctx, config.DBSource)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to db")
		}
		defer conn.Close()
		source = repository.NewFacilityRepository(conn)
	}

	directory, err := facility.Load(ctx, source)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load facilities")
	}
	log.Info().
		Str("source", config.FacilitySource).
		Int("depots", len(directory.Depots())).
		Int("rail_terminals", len(directory.RailTerminals())).
		Msg("facilities loaded")

	// Geocoding provider
	google := geocoder.NewGoogleClient(config.GoogleAPIKey,
		geocoder.WithHTTPClient(&http.Client{Timeout: config.GeocodeTimeout}),
		geocoder.WithBaseURL(config.GeocodeBaseURL),
		geocoder.WithRateLimit(config.GeocodeRateLimit),
	)
	if config.GoogleAPIKey == "" {
		log.Warn().Msg("GOOGLE_API_KEY not set; reverse geocoding will fail")
	}

	var cacheStore redis.Cmdable
	if config.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unavailable; reverse geocode cache disabled")
		} else {
			cacheStore = rdb
		}
	}
	cache := geocoder.NewCachedGeocoder(google, cacheStore, config.CacheTTL)

	// Initialize layers
	addressService := service.NewAddressService(directory, config.DivisionList())
	sessionService := service.NewSessionService(addressService, cache, google, models.DisplayMode(config.DefaultDisplayMode))

	sessionHandler := handler.NewSessionHandler(sessionService)
	facilityHandler := handler.NewFacilityHandler(directory)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), logger.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	sessions := r.Group("/sessions")
	sessions.POST("", sessionHandler.Create)
	sessions.GET("/:id", sessionHandler.Get)
	sessions.DELETE("/:id", sessionHandler.Delete)
	sessions.PUT("/:id/display-mode", sessionHandler.SetDisplayMode)
	sessions.POST("/:id/selection", sessionHandler.Select)
	sessions.POST("/:id/address", sessionHandler.SelectAddress)
	sessions.PUT("/:id/coordinates", sessionHandler.SyncCoordinates)

	facilities := r.Group("/facilities")
	facilities.GET("", facilityHandler.List)
	facilities.GET("/depots/nearest", facilityHandler.NearestDepot)
	facilities.GET("/rail/nearest", facilityHandler.NearestRail)

	srv := &http.Server{
		Addr:              config.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", config.ServerAddress).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
