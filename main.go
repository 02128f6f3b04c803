package main

import (
	"context"
	"errors"
	"fmt"
	"movienest/src/auth"
	"movienest/src/config"
	files "movienest/src/modules/files/services"
	"movienest/src/routes"
	"movienest/src/services"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	config.LoadEnvFile()
	cfg := config.Load()
	config.InitLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("Starting MovieNest API")

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to the database
	db := config.ConnectDatabase(cfg.Database)
	rdb := config.ConnectRedis(cfg.Redis)

	var objects files.ObjectStore
	if client := config.ConnectMinio(cfg.Minio); client != nil {
		objects = files.NewMinioStore(client, cfg.Minio.Bucket)
	}

	app := routes.NewApp(routes.Deps{
		DB:            db,
		Redis:         rdb,
		Objects:       objects,
		Issuer:        auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		CorsOrigins:   cfg.Server.CorsOrigins,
		RatePerSecond: cfg.Auth.RatePerSecond,
		RateBurst:     cfg.Auth.RateBurst,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Auth.AdminUsername != "" && cfg.Auth.AdminPassword != "" {
		if _, err := app.Users.SeedAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
			log.Error().Err(err).Str("username", cfg.Auth.AdminUsername).Msg("Could not seed admin account")
		} else {
			log.Info().Str("username", cfg.Auth.AdminUsername).Msg("Admin account ready")
		}
	}
	if cfg.Auth.JWTSecret == "change-me" && !cfg.IsDevelopment() {
		log.Warn().Msg("JWT_SECRET is using the default value")
	}

	go app.Hub.Run(ctx)
	services.WarmCaches(ctx, app.Warmers...)
	scheduler := services.SetupBackgroundJobs(db, app.Cache, app.Warmers...)

	// Start API and WebSocket server
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Could not start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	<-scheduler.Stop().Done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
