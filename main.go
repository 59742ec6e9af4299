package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"careerpath/internal"
	"careerpath/internal/config"
	"careerpath/internal/container"
	"careerpath/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Log.Level), appConfig.Log.JSON)
	internal.DefaultLogger = logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create container: %v", err)
	}

	if appConfig.Database.URL != "" {
		db, err := initDatabase(appConfig.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := appContainer.InitWithDatabase(ctx, db); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
	} else {
		logger.Info("[Main] DATABASE_URL not set, prediction history disabled")
	}

	if err := appContainer.Init(); err != nil {
		log.Fatalf("Failed to initialize pipeline: %v", err)
	}
	appContainer.StartBackground(ctx)

	server := ui.NewServer(appContainer.Service, appContainer.Sessions, logger, appConfig.Server.GinMode)

	var admin *http.Server
	if appConfig.Admin.Enabled {
		admin = &http.Server{
			Addr:              ":" + appConfig.Admin.Port,
			Handler:           ui.NewAdminRouter(appContainer.Service, appContainer.Sessions),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("[Main] admin server listening on :%s (pprof under /debug/pprof)", appConfig.Admin.Port)
			if err := admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("[Main] admin server failed: %v", err)
			}
		}()
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("[Main] starting career path server on port %s", appConfig.Server.Port)
		serverErr <- server.Start(":" + appConfig.Server.Port)
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("[Main] server failed: %v", err)
		}
	case <-ctx.Done():
		logger.Info("[Main] shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("[Main] server shutdown: %v", err)
	}
	if admin != nil {
		if err := admin.Shutdown(shutdownCtx); err != nil {
			logger.Warn("[Main] admin shutdown: %v", err)
		}
	}
	if err := appContainer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("[Main] container shutdown: %v", err)
	}
}

// initDatabase opens the postgres connection pool
func initDatabase(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}
