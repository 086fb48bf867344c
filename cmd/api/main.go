package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	authrepo "github.com/ovaphlow/pitchfork/service-game-store-go/internal/auth/repo"
	gamerepo "github.com/ovaphlow/pitchfork/service-game-store-go/internal/game/repo"
	"github.com/ovaphlow/pitchfork/service-game-store-go/internal/router"
	"github.com/ovaphlow/pitchfork/service-game-store-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-game-store-go/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	// best-effort: if no .env exists, continue with the real environment
	_ = godotenv.Load()

	// init logger
	lg, err := utilities.InitLogger(utilities.LogConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting service-game-store-go")

	// init db
	cfg := database.ConfigFromEnv()
	sqlDB, err := database.Connect(cfg)
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer sqlDB.Close()

	// wrap with sqlx for convenience in repos/services
	sqlxDB := sqlx.NewDb(sqlDB, "postgres")
	defer sqlxDB.Close()

	// bootstrap schema
	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelBoot()
	if err := authrepo.NewUserRepo(sqlxDB).EnsureTable(bootCtx); err != nil {
		sugar.Fatalf("ensure users table: %v", err)
	}
	if err := gamerepo.NewGameRepo(sqlxDB).EnsureTable(bootCtx); err != nil {
		sugar.Fatalf("ensure games table: %v", err)
	}

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// mount http server
	handler, err := router.RegisterRoutes(sugar, sqlxDB)
	if err != nil {
		sugar.Fatalf("register routes: %v", err)
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: handler,
	}

	// run server in background
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	sugar.Infow("service is running", "port", port)

	<-ctx.Done()

	sugar.Info("shutting down")

	// give a short grace period for cleanup
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// shutdown http server first so in-flight requests drain
	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	// ping db once more
	if err := sqlDB.PingContext(doneCtx); err != nil {
		sugar.Warnf("db ping on shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
