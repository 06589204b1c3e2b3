package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"go-mongo-todo/internal/config"
	"go-mongo-todo/internal/database"
	"go-mongo-todo/internal/logger"
	"go-mongo-todo/internal/repositories"
	"go-mongo-todo/internal/routes"
)

func main() {
	cfg := config.Load()
	log := logger.New("todo-api", cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// DBに接続できなければ起動しない
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	db, err := database.Connect(connectCtx, cfg.DBURI, cfg.DBName)
	cancel()
	if err != nil {
		log.WithError(errors.Unwrap(err)).Fatal("could not initialize database")
	}
	log.WithField("db", cfg.DBName).Info("connected to MongoDB")

	todoRepo := repositories.NewTodoRepository(db.Todos())
	r := routes.SetupRouter(cfg, todoRepo, db, log)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
	if err := db.Close(shutdownCtx); err != nil {
		log.WithError(err).Error("mongo disconnect failed")
	}
}
