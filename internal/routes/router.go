// Package routesはroutingを行います。
package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"go-mongo-todo/internal/config"
	"go-mongo-todo/internal/handlers"
	"go-mongo-todo/internal/services"
)

// Pinger はヘルスチェックでDBの疎通を確認します。
type Pinger interface {
	Ping(ctx context.Context) error
}

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(cfg *config.Config, store services.TodoStore, db Pinger, log *logrus.Entry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(log))
	r.Use(MetricsMiddleware())

	// CORS対策
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", requestIDHeader}
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	r.Use(cors.New(corsConfig))

	// サービス
	todoService := services.NewTodoService(store)

	// ハンドラー
	todoHandler := handlers.NewTodoHandler(todoService, log)

	// ルーティング
	r.GET("/healthz", HealthHandler(db))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	todos := r.Group("/todo")
	{
		todos.POST("", todoHandler.CreateTodoHandler)
		todos.GET("", todoHandler.GetTodosHandler)
		todos.GET("/:id", todoHandler.GetTodoByIDHandler)
		todos.PUT("/:id", todoHandler.ReplaceTodoHandler)
		todos.PATCH("/:id", todoHandler.UpdateTodoHandler)
		todos.DELETE("/:id", todoHandler.DeleteTodoHandler)
	}

	return r
}

// HealthHandler はDBにpingし、結果を返します。
func HealthHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "Database connection failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
