package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yingxuHou/MeiHuaXinYi/domain"
	"github.com/yingxuHou/MeiHuaXinYi/internal/config"
	"github.com/yingxuHou/MeiHuaXinYi/internal/http/handlers"
	"github.com/yingxuHou/MeiHuaXinYi/internal/http/middleware"
	"github.com/yingxuHou/MeiHuaXinYi/internal/http/response"
	"github.com/yingxuHou/MeiHuaXinYi/internal/infrastructure/database"
)

// RouterDeps bundles everything BuildRouter wires together.
type RouterDeps struct {
	Config  *config.Config
	Logger  *zap.Logger
	AuthSvc domain.AuthService

	AuthHandlers       *handlers.AuthHandlers
	DivinationHandlers *handlers.DivinationHandlers
	UserHandlers       *handlers.UserHandlers

	Redis  *database.RedisClient
	DBPing func(ctx context.Context) error
}

// BuildRouter assembles the gin engine: logging, recovery, CORS, rate
// limiting on the API surface, and the route groups behind their guards.
func BuildRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(ginzap.Ginzap(d.Logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(d.Logger, true))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", func(c *gin.Context) {
		response.OK(c, http.StatusOK, gin.H{
			"name":    "MeiHuaXinYi API",
			"version": "1.0.0",
		})
	})

	r.GET("/health", func(c *gin.Context) {
		dbStatus, redisStatus := "up", "up"
		if err := d.DBPing(c.Request.Context()); err != nil {
			dbStatus = "down"
		}
		if err := d.Redis.Ping(c.Request.Context()); err != nil {
			redisStatus = "down"
		}
		status, overall := http.StatusOK, "ok"
		if dbStatus != "up" || redisStatus != "up" {
			status, overall = http.StatusServiceUnavailable, "degraded"
		}
		c.JSON(status, gin.H{
			"status":   overall,
			"database": dbStatus,
			"redis":    redisStatus,
		})
	})

	r.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.CodeNotFound, "route not found", nil)
	})

	api := r.Group("/api")
	api.Use(middleware.RateLimit(d.Redis.Client, d.Config.RateLimitWindow, int64(d.Config.RateLimitMax), d.Logger))

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandlers.Register)
	auth.POST("/login", d.AuthHandlers.Login)
	auth.POST("/refresh", d.AuthHandlers.Refresh)

	authed := api.Group("/")
	authed.Use(middleware.AuthRequired(d.AuthSvc), middleware.RequireActive())
	authed.GET("/auth/verify", d.AuthHandlers.Verify)
	authed.POST("/auth/logout", d.AuthHandlers.Logout)

	divination := authed.Group("/divination")
	divination.POST("/submit", middleware.RequireBalance(), d.DivinationHandlers.Submit)
	divination.GET("/history", d.DivinationHandlers.History)
	divination.GET("/result/:id", d.DivinationHandlers.Result)
	divination.GET("/stats", d.DivinationHandlers.Stats)
	divination.DELETE("/:id", d.DivinationHandlers.Delete)

	user := authed.Group("/user")
	user.GET("/profile", d.UserHandlers.Profile)
	user.PUT("/profile", d.UserHandlers.UpdateProfile)
	user.GET("/stats", d.UserHandlers.Stats)
	user.GET("/divinations", d.DivinationHandlers.History)
	user.POST("/free-count/decrement", d.UserHandlers.DecrementFree)
	user.POST("/total-count/increment", d.UserHandlers.IncrementTotal)

	return r
}
