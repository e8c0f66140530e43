package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yingxuHou/MeiHuaXinYi/internal/config"
	httpx "github.com/yingxuHou/MeiHuaXinYi/internal/http"
	"github.com/yingxuHou/MeiHuaXinYi/internal/http/handlers"
	"github.com/yingxuHou/MeiHuaXinYi/internal/infrastructure/auth"
	"github.com/yingxuHou/MeiHuaXinYi/internal/infrastructure/database"
	"github.com/yingxuHou/MeiHuaXinYi/internal/infrastructure/oracle"
	"github.com/yingxuHou/MeiHuaXinYi/internal/infrastructure/repositories"
	"github.com/yingxuHou/MeiHuaXinYi/internal/services"
)

// Run wires the whole service together and blocks until shutdown.
func Run(cfg *config.Config, logger *zap.Logger) error {
	gdb, err := database.Open(cfg.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(gdb); err != nil {
		return err
	}

	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := rdb.Ping(context.Background()); err != nil {
		return err
	}

	// Infrastructure services
	passwordSvc := auth.NewPasswordService(0)
	tokenSvc := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL, cfg.RefreshTTL)
	oracleSvc := oracle.New()

	// Repositories
	userRepo := repositories.NewUserRepository(gdb)
	recordRepo := repositories.NewDivinationRepository(gdb)

	// Services
	authSvc := services.NewAuthService(userRepo, passwordSvc, tokenSvc, cfg.InitialFreeCount)
	divinationSvc := services.NewDivinationService(userRepo, recordRepo, oracleSvc, cfg.GenerationTimeout, logger)
	userSvc := services.NewUserService(userRepo, recordRepo)

	r := httpx.BuildRouter(httpx.RouterDeps{
		Config:  cfg,
		Logger:  logger,
		AuthSvc: authSvc,

		AuthHandlers:       handlers.NewAuthHandlers(authSvc),
		DivinationHandlers: handlers.NewDivinationHandlers(divinationSvc),
		UserHandlers:       handlers.NewUserHandlers(userSvc),

		Redis: rdb,
		DBPing: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
