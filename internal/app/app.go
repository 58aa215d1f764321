package app

import (
	"github.com/jkaz1007/lms-sys/internal/config"
	"github.com/jkaz1007/lms-sys/internal/middleware"
	"github.com/jkaz1007/lms-sys/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure and registers every module's routes on
// the router. It returns once the app is ready to serve.
func BuildApp(router *gin.Engine, cfg *config.Config, logger *zap.Logger) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
		5,
	)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(logger))

	return registerModules(router, sqlDB, gormDB, rdb, cfg)
}
