package app

import (
	"database/sql"

	"github.com/jkaz1007/lms-sys/internal/auth"
	"github.com/jkaz1007/lms-sys/internal/config"
	"github.com/jkaz1007/lms-sys/internal/employee"
	"github.com/jkaz1007/lms-sys/internal/leave"
	"github.com/jkaz1007/lms-sys/internal/leavetype"
	"github.com/jkaz1007/lms-sys/internal/messaging/kafka"
	"github.com/jkaz1007/lms-sys/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
) error {
	// --- Repositories ---
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	authService := auth.NewService(db, employeeRepo, leaveTypeRepo, outboxRepo, cfg)
	leaveTypeService := leavetype.NewService(leaveTypeRepo, rdb)
	leaveService := leave.NewService(db, leaveRepo, employeeRepo, counterRepo, outboxRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, cfg)
		leavetype.RegisterRoutes(api, leaveTypeHandler, cfg)
		leave.RegisterRoutes(api, leaveHandler, cfg, rdb)
	}

	return nil
}
