package leavetype

import (
	"github.com/jkaz1007/lms-sys/internal/config"
	"github.com/jkaz1007/lms-sys/internal/middleware"
	"github.com/jkaz1007/lms-sys/internal/policy"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, cfg *config.Config) {
	types := r.Group("/leave-types")
	types.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		types.GET("", h.GetAll)
		types.GET("/:name", h.GetByName)

		admin := middleware.RoleMiddleware(policy.RoleAdmin.String())
		types.POST("", admin, h.Create)
		types.PUT("/:name", admin, h.Update)
		types.DELETE("/:name", admin, h.Delete)
	}
}
