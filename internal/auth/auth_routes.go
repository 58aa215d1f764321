package auth

import (
	"github.com/jkaz1007/lms-sys/internal/config"
	"github.com/jkaz1007/lms-sys/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, cfg *config.Config) {
	grp := r.Group("/auth")
	{
		// Credential endpoints are brute-force targets, keep them rate limited.
		grp.POST("/register", middleware.RateLimitByIP(1, 5), h.Register)
		grp.POST("/login", middleware.RateLimitByIP(1, 5), h.Login)

		grp.GET("/me", middleware.AuthMiddleware(cfg.JWTSecret), h.Me)
	}
}
