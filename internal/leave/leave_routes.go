package leave

import (
	"github.com/jkaz1007/lms-sys/internal/config"
	"github.com/jkaz1007/lms-sys/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, cfg *config.Config, rdb *redis.Client) {
	leaves := r.Group("/leave")
	leaves.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		leaves.POST("/request", middleware.Idempotency(rdb), h.Submit)
		leaves.PATCH("/update-status/:id", h.Decide)
		leaves.GET("/my-leaves", h.ListMine)
		leaves.GET("/leaves-to-review", h.ListToReview)
	}
}
