package reviewcycle

import (
	"go-workforce/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
) {
	cycles := r.Group("/review-cycles")
	cycles.Use(middleware.AuthMiddleware())
	{
		cycles.GET("", middleware.RBACAuthorize(rbacService, "review_cycle", "read"), handler.GetAll)
		cycles.GET("/:id", middleware.RBACAuthorize(rbacService, "review_cycle", "read"), handler.GetById)
		cycles.POST("", middleware.RBACAuthorize(rbacService, "review_cycle", "create"), handler.Create)
		cycles.PUT("/:id", middleware.RBACAuthorize(rbacService, "review_cycle", "update"), handler.Update)
		cycles.POST("/:id/activate",
			middleware.RBACAuthorize(rbacService, "review_cycle", "activate"),
			middleware.Idempotency(rdb),
			handler.Activate,
		)
		cycles.POST("/:id/close", middleware.RBACAuthorize(rbacService, "review_cycle", "update"), handler.Close)
		cycles.DELETE("/:id", middleware.RBACAuthorize(rbacService, "review_cycle", "delete"), handler.Delete)
	}
}
