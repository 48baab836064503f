package review

import (
	"go-workforce/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	reviews := r.Group("/performance-reviews")
	reviews.Use(middleware.AuthMiddleware())
	{
		reviews.GET("/mine", middleware.RBACAuthorize(rbacService, "performance_review", "read"), handler.ListMine)
		reviews.GET("/team", middleware.RBACAuthorize(rbacService, "performance_review", "read_team"), handler.ListTeam)
		reviews.GET("/cycle/:cycleId", middleware.RBACAuthorize(rbacService, "performance_review", "read_all"), handler.ListByCycle)
		reviews.GET("/:id", middleware.RBACAuthorize(rbacService, "performance_review", "read"), handler.GetById)
		reviews.POST("/:id/self-assessment", middleware.RBACAuthorize(rbacService, "performance_review", "self_assess"), handler.SubmitSelfAssessment)
		reviews.POST("/:id/manager-review", middleware.RBACAuthorize(rbacService, "performance_review", "review"), handler.SubmitManagerReview)
		reviews.POST("/:id/acknowledge", middleware.RBACAuthorize(rbacService, "performance_review", "acknowledge"), handler.Acknowledge)
	}
}
