package attendance

import (
	"go-workforce/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	att := r.Group("/attendance")
	att.Use(middleware.AuthMiddleware())
	{
		att.POST("/check-in", middleware.RBACAuthorize(rbacService, "attendance", "record"), handler.CheckIn)
		att.POST("/check-out", middleware.RBACAuthorize(rbacService, "attendance", "record"), handler.CheckOut)
		att.POST("/half-day", middleware.RBACAuthorize(rbacService, "attendance", "record"), handler.RequestHalfDay)
		att.POST("/:id/correction", middleware.RBACAuthorize(rbacService, "attendance", "record"), handler.RequestCorrection)
		att.GET("/mine", middleware.RBACAuthorize(rbacService, "attendance", "read"), handler.ListMine)
		att.GET("/today", middleware.RBACAuthorize(rbacService, "attendance", "read"), handler.Today)

		att.GET("/approvals", middleware.RBACAuthorize(rbacService, "attendance", "approve"), handler.ListPendingApprovals)
		att.POST("/:id/adjudicate", middleware.RBACAuthorize(rbacService, "attendance", "approve"), handler.ApproveOrReject)
		att.POST("/:id/escalate", middleware.RBACAuthorize(rbacService, "attendance", "escalate"), handler.FlagToHR)
		att.PUT("/:id/override", middleware.RBACAuthorize(rbacService, "attendance", "override"), handler.AdminOverride)
	}
}
