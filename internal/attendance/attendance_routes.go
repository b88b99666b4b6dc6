package attendance

import (
	"hr-core/internal/middleware"
	"hr-core/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware())
	{
		attendances.GET("/today", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.GetToday)
		attendances.GET("", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.GetRange)
		attendances.POST("/punch-in", middleware.RBACAuthorize(rbacService, "attendance", "create"), h.PunchIn)
		attendances.POST("/punch-out", middleware.RBACAuthorize(rbacService, "attendance", "create"), h.PunchOut)
		attendances.POST("/breaks/start", middleware.RBACAuthorize(rbacService, "attendance", "create"), h.StartBreak)
		attendances.POST("/breaks/end", middleware.RBACAuthorize(rbacService, "attendance", "create"), h.EndBreak)
	}
}
