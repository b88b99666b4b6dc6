package payroll

import (
	"hr-core/internal/middleware"
	"hr-core/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	payroll := r.Group("/payroll")
	payroll.Use(middleware.AuthMiddleware())
	{
		payroll.GET("/periods", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetPeriods)
		payroll.POST("/periods", middleware.RBACAuthorize(rbacService, "payroll", "create"), handler.CreatePeriod)
		payroll.POST("/periods/:id/activate", middleware.RBACAuthorize(rbacService, "payroll", "create"), handler.ActivatePeriod)

		payroll.GET("/payslips", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetPayslips)
		payroll.GET("/payslips/:id", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetPayslipByID)
		payroll.GET("/payslips/:id/download", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.DownloadPayslip)

		if redisClient != nil {
			payroll.POST(
				"/payslips/calculate",
				middleware.Idempotency(redisClient),
				middleware.RBACAuthorize(rbacService, "payroll", "create"),
				handler.CalculatePayslip,
			)
		} else {
			payroll.POST("/payslips/calculate", middleware.RBACAuthorize(rbacService, "payroll", "create"), handler.CalculatePayslip)
		}
		payroll.POST("/payslips/request", middleware.RBACAuthorize(rbacService, "payroll", "create"), handler.RequestPayslips)
	}
}
