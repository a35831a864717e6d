package routes

import (
	"github.com/labstack/echo/v4"
)

func runWorkOrderRouter(secureGroup *echo.Group, ctrls workOrderControllers) {
	secureGroup.GET("/work-orders", ctrls.workOrder.List)
	secureGroup.POST("/work-orders", ctrls.workOrder.Create)
	secureGroup.GET("/work-orders/:id", ctrls.workOrder.Get)
	secureGroup.PUT("/work-orders/:id", ctrls.workOrder.Update)
	secureGroup.DELETE("/work-orders/:id", ctrls.workOrder.Delete)
	secureGroup.GET("/work-orders/:id/activity", ctrls.workOrder.GetActivity)

	secureGroup.GET("/work-orders/:id/measurements", ctrls.measurement.List)
	secureGroup.POST("/work-orders/:id/measurements", ctrls.measurement.Create)
	secureGroup.GET("/work-orders/:id/measurements/export", ctrls.measurement.Export)

	secureGroup.GET("/work-orders/:id/documents", ctrls.document.List)
	secureGroup.PUT("/work-orders/:id/documents/permissions", ctrls.document.UpdatePermissions)

	secureGroup.POST("/work-orders/:id/conformity-signature", ctrls.signature.Create)
}
