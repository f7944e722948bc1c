package handler

import (
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Notification *NotificationHandler
	Progress     *ProgressHandler
	Applet       *AppletHandler
}

func RegisterRoutes(r gin.IRouter, h Handlers) {
	v1 := r.Group("/api/v1")

	notifications := v1.Group("/notifications")
	notifications.POST("/refresh", h.Notification.HandleRefresh)
	notifications.GET("", h.Notification.HandleList)
	notifications.GET("/calendar.ics", h.Notification.HandleCalendar)
	notifications.GET("/:id", h.Notification.HandleGet)
	notifications.DELETE("", h.Notification.HandleCancelAll)
	notifications.DELETE("/:id", h.Notification.HandleCancelOne)

	v1.POST("/progress", h.Progress.HandleSaveProgress)

	v1.PUT("/applets/:id", h.Applet.HandlePut)
	v1.DELETE("/applets/:id", h.Applet.HandleDelete)
}
