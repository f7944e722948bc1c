package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/service/refresh"
)

// Refresher runs a notification refresh.
type Refresher interface {
	Refresh(ctx context.Context, trigger domain.LogTrigger) (*refresh.Result, error)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorResponse{
		Code:    code,
		Message: message,
	})
}
