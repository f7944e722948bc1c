package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
)

type NotificationHandler struct {
	refresher Refresher
	scheduler domain.NotificationScheduler
	now       func() time.Time
}

func NewNotificationHandler(refresher Refresher, scheduler domain.NotificationScheduler) *NotificationHandler {
	return &NotificationHandler{
		refresher: refresher,
		scheduler: scheduler,
		now:       time.Now,
	}
}

type refreshRequest struct {
	Trigger domain.LogTrigger `json:"trigger"`
}

type listResponse struct {
	Notifications []domain.NotificationDescriber `json:"notifications"`
	Count         int                            `json:"count"`
}

// HandleRefresh runs a refresh detached from the request so a disconnecting
// client cannot abort scheduling halfway.
func (h *NotificationHandler) HandleRefresh(c *gin.Context) {
	ctx := c.Request.Context()

	req := refreshRequest{Trigger: domain.LogTriggerManual}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
	}
	if !req.Trigger.IsValid() {
		respondError(c, http.StatusBadRequest, "validation_error", "unknown trigger "+string(req.Trigger))
		return
	}

	result, err := h.refresher.Refresh(context.WithoutCancel(ctx), req.Trigger)
	if err != nil {
		slog.ErrorContext(ctx, "notification refresh failed",
			slog.String("trigger", string(req.Trigger)),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "refresh_error", "failed to refresh notifications")
		return
	}

	status := http.StatusOK
	if result.Skipped {
		status = http.StatusAccepted
	}
	c.JSON(status, result)
}

func (h *NotificationHandler) HandleList(c *gin.Context) {
	notifications, err := h.scheduler.ListScheduled(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to list scheduled notifications",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "list_error", "failed to list scheduled notifications")
		return
	}

	c.JSON(http.StatusOK, listResponse{
		Notifications: notifications,
		Count:         len(notifications),
	})
}

func (h *NotificationHandler) HandleGet(c *gin.Context) {
	id := c.Param("id")

	notifications, err := h.scheduler.ListScheduled(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "list_error", "failed to list scheduled notifications")
		return
	}

	for _, n := range notifications {
		if n.ID == id {
			c.JSON(http.StatusOK, n)
			return
		}
	}
	respondError(c, http.StatusNotFound, "not_found", "notification "+id+" is not scheduled")
}

func (h *NotificationHandler) HandleCalendar(c *gin.Context) {
	notifications, err := h.scheduler.ListScheduled(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "list_error", "failed to list scheduled notifications")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="notifications.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(buildCalendar(notifications, h.now())))
}

func (h *NotificationHandler) HandleCancelOne(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if err := h.scheduler.CancelOne(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotificationMissing) {
			respondError(c, http.StatusNotFound, "not_found", "notification "+id+" is not scheduled")
			return
		}
		slog.ErrorContext(ctx, "failed to cancel notification",
			slog.String("notification_id", id),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "cancel_error", "failed to cancel notification")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) HandleCancelAll(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.scheduler.CancelAll(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to cancel notifications",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "cancel_error", "failed to cancel notifications")
		return
	}

	c.Status(http.StatusNoContent)
}
