package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/infra/cache"
)

// AppletStore persists synced applet snapshots into the local cache.
type AppletStore interface {
	Save(ctx context.Context, snapshot cache.AppletSnapshot) error
	Remove(ctx context.Context, appletID string) error
}

type AppletHandler struct {
	store     AppletStore
	refresher Refresher
}

func NewAppletHandler(store AppletStore, refresher Refresher) *AppletHandler {
	return &AppletHandler{
		store:     store,
		refresher: refresher,
	}
}

func (h *AppletHandler) HandlePut(c *gin.Context) {
	ctx := c.Request.Context()
	appletID := c.Param("id")

	var snapshot cache.AppletSnapshot
	if err := c.ShouldBindJSON(&snapshot); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if snapshot.Applet.ID == "" {
		snapshot.Applet.ID = appletID
	}
	if snapshot.Applet.ID != appletID {
		respondError(c, http.StatusBadRequest, "validation_error", "applet id does not match the path")
		return
	}

	if err := h.store.Save(ctx, snapshot); err != nil {
		if isInvalidSnapshot(err) {
			respondError(c, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		slog.ErrorContext(ctx, "failed to cache applet",
			slog.String("applet_id", appletID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "cache_error", "failed to cache applet")
		return
	}

	h.refreshAndRespond(c, http.StatusOK)
}

func (h *AppletHandler) HandleDelete(c *gin.Context) {
	ctx := c.Request.Context()
	appletID := c.Param("id")

	if err := h.store.Remove(ctx, appletID); err != nil {
		slog.ErrorContext(ctx, "failed to remove cached applet",
			slog.String("applet_id", appletID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "cache_error", "failed to remove applet")
		return
	}

	h.refreshAndRespond(c, http.StatusOK)
}

func (h *AppletHandler) refreshAndRespond(c *gin.Context, status int) {
	ctx := c.Request.Context()

	result, err := h.refresher.Refresh(context.WithoutCancel(ctx), domain.LogTriggerAppletsRefresh)
	if err != nil {
		slog.ErrorContext(ctx, "refresh after applet sync failed",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "refresh_error", "applet cached but refresh failed")
		return
	}
	c.JSON(status, result)
}

func isInvalidSnapshot(err error) bool {
	return errors.Is(err, cache.ErrInvalidCacheData) ||
		errors.Is(err, cache.ErrAppletIDMissing) ||
		errors.Is(err, domain.ErrUnknownPeriodicity) ||
		errors.Is(err, domain.ErrUnknownTriggerType) ||
		errors.Is(err, domain.ErrInvalidTimeOfDay)
}
