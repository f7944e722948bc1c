package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/mutex"
)

type ProgressHandler struct {
	progress           domain.ProgressRepository
	autoCompletionGate *mutex.Gate
	refresher          Refresher
}

func NewProgressHandler(progress domain.ProgressRepository, autoCompletionGate *mutex.Gate, refresher Refresher) *ProgressHandler {
	return &ProgressHandler{
		progress:           progress,
		autoCompletionGate: autoCompletionGate,
		refresher:          refresher,
	}
}

type progressRequest struct {
	AppletID        string     `json:"applet_id"`
	EntityID        string     `json:"entity_id" binding:"required"`
	EventID         string     `json:"event_id" binding:"required"`
	TargetSubjectID *string    `json:"target_subject_id"`
	StartedAt       time.Time  `json:"started_at" binding:"required"`
	EndedAt         *time.Time `json:"ended_at"`
}

type progressResponse struct {
	Saved   bool            `json:"saved"`
	Refresh *refreshSummary `json:"refresh,omitempty"`
}

type refreshSummary struct {
	RunID      string `json:"run_id,omitempty"`
	Skipped    bool   `json:"skipped"`
	SkipReason string `json:"skip_reason,omitempty"`
	Scheduled  int    `json:"scheduled"`
}

// HandleSaveProgress stores a progress record while holding the
// auto-completion gate, then triggers a refresh once the gate is released.
func (h *ProgressHandler) HandleSaveProgress(c *gin.Context) {
	ctx := c.Request.Context()

	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if req.EndedAt != nil && req.EndedAt.Before(req.StartedAt) {
		respondError(c, http.StatusBadRequest, "validation_error", "ended_at must not be before started_at")
		return
	}

	if !h.autoCompletionGate.TryAcquire() {
		respondError(c, http.StatusConflict, "busy", "auto completion in progress")
		return
	}
	err := h.progress.SaveProgress(ctx, domain.Progress{
		AppletID:        req.AppletID,
		EntityID:        req.EntityID,
		EventID:         req.EventID,
		TargetSubjectID: req.TargetSubjectID,
		StartedAt:       req.StartedAt,
		EndedAt:         req.EndedAt,
	})
	h.autoCompletionGate.Release()

	if err != nil {
		slog.ErrorContext(ctx, "failed to save progress",
			slog.String("entity_id", req.EntityID),
			slog.String("event_id", req.EventID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "save_error", "failed to save progress")
		return
	}

	resp := progressResponse{Saved: true}
	if req.EndedAt != nil {
		result, err := h.refresher.Refresh(context.WithoutCancel(ctx), domain.LogTriggerEntityCompleted)
		if err != nil {
			slog.WarnContext(ctx, "refresh after completion failed",
				slog.String("event_id", req.EventID),
				slog.String("error", err.Error()),
			)
		} else {
			resp.Refresh = &refreshSummary{
				RunID:      result.RunID,
				Skipped:    result.Skipped,
				SkipReason: result.SkipReason,
				Scheduled:  result.Scheduled,
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}
