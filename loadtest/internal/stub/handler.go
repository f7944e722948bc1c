package stub

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler imitates the Primind Tasks API so the scheduler can be load tested
// without a real task queue.
type Handler struct {
	storage *TaskStorage
	now     func() time.Time
}

func NewHandler(storage *TaskStorage) *Handler {
	return &Handler{storage: storage, now: time.Now}
}

func (h *Handler) Register(r gin.IRouter) {
	r.POST("/tasks", h.HandleCreateTask)
	r.POST("/tasks/:queue", h.HandleCreateTask)
	// One segment after /tasks is a task in the default queue.
	r.DELETE("/tasks/:queue", h.HandleDeleteDefaultTask)
	r.DELETE("/tasks/:queue/:task", h.HandleDeleteTask)

	stub := r.Group("/stub/queues/:queue")
	stub.GET("/tasks", h.HandleListTasks)
	stub.POST("/reset", h.HandleReset)
}

func queueParam(c *gin.Context) string {
	if q := c.Param("queue"); q != "" {
		return q
	}
	return DefaultQueue
}

// POST /tasks/:queue
func (h *Handler) HandleCreateTask(c *gin.Context) {
	queue := queueParam(c)

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := base64.StdEncoding.DecodeString(req.Task.HTTPRequest.Body)
	if err != nil || !json.Valid(payload) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "httpRequest.body must be base64 encoded JSON"})
		return
	}

	now := h.now().UTC()
	scheduleTime := now
	if req.Task.ScheduleTime != "" {
		parsed, err := time.Parse(time.RFC3339, req.Task.ScheduleTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scheduleTime: " + req.Task.ScheduleTime})
			return
		}
		scheduleTime = parsed.UTC()
	}

	name := req.Task.Name
	if name == "" {
		name = uuid.NewString()
	}

	h.storage.Put(StoredTask{
		Name:         name,
		Queue:        queue,
		ScheduleTime: scheduleTime,
		CreateTime:   now,
		Payload:      payload,
	})

	slog.Debug("task registered",
		slog.String("queue", queue),
		slog.String("task", name),
		slog.Time("schedule_time", scheduleTime),
	)

	c.JSON(http.StatusCreated, TaskResponse{
		Name:         name,
		ScheduleTime: scheduleTime.Format(time.RFC3339),
		CreateTime:   now.Format(time.RFC3339),
	})
}

// DELETE /tasks/:task
func (h *Handler) HandleDeleteDefaultTask(c *gin.Context) {
	h.deleteTask(c, DefaultQueue, c.Param("queue"))
}

// DELETE /tasks/:queue/:task
func (h *Handler) HandleDeleteTask(c *gin.Context) {
	h.deleteTask(c, queueParam(c), c.Param("task"))
}

func (h *Handler) deleteTask(c *gin.Context, queue, name string) {
	if !h.storage.Delete(queue, name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	slog.Debug("task deleted",
		slog.String("queue", queue),
		slog.String("task", name),
	)
	c.Status(http.StatusNoContent)
}

// GET /stub/queues/:queue/tasks
func (h *Handler) HandleListTasks(c *gin.Context) {
	c.JSON(http.StatusOK, h.storage.List(queueParam(c)))
}

// POST /stub/queues/:queue/reset
func (h *Handler) HandleReset(c *gin.Context) {
	queue := queueParam(c)
	h.storage.Reset(queue)

	slog.Info("queue reset", slog.String("queue", queue))

	c.JSON(http.StatusOK, gin.H{
		"status": "reset complete",
		"queue":  queue,
	})
}
