package stub

import (
	"encoding/json"
	"time"
)

// TaskRequest mirrors the Primind Tasks registration payload.
type TaskRequest struct {
	Task TaskSpec `json:"task"`
}

type TaskSpec struct {
	Name         string          `json:"name,omitempty"`
	HTTPRequest  TaskHTTPRequest `json:"httpRequest"`
	ScheduleTime string          `json:"scheduleTime,omitempty"`
}

type TaskHTTPRequest struct {
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

type TaskResponse struct {
	Name         string `json:"name"`
	ScheduleTime string `json:"scheduleTime"`
	CreateTime   string `json:"createTime"`
}

// StoredTask is a registered task with its decoded notification payload.
type StoredTask struct {
	Name         string          `json:"name"`
	Queue        string          `json:"queue"`
	ScheduleTime time.Time       `json:"schedule_time"`
	CreateTime   time.Time       `json:"create_time"`
	Payload      json.RawMessage `json:"payload"`
}

type TasksResponse struct {
	Queue      string       `json:"queue"`
	Tasks      []StoredTask `json:"tasks"`
	Count      int          `json:"count"`
	Registered int          `json:"registered_total"`
	Deleted    int          `json:"deleted_total"`
}
