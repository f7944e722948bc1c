//go:build !gcloud

package taskqueue

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

var _ TaskQueue = (*PrimindTasksClient)(nil)

type PrimindTasksClient struct {
	baseURL    string
	queueName  string
	httpClient *http.Client
	maxRetries int
}

func NewPrimindTasksClient(baseURL, queueName string, maxRetries int) *PrimindTasksClient {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &PrimindTasksClient{
		baseURL:   baseURL,
		queueName: queueName,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: maxRetries,
	}
}

func (c *PrimindTasksClient) queueURL() string {
	if c.queueName != "" && c.queueName != "default" {
		return fmt.Sprintf("%s/tasks/%s", c.baseURL, c.queueName)
	}
	return fmt.Sprintf("%s/tasks", c.baseURL)
}

func (c *PrimindTasksClient) RegisterNotification(ctx context.Context, task *NotificationTask) (*TaskResponse, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification task: %w", err)
	}

	primindReq := PrimindTaskRequest{
		Task: PrimindTask{
			Name: task.TaskID,
			HTTPRequest: PrimindHTTPRequest{
				Body: base64.StdEncoding.EncodeToString(payload),
				Headers: map[string]string{
					"Content-Type": "application/json",
				},
			},
		},
	}

	if !task.ScheduleAt.IsZero() {
		primindReq.Task.ScheduleTime = task.ScheduleAt.Format(time.RFC3339)
	}

	reqBody, err := json.Marshal(primindReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal primind request: %w", err)
	}

	var resp *TaskResponse
	err = withRetry(ctx, c.maxRetries, "register", task.TaskID, func() error {
		var err error
		resp, err = c.doRegister(ctx, reqBody, task.TaskID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register task after %d retries: %w", c.maxRetries, err)
	}
	return resp, nil
}

func (c *PrimindTasksClient) doRegister(ctx context.Context, reqBody []byte, taskID string) (*TaskResponse, error) {
	url := c.queueURL()
	slog.Debug("registering notification to Primind Tasks",
		slog.String("url", url),
		slog.String("task_id", taskID),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("failed to send request to Primind Tasks",
			slog.String("task_id", taskID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		slog.Warn("unexpected status code from Primind Tasks",
			slog.String("task_id", taskID),
			slog.Int("status_code", resp.StatusCode),
		)
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var primindResp PrimindTaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&primindResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	scheduleTime, _ := time.Parse(time.RFC3339, primindResp.ScheduleTime)
	createTime, _ := time.Parse(time.RFC3339, primindResp.CreateTime)

	slog.Debug("notification task registered to Primind Tasks",
		slog.String("task_name", primindResp.Name),
		slog.String("task_id", taskID),
	)

	return &TaskResponse{
		Name:         primindResp.Name,
		ScheduleTime: scheduleTime,
		CreateTime:   createTime,
	}, nil
}

func (c *PrimindTasksClient) DeleteTask(ctx context.Context, taskID string) error {
	err := withRetry(ctx, c.maxRetries, "delete", taskID, func() error {
		return c.doDelete(ctx, taskID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete task after %d retries: %w", c.maxRetries, err)
	}
	return nil
}

func (c *PrimindTasksClient) doDelete(ctx context.Context, taskID string) error {
	url := fmt.Sprintf("%s/%s", c.queueURL(), taskID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		slog.Debug("task deleted from Primind Tasks", slog.String("task_id", taskID))
		return nil
	case http.StatusNotFound:
		slog.Info("task not found in Primind Tasks (may have been processed)",
			slog.String("task_id", taskID),
		)
		return nil
	default:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}
