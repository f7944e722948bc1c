//go:build !gcloud

package taskqueue

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
)

func TestPrimindRegisterNotification(t *testing.T) {
	triggerAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	task := NewNotificationTask(domain.NotificationDescriber{
		ID:        "event-1_self_20260310_regular_1",
		Title:     "Mood",
		Body:      "Just a kindly reminder to complete the activity",
		Kind:      domain.NotificationKindRegular,
		TriggerAt: triggerAt,
	})

	var received PrimindTaskRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tasks/notifications" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(PrimindTaskResponse{
			Name:         "tasks/" + received.Task.Name,
			ScheduleTime: received.Task.ScheduleTime,
		})
	}))
	defer server.Close()

	client := NewPrimindTasksClient(server.URL, "notifications", 1)

	resp, err := client.RegisterNotification(context.Background(), task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if received.Task.Name != task.TaskID {
		t.Errorf("task name: got %q, want %q", received.Task.Name, task.TaskID)
	}
	if received.Task.ScheduleTime != "2026-03-10T09:00:00Z" {
		t.Errorf("schedule time: got %q", received.Task.ScheduleTime)
	}

	body, err := base64.StdEncoding.DecodeString(received.Task.HTTPRequest.Body)
	if err != nil {
		t.Fatalf("body is not base64: %v", err)
	}
	var payload NotificationTask
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if payload.NotificationID != "event-1_self_20260310_regular_1" || payload.Title != "Mood" {
		t.Errorf("unexpected payload %+v", payload)
	}
	if !resp.ScheduleTime.Equal(triggerAt) {
		t.Errorf("response schedule time: got %v", resp.ScheduleTime)
	}
}

func TestPrimindRegisterNotificationRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(PrimindTaskResponse{Name: "ok"})
	}))
	defer server.Close()

	client := NewPrimindTasksClient(server.URL, "", 3)

	if _, err := client.RegisterNotification(context.Background(), &NotificationTask{TaskID: "t"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestPrimindDeleteTask(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		expectError bool
	}{
		{name: "deleted", status: http.StatusNoContent},
		{name: "already processed", status: http.StatusNotFound},
		{name: "server error", status: http.StatusInternalServerError, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodDelete || r.URL.Path != "/tasks/task-1" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewPrimindTasksClient(server.URL, "default", 1)

			err := client.DeleteTask(context.Background(), "task-1")
			if tt.expectError && err == nil {
				t.Error("expected error")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestTaskIDChangesWithTrigger(t *testing.T) {
	n := domain.NotificationDescriber{ID: "event:1", TriggerAt: time.Unix(1773133200, 0)}
	moved := n
	moved.TriggerAt = n.TriggerAt.Add(time.Minute)

	if TaskID(n) == TaskID(moved) {
		t.Error("task id should change when the trigger moves")
	}
	if TaskID(n) != "event-1-1773133200" {
		t.Errorf("unexpected task id %q", TaskID(n))
	}
}
