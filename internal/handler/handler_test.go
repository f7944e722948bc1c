package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/infra/cache"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/mutex"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/service/refresh"
)

type fakeRefresher struct {
	mu       sync.Mutex
	triggers []domain.LogTrigger
	result   *refresh.Result
	err      error
	ctxErr   error
}

func (f *fakeRefresher) Refresh(ctx context.Context, trigger domain.LogTrigger) (*refresh.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggers = append(f.triggers, trigger)
	f.ctxErr = ctx.Err()
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &refresh.Result{RunID: "run-1", Trigger: trigger}, nil
}

type fakeAppletStore struct {
	saved   []cache.AppletSnapshot
	removed []string
	err     error
}

func (f *fakeAppletStore) Save(_ context.Context, snapshot cache.AppletSnapshot) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, snapshot)
	return nil
}

func (f *fakeAppletStore) Remove(_ context.Context, appletID string) error {
	f.removed = append(f.removed, appletID)
	return f.err
}

type testEnv struct {
	router    *gin.Engine
	refresher *fakeRefresher
	scheduler *domain.MockNotificationScheduler
	progress  *domain.MockProgressRepository
	store     *fakeAppletStore
	gate      *mutex.Gate
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)

	env := &testEnv{
		router:    gin.New(),
		refresher: &fakeRefresher{},
		scheduler: domain.NewMockNotificationScheduler(ctrl),
		progress:  domain.NewMockProgressRepository(ctrl),
		store:     &fakeAppletStore{},
		gate:      mutex.NewGate("auto-completion"),
	}

	notificationHandler := NewNotificationHandler(env.refresher, env.scheduler)
	notificationHandler.now = func() time.Time { return time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC) }

	RegisterRoutes(env.router, Handlers{
		Notification: notificationHandler,
		Progress:     NewProgressHandler(env.progress, env.gate, env.refresher),
		Applet:       NewAppletHandler(env.store, env.refresher),
	})
	return env
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func scheduledFixture() []domain.NotificationDescriber {
	return []domain.NotificationDescriber{
		{ID: "n-1", Title: "Mood", Body: "Just a kindly reminder", Kind: domain.NotificationKindRegular, TriggerAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)},
		{ID: "n-2", Title: "Mood", Kind: domain.NotificationKindReminder, TriggerAt: time.Date(2026, 3, 11, 18, 0, 0, 0, time.UTC)},
	}
}

func TestHandleRefresh(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		refresherErr    error
		result          *refresh.Result
		expectedStatus  int
		expectedTrigger domain.LogTrigger
	}{
		{
			name:            "explicit trigger",
			body:            `{"trigger":"app-foreground"}`,
			expectedStatus:  http.StatusOK,
			expectedTrigger: domain.LogTriggerAppForeground,
		},
		{
			name:            "empty body defaults to manual",
			expectedStatus:  http.StatusOK,
			expectedTrigger: domain.LogTriggerManual,
		},
		{
			name:           "unknown trigger",
			body:           `{"trigger":"reboot"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:            "skipped refresh",
			body:            `{"trigger":"periodic"}`,
			result:          &refresh.Result{Skipped: true, SkipReason: refresh.SkipReasonRefreshInProgress},
			expectedStatus:  http.StatusAccepted,
			expectedTrigger: domain.LogTriggerPeriodic,
		},
		{
			name:            "refresh failure",
			body:            `{"trigger":"periodic"}`,
			refresherErr:    errors.New("cache unavailable"),
			expectedStatus:  http.StatusInternalServerError,
			expectedTrigger: domain.LogTriggerPeriodic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.refresher.err = tt.refresherErr
			env.refresher.result = tt.result

			w := env.do(http.MethodPost, "/api/v1/notifications/refresh", tt.body)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedTrigger == "" {
				if len(env.refresher.triggers) != 0 {
					t.Error("refresh should not run for an invalid request")
				}
				return
			}
			if len(env.refresher.triggers) != 1 || env.refresher.triggers[0] != tt.expectedTrigger {
				t.Errorf("unexpected triggers %v", env.refresher.triggers)
			}
		})
	}
}

func TestHandleRefreshDetachesFromRequest(t *testing.T) {
	env := newTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/refresh", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if env.refresher.ctxErr != nil {
		t.Errorf("refresh context should not inherit request cancellation, got %v", env.refresher.ctxErr)
	}
}

func TestHandleList(t *testing.T) {
	env := newTestEnv(t)
	env.scheduler.EXPECT().ListScheduled(gomock.Any()).Return(scheduledFixture(), nil)

	w := env.do(http.MethodGet, "/api/v1/notifications", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp listResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 2 || resp.Notifications[0].ID != "n-1" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestHandleGet(t *testing.T) {
	env := newTestEnv(t)
	env.scheduler.EXPECT().ListScheduled(gomock.Any()).Return(scheduledFixture(), nil).Times(2)

	if w := env.do(http.MethodGet, "/api/v1/notifications/n-2", ""); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w := env.do(http.MethodGet, "/api/v1/notifications/unknown", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestHandleCalendar(t *testing.T) {
	env := newTestEnv(t)
	env.scheduler.EXPECT().ListScheduled(gomock.Any()).Return(scheduledFixture(), nil)

	w := env.do(http.MethodGet, "/api/v1/notifications/calendar.ics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("unexpected content type %q", ct)
	}

	body := w.Body.String()
	if strings.Count(body, "BEGIN:VEVENT") != 2 {
		t.Errorf("expected 2 events in calendar:\n%s", body)
	}
	for _, want := range []string{"UID:n-1", "DTSTART:20260310T090000Z", "SUMMARY:Mood", "CATEGORIES:reminder"} {
		if !strings.Contains(body, want) {
			t.Errorf("calendar missing %q", want)
		}
	}
}

func TestHandleCancel(t *testing.T) {
	env := newTestEnv(t)

	env.scheduler.EXPECT().CancelOne(gomock.Any(), "n-1").Return(nil)
	env.scheduler.EXPECT().CancelOne(gomock.Any(), "gone").Return(fmt.Errorf("%w: gone", domain.ErrNotificationMissing))
	env.scheduler.EXPECT().CancelAll(gomock.Any()).Return(nil)

	if w := env.do(http.MethodDelete, "/api/v1/notifications/n-1", ""); w.Code != http.StatusNoContent {
		t.Errorf("cancel one: expected 204, got %d", w.Code)
	}
	if w := env.do(http.MethodDelete, "/api/v1/notifications/gone", ""); w.Code != http.StatusNotFound {
		t.Errorf("cancel missing: expected 404, got %d", w.Code)
	}
	if w := env.do(http.MethodDelete, "/api/v1/notifications", ""); w.Code != http.StatusNoContent {
		t.Errorf("cancel all: expected 204, got %d", w.Code)
	}
}

func TestHandleSaveProgress(t *testing.T) {
	t.Run("completion triggers refresh", func(t *testing.T) {
		env := newTestEnv(t)
		env.progress.EXPECT().SaveProgress(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, p domain.Progress) error {
				if !env.gate.IsBusy() {
					t.Error("progress must be saved under the auto-completion gate")
				}
				if p.EndedAt == nil || p.EventID != "event-1" {
					t.Errorf("unexpected progress %+v", p)
				}
				return nil
			})

		body := `{"entity_id":"activity-1","event_id":"event-1","started_at":"2026-03-10T09:00:00Z","ended_at":"2026-03-10T09:05:00Z"}`
		w := env.do(http.MethodPost, "/api/v1/progress", body)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if env.gate.IsBusy() {
			t.Error("gate must be released")
		}
		if len(env.refresher.triggers) != 1 || env.refresher.triggers[0] != domain.LogTriggerEntityCompleted {
			t.Errorf("unexpected triggers %v", env.refresher.triggers)
		}
	})

	t.Run("started progress does not refresh", func(t *testing.T) {
		env := newTestEnv(t)
		env.progress.EXPECT().SaveProgress(gomock.Any(), gomock.Any()).Return(nil)

		body := `{"entity_id":"activity-1","event_id":"event-1","started_at":"2026-03-10T09:00:00Z"}`
		if w := env.do(http.MethodPost, "/api/v1/progress", body); w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if len(env.refresher.triggers) != 0 {
			t.Errorf("unexpected refresh %v", env.refresher.triggers)
		}
	})

	t.Run("gate busy", func(t *testing.T) {
		env := newTestEnv(t)
		env.gate.TryAcquire()
		defer env.gate.Release()

		body := `{"entity_id":"activity-1","event_id":"event-1","started_at":"2026-03-10T09:00:00Z"}`
		if w := env.do(http.MethodPost, "/api/v1/progress", body); w.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", w.Code)
		}
	})

	t.Run("validation", func(t *testing.T) {
		env := newTestEnv(t)

		bodies := []string{
			`{"event_id":"event-1","started_at":"2026-03-10T09:00:00Z"}`,
			`{"entity_id":"a","event_id":"e","started_at":"2026-03-10T09:00:00Z","ended_at":"2026-03-10T08:00:00Z"}`,
			`not json`,
		}
		for _, body := range bodies {
			if w := env.do(http.MethodPost, "/api/v1/progress", body); w.Code != http.StatusBadRequest {
				t.Errorf("body %s: expected 400, got %d", body, w.Code)
			}
		}
	})
}

func TestHandleAppletPut(t *testing.T) {
	body := `{"applet":{"displayName":"Wellbeing"},"details":{"activities":[{"id":"activity-1","name":"Mood"}]},"events":[]}`

	t.Run("stores and refreshes", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(http.MethodPut, "/api/v1/applets/applet-1", body)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if len(env.store.saved) != 1 || env.store.saved[0].Applet.ID != "applet-1" {
			t.Errorf("unexpected saved snapshots %+v", env.store.saved)
		}
		if len(env.refresher.triggers) != 1 || env.refresher.triggers[0] != domain.LogTriggerAppletsRefresh {
			t.Errorf("unexpected triggers %v", env.refresher.triggers)
		}
	})

	t.Run("mismatched id", func(t *testing.T) {
		env := newTestEnv(t)
		mismatched := `{"applet":{"id":"other"},"details":{},"events":[]}`
		if w := env.do(http.MethodPut, "/api/v1/applets/applet-1", mismatched); w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("invalid snapshot", func(t *testing.T) {
		env := newTestEnv(t)
		env.store.err = fmt.Errorf("event e: %w", domain.ErrUnknownPeriodicity)
		if w := env.do(http.MethodPut, "/api/v1/applets/applet-1", body); w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
		if len(env.refresher.triggers) != 0 {
			t.Error("refresh should not run when caching fails")
		}
	})
}

func TestHandleAppletDelete(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(http.MethodDelete, "/api/v1/applets/applet-1", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(env.store.removed) != 1 || env.store.removed[0] != "applet-1" {
		t.Errorf("unexpected removals %v", env.store.removed)
	}
}
