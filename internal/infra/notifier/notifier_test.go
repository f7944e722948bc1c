package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-notification-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/infra/taskqueue"
	"github.com/KasumiMercury/primind-notification-scheduling/internal/testutil"
)

var testNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func describer(id string, offset time.Duration) domain.NotificationDescriber {
	return domain.NotificationDescriber{
		ID:        id,
		Title:     "Mood",
		Kind:      domain.NotificationKindRegular,
		TriggerAt: testNow.Add(offset),
	}
}

func taskIDMatcher(d domain.NotificationDescriber) gomock.Matcher {
	want := taskqueue.TaskID(d)
	return gomock.Cond(func(x any) bool {
		task, ok := x.(*taskqueue.NotificationTask)
		return ok && task.TaskID == want
	})
}

func TestScheduleNotificationsRegistersPendingOnly(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	ctrl := gomock.NewController(t)
	queue := taskqueue.NewMockTaskQueue(ctrl)

	first := describer("first", time.Hour)
	second := describer("second", 2*time.Hour)
	past := describer("past", -time.Hour)

	queue.EXPECT().RegisterNotification(gomock.Any(), taskIDMatcher(first)).Return(&taskqueue.TaskResponse{}, nil)
	queue.EXPECT().RegisterNotification(gomock.Any(), taskIDMatcher(second)).Return(&taskqueue.TaskResponse{}, nil)

	n := NewNotifier(client, queue, WithClock(func() time.Time { return testNow }))

	if err := n.ScheduleNotifications(ctx, []domain.NotificationDescriber{second, past, first}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	scheduled, err := n.ListScheduled(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scheduled) != 2 || scheduled[0].ID != "first" || scheduled[1].ID != "second" {
		t.Errorf("unexpected scheduled list %+v", scheduled)
	}
}

func TestScheduleNotificationsSyncsDifference(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	ctrl := gomock.NewController(t)
	queue := taskqueue.NewMockTaskQueue(ctrl)

	a := describer("a", time.Hour)
	b := describer("b", 2*time.Hour)
	c := describer("c", 3*time.Hour)
	movedB := describer("b", 4*time.Hour)

	n := NewNotifier(client, queue, WithClock(func() time.Time { return testNow }))

	queue.EXPECT().RegisterNotification(gomock.Any(), gomock.Any()).Return(&taskqueue.TaskResponse{}, nil).Times(2)
	if err := n.ScheduleNotifications(ctx, []domain.NotificationDescriber{a, b}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	queue.EXPECT().DeleteTask(gomock.Any(), taskqueue.TaskID(b)).Return(nil)
	queue.EXPECT().RegisterNotification(gomock.Any(), taskIDMatcher(c)).Return(&taskqueue.TaskResponse{}, nil)
	queue.EXPECT().RegisterNotification(gomock.Any(), taskIDMatcher(movedB)).Return(&taskqueue.TaskResponse{}, nil)
	if err := n.ScheduleNotifications(ctx, []domain.NotificationDescriber{a, c, movedB}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	scheduled, err := n.ListScheduled(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"a", "c", "b"}
	if len(scheduled) != len(expected) {
		t.Fatalf("expected %d scheduled, got %d", len(expected), len(scheduled))
	}
	for i, id := range expected {
		if scheduled[i].ID != id {
			t.Errorf("[%d] got %q, want %q", i, scheduled[i].ID, id)
		}
	}
}

func TestScheduleNotificationsForgetsFiredTasks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	ctrl := gomock.NewController(t)
	queue := taskqueue.NewMockTaskQueue(ctrl)

	now := testNow
	n := NewNotifier(client, queue, WithClock(func() time.Time { return now }))

	early := describer("early", time.Hour)
	late := describer("late", 5*time.Hour)

	queue.EXPECT().RegisterNotification(gomock.Any(), gomock.Any()).Return(&taskqueue.TaskResponse{}, nil).Times(2)
	if err := n.ScheduleNotifications(ctx, []domain.NotificationDescriber{early, late}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// early has fired: no delete, no re-registration.
	now = testNow.Add(2 * time.Hour)
	if err := n.ScheduleNotifications(ctx, []domain.NotificationDescriber{early, late}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	scheduled, err := n.ListScheduled(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scheduled) != 1 || scheduled[0].ID != "late" {
		t.Errorf("unexpected scheduled list %+v", scheduled)
	}
}

func TestScheduleNotificationsAppliesLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	ctrl := gomock.NewController(t)
	queue := taskqueue.NewMockTaskQueue(ctrl)
	queue.EXPECT().RegisterNotification(gomock.Any(), gomock.Any()).Return(&taskqueue.TaskResponse{}, nil).Times(3)

	n := NewNotifier(client, queue, WithLimit(3), WithClock(func() time.Time { return testNow }))

	input := notificationsAt(testNow.Add(time.Hour), 6)
	if err := n.ScheduleNotifications(ctx, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	scheduled, err := n.ListScheduled(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scheduled) != 3 {
		t.Fatalf("expected 3 scheduled, got %d", len(scheduled))
	}
	var system int
	for _, s := range scheduled {
		if s.Kind == domain.NotificationKindSystemReschedule {
			system++
			if !s.TriggerAt.Equal(input[1].TriggerAt) {
				t.Errorf("system notification at %v, want %v", s.TriggerAt, input[1].TriggerAt)
			}
		}
	}
	if system != 1 {
		t.Errorf("expected one system notification, got %d", system)
	}
}

func TestScheduleNotificationsPartialFailure(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	ctrl := gomock.NewController(t)
	queue := taskqueue.NewMockTaskQueue(ctrl)

	ok := describer("ok", time.Hour)
	failing := describer("failing", 2*time.Hour)

	queue.EXPECT().RegisterNotification(gomock.Any(), taskIDMatcher(ok)).Return(&taskqueue.TaskResponse{}, nil)
	queue.EXPECT().RegisterNotification(gomock.Any(), taskIDMatcher(failing)).Return(nil, errors.New("queue unavailable"))

	n := NewNotifier(client, queue, WithClock(func() time.Time { return testNow }))

	err := n.ScheduleNotifications(ctx, []domain.NotificationDescriber{ok, failing})
	if !errors.Is(err, ErrSyncIncomplete) {
		t.Fatalf("expected ErrSyncIncomplete, got %v", err)
	}

	scheduled, err := n.ListScheduled(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scheduled) != 1 || scheduled[0].ID != "ok" {
		t.Errorf("only registered tasks belong in the registry, got %+v", scheduled)
	}
}

func TestCancel(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	ctrl := gomock.NewController(t)
	queue := taskqueue.NewMockTaskQueue(ctrl)

	a := describer("a", time.Hour)
	b := describer("b", 2*time.Hour)
	c := describer("c", 3*time.Hour)

	n := NewNotifier(client, queue, WithClock(func() time.Time { return testNow }))

	queue.EXPECT().RegisterNotification(gomock.Any(), gomock.Any()).Return(&taskqueue.TaskResponse{}, nil).Times(3)
	if err := n.ScheduleNotifications(ctx, []domain.NotificationDescriber{a, b, c}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	queue.EXPECT().DeleteTask(gomock.Any(), taskqueue.TaskID(b)).Return(nil)
	if err := n.CancelOne(ctx, "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := n.CancelOne(ctx, "b"); !errors.Is(err, domain.ErrNotificationMissing) {
		t.Errorf("expected ErrNotificationMissing, got %v", err)
	}

	queue.EXPECT().DeleteTask(gomock.Any(), taskqueue.TaskID(a)).Return(nil)
	queue.EXPECT().DeleteTask(gomock.Any(), taskqueue.TaskID(c)).Return(nil)
	if err := n.CancelAll(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	scheduled, err := n.ListScheduled(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scheduled) != 0 {
		t.Errorf("expected empty registry, got %+v", scheduled)
	}
}
