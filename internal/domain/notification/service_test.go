package notification

import (
	"bytes"
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worktide/internal/realtime"
	"worktide/internal/testutil"
)

func setupService(t *testing.T) (*Service, *realtime.Hub, Repository) {
	t.Helper()
	db := testutil.NewDB(t, &Notification{})
	repo := NewRepository(db)
	hub := realtime.NewHub()
	return NewService(repo, hub), hub, repo
}

func TestNotify_PersistsAndPushesWhenOnline(t *testing.T) {
	svc, hub, _ := setupService(t)
	ctx := context.Background()
	client := realtime.NewClient(2, nil)
	hub.Register(client)

	n, err := svc.Notify(ctx, 2, TypeApplicationReceived, "New application", "Bob applied", 10)
	require.NoError(t, err)
	assert.NotZero(t, n.ID)

	select {
	case raw := <-client.Outbox():
		assert.Contains(t, string(raw), `"type":"notification"`)
		assert.Contains(t, string(raw), `"title":"New application"`)
	case <-time.After(time.Second):
		t.Fatal("expected live push")
	}
}

func TestNotify_OfflineStillPersisted(t *testing.T) {
	svc, hub, _ := setupService(t)
	ctx := context.Background()

	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	_, err := svc.Notify(ctx, 5, TypeRequestReceived, "Invitation", "", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), hub.Dropped())
	assert.Empty(t, logs.String(), "an offline recipient is counted, not logged")

	items, unread, total, err := svc.List(ctx, 5, 20, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), unread)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, TypeRequestReceived, items[0].Type)
}

func TestNotify_Validation(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Notify(ctx, 0, TypeSystem, "x", "", 0)
	assert.ErrorIs(t, err, ErrInvalidRecipient)

	_, err = svc.Notify(ctx, 1, TypeSystem, "  ", "", 0)
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestList_NewestFirstWithPaging(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	for _, title := range []string{"one", "two", "three"} {
		_, err := svc.Notify(ctx, 1, TypeSystem, title, "", 0)
		require.NoError(t, err)
	}

	items, _, total, err := svc.List(ctx, 1, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	assert.Equal(t, "three", items[0].Title)
	assert.Equal(t, "two", items[1].Title)

	items, _, _, err = svc.List(ctx, 1, 2, 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "one", items[0].Title)
}

func TestMarkAsRead_IdempotentAndOwnerScoped(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	n, err := svc.Notify(ctx, 1, TypeSystem, "hello", "", 0)
	require.NoError(t, err)

	first, err := svc.MarkAsRead(ctx, 1, n.ID)
	require.NoError(t, err)
	assert.True(t, first.IsRead)
	require.NotNil(t, first.ReadAt)

	second, err := svc.MarkAsRead(ctx, 1, n.ID)
	require.NoError(t, err)
	assert.True(t, second.IsRead)

	count, err := svc.GetUnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = svc.MarkAsRead(ctx, 2, n.ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestMarkAllAsRead(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := svc.Notify(ctx, 1, TypeSystem, "n", "", 0)
		require.NoError(t, err)
	}
	_, err := svc.Notify(ctx, 2, TypeSystem, "other", "", 0)
	require.NoError(t, err)

	updated, err := svc.MarkAllAsRead(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)

	unread, err := svc.GetUnreadCount(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestDelete_OwnerScoped(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	n, err := svc.Notify(ctx, 1, TypeSystem, "mine", "", 0)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, 2, n.ID), ErrNotificationNotFound)
	require.NoError(t, svc.Delete(ctx, 1, n.ID))
	assert.ErrorIs(t, svc.Delete(ctx, 1, n.ID), ErrNotificationNotFound)
}

func TestCleanup_RemovesOnlyExpired(t *testing.T) {
	db := testutil.NewDB(t, &Notification{})
	repo := NewRepository(db)
	ctx := context.Background()

	old := &Notification{UserID: 1, Type: TypeSystem, Title: "old", CreatedAt: time.Now().Add(-100 * 24 * time.Hour)}
	fresh := &Notification{UserID: 1, Type: TypeSystem, Title: "fresh"}
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Create(ctx, fresh))

	deleted, err := NewCleanupService(repo).CleanupOldNotifications(ctx, DefaultCleanupConfig().Retention)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	items, _, err := repo.ListByUser(ctx, 1, 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "fresh", items[0].Title)
}

func TestScheduleCleanup_StopsOnCancel(t *testing.T) {
	db := testutil.NewDB(t, &Notification{})
	svc := NewCleanupService(NewRepository(db))

	ctx, cancel := context.WithCancel(context.Background())
	stop := svc.ScheduleCleanup(ctx, CleanupConfig{Retention: time.Hour, Interval: 10 * time.Millisecond})
	require.NotNil(t, stop)
	time.Sleep(30 * time.Millisecond)
	cancel()
}
