package notification

import (
	"context"
	"strings"
	"time"

	"worktide/internal/realtime"
)

// Pusher delivers a live event to a user if they are connected.
type Pusher interface {
	Push(userID int64, event realtime.Event) bool
}

type Service struct {
	repo   Repository
	pusher Pusher
	now    func() time.Time
}

func NewService(repo Repository, pusher Pusher) *Service {
	return &Service{repo: repo, pusher: pusher, now: time.Now}
}

// Notify persists the notification and then pushes it to the recipient's
// live connection. A failed push is not an error; the row is already stored.
func (s *Service) Notify(ctx context.Context, userID int64, typ Type, title, message string, relatedID int64) (*Notification, error) {
	if userID <= 0 {
		return nil, ErrInvalidRecipient
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	n := &Notification{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	if s.pusher != nil {
		s.pusher.Push(userID, realtime.Event{Type: realtime.EventNotification, Payload: n})
	}
	return n, nil
}

// List returns a page of notifications newest first, the unread count and the total.
func (s *Service) List(ctx context.Context, userID int64, limit, offset int) ([]*Notification, int64, int64, error) {
	items, total, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, 0, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, 0, err
	}
	return items, unread, total, nil
}

func (s *Service) GetUnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkAsRead is idempotent. Notifications of other users are reported as not found.
func (s *Service) MarkAsRead(ctx context.Context, userID, id int64) (*Notification, error) {
	n, err := s.repo.GetForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}

	at := s.now()
	if err := s.repo.MarkAsRead(ctx, userID, id, at); err != nil {
		return nil, err
	}
	n.IsRead = true
	n.ReadAt = &at
	return n, nil
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, userID, s.now())
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	deleted, err := s.repo.DeleteForUser(ctx, userID, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
