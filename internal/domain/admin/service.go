package admin

import (
	"context"
	"fmt"
	"log"
	"strings"

	"worktide/internal/domain/user"
)

type Service struct {
	users    UserRepository
	tasks    TaskService
	messages Messenger
	notifs   NotificationCounter
	presence Presence
}

func NewService(users UserRepository, tasks TaskService, messages Messenger, notifs NotificationCounter, presence Presence) *Service {
	return &Service{
		users:    users,
		tasks:    tasks,
		messages: messages,
		notifs:   notifs,
		presence: presence,
	}
}

// -------------------- Statistics --------------------

func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	byRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	byStatus, err := s.tasks.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	messages, err := s.messages.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}
	notifs, err := s.notifs.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count notifications: %w", err)
	}

	stats := &Stats{
		UsersByRole:   make(map[string]int64, len(byRole)),
		TasksByStatus: make(map[string]int64, len(byStatus)),
		Messages:      messages,
		Notifications: notifs,
	}
	for role, n := range byRole {
		stats.UsersByRole[string(role)] = n
	}
	for status, n := range byStatus {
		stats.TasksByStatus[string(status)] = n
	}
	if s.presence != nil {
		stats.Online = s.presence.Count()
	}
	return stats, nil
}

// -------------------- Users --------------------

func (s *Service) GetUsers(ctx context.Context, role string, limit, offset int) (*UserListResponse, error) {
	r := user.Role(role)
	if role != "" && !r.Valid() {
		return nil, ErrInvalidRole
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	users, total, err := s.users.List(ctx, r, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]AdminUser, 0, len(users))
	for _, u := range users {
		out = append(out, AdminUser{Public: u.Public(), Email: u.Email, IsBanned: u.IsBanned})
	}
	return &UserListResponse{Users: out, Total: total}, nil
}

// BanUser suspends the account, drops its live connection and tells the
// user through a system message.
func (s *Service) BanUser(ctx context.Context, userID int64, reason string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.Role == user.RoleAdmin {
		return ErrCannotBanAdmin
	}
	if u.IsBanned {
		return ErrAlreadyBanned
	}
	if err := s.users.SetBanned(ctx, userID, true); err != nil {
		return err
	}
	if s.presence != nil && s.presence.Kick(userID) {
		log.Printf("admin_ban_disconnected user_id=%d", userID)
	}

	text := "Your account has been suspended by a moderator."
	if reason = strings.TrimSpace(reason); reason != "" {
		text += " Reason: " + reason
	}
	s.systemMessage(ctx, userID, text)
	return nil
}

func (s *Service) UnbanUser(ctx context.Context, userID int64) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !u.IsBanned {
		return ErrNotBanned
	}
	if err := s.users.SetBanned(ctx, userID, false); err != nil {
		return err
	}
	s.systemMessage(ctx, userID, "Your account has been restored.")
	return nil
}

func (s *Service) systemMessage(ctx context.Context, userID int64, text string) {
	if _, err := s.messages.SendSystem(ctx, userID, text); err != nil {
		log.Printf("admin_system_message_error user_id=%d error=%q", userID, err)
	}
}

// -------------------- Tasks --------------------

func (s *Service) DeleteTask(ctx context.Context, taskID int64) error {
	return s.tasks.DeleteAny(ctx, taskID)
}
