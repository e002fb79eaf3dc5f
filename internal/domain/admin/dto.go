package admin

import "worktide/internal/domain/user"

type Stats struct {
	UsersByRole   map[string]int64 `json:"users_by_role"`
	TasksByStatus map[string]int64 `json:"tasks_by_status"`
	Messages      int64            `json:"messages"`
	Notifications int64            `json:"notifications"`
	Online        int              `json:"online"`
}

type BanRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// AdminUser is the moderation view of an account; unlike user.Public it
// carries email and ban state.
type AdminUser struct {
	user.Public
	Email    string `json:"email"`
	IsBanned bool   `json:"is_banned"`
}

type UserListResponse struct {
	Users []AdminUser `json:"users"`
	Total int64       `json:"total"`
}
