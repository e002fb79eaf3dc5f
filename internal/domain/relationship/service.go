package relationship

import (
	"context"

	"worktide/internal/domain/user"
)

type Users interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetPublicProfiles(ctx context.Context, ids []int64) (map[int64]user.Public, error)
}

// Service handles user blocking logic
type Service struct {
	repo  Repository
	users Users
}

func NewService(repo Repository, users Users) *Service {
	return &Service{repo: repo, users: users}
}

// Block blocks a user. Returns ErrCannotBlockSelf, user.ErrUserNotFound or ErrAlreadyBlocked.
func (s *Service) Block(ctx context.Context, blockerID, blockedID int64) error {
	if blockerID == blockedID {
		return ErrCannotBlockSelf
	}
	if _, err := s.users.GetByID(ctx, blockedID); err != nil {
		return err
	}
	return s.repo.Block(ctx, blockerID, blockedID)
}

func (s *Service) Unblock(ctx context.Context, blockerID, blockedID int64) error {
	return s.repo.Unblock(ctx, blockerID, blockedID)
}

// IsBlocked returns true if either user has blocked the other.
func (s *Service) IsBlocked(ctx context.Context, userA, userB int64) (bool, error) {
	return s.repo.IsBlocked(ctx, userA, userB)
}

// ListBlocked returns the users blocked by userID, most recent first.
func (s *Service) ListBlocked(ctx context.Context, userID int64) ([]BlockedUser, error) {
	rels, err := s.repo.ListBlocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(rels))
	for _, r := range rels {
		ids = append(ids, r.BlockedID)
	}
	profiles, err := s.users.GetPublicProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]BlockedUser, 0, len(rels))
	for _, r := range rels {
		p, ok := profiles[r.BlockedID]
		if !ok {
			p = user.Public{ID: r.BlockedID}
		}
		out = append(out, BlockedUser{User: p, BlockedAt: r.CreatedAt})
	}
	return out, nil
}
