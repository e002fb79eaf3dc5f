package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// TokenIssuer is implemented by the jwt service
type TokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
}

type Service struct {
	repo   Repository
	tokens TokenIssuer
}

func NewService(repo Repository, tokens TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if req.Role != RoleClient && req.Role != RoleFreelancer {
		return nil, ErrInvalidRole
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         req.Role,
		Name:         strings.TrimSpace(req.Name),
		Skills:       []string{},
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return s.issue(u)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := CheckPassword(req.Password, u.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}
	if u.IsBanned {
		return nil, ErrAccountBanned
	}
	return s.issue(u)
}

func (s *Service) issue(u *User) (*AuthResponse, error) {
	token, err := s.tokens.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResponse{Token: token, User: u}, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) IsBanned(ctx context.Context, id int64) (bool, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return u.IsBanned, nil
}

// GetPublicProfiles is used by chat to decorate conversation partners.
func (s *Service) GetPublicProfiles(ctx context.Context, ids []int64) (map[int64]Public, error) {
	users, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]Public, len(users))
	for id, u := range users {
		out[id] = u.Public()
	}
	return out, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id int64, req UpdateProfileRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		u.AvatarURL = *req.AvatarURL
	}
	if req.Skills != nil {
		u.Skills = NormalizeSkills(req.Skills)
	}
	if req.HourlyRate != nil {
		u.HourlyRate = *req.HourlyRate
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ListFreelancers returns active freelancers, optionally only those with skill.
func (s *Service) ListFreelancers(ctx context.Context, skill string) ([]*User, error) {
	all, err := s.repo.ListFreelancers(ctx)
	if err != nil {
		return nil, err
	}
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return all, nil
	}
	out := make([]*User, 0, len(all))
	for _, u := range all {
		if u.HasSkill(skill) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *Service) IncrementCompletedJobs(ctx context.Context, id int64) error {
	return s.repo.IncrementCompletedJobs(ctx, id)
}

func (s *Service) UpdateRating(ctx context.Context, id int64, avg float64, count int) error {
	return s.repo.UpdateRating(ctx, id, avg, count)
}
