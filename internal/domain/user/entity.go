package user

import "time"

type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
	RoleAdmin      Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleClient || r == RoleFreelancer || r == RoleAdmin
}

// User is any marketplace account. Freelancer-only fields stay zero for
// clients and admins.
type User struct {
	ID            int64     `gorm:"column:id;primaryKey" json:"id"`
	Email         string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	PasswordHash  string    `gorm:"column:password_hash;not null" json:"-"`
	Role          Role      `gorm:"column:role;index;not null" json:"role"`
	Name          string    `gorm:"column:name" json:"name"`
	AvatarURL     string    `gorm:"column:avatar_url" json:"avatar_url,omitempty"`
	Bio           string    `gorm:"column:bio" json:"bio,omitempty"`
	Skills        []string  `gorm:"column:skills;serializer:json" json:"skills"`
	HourlyRate    float64   `gorm:"column:hourly_rate" json:"hourly_rate,omitempty"`
	Rating        float64   `gorm:"column:rating" json:"rating"`
	RatingCount   int       `gorm:"column:rating_count" json:"rating_count"`
	CompletedJobs int       `gorm:"column:completed_jobs" json:"completed_jobs"`
	IsBanned      bool      `gorm:"column:is_banned" json:"is_banned"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// HasSkill matches case-insensitively.
func (u *User) HasSkill(skill string) bool {
	for _, s := range u.Skills {
		if equalFold(s, skill) {
			return true
		}
	}
	return false
}

// Public is the profile other users may see.
type Public struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Role          Role     `json:"role"`
	AvatarURL     string   `json:"avatar_url,omitempty"`
	Bio           string   `json:"bio,omitempty"`
	Skills        []string `json:"skills"`
	HourlyRate    float64  `json:"hourly_rate,omitempty"`
	Rating        float64  `json:"rating"`
	RatingCount   int      `json:"rating_count"`
	CompletedJobs int      `json:"completed_jobs"`
}

func (u *User) Public() Public {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return Public{
		ID:            u.ID,
		Name:          u.Name,
		Role:          u.Role,
		AvatarURL:     u.AvatarURL,
		Bio:           u.Bio,
		Skills:        skills,
		HourlyRate:    u.HourlyRate,
		Rating:        u.Rating,
		RatingCount:   u.RatingCount,
		CompletedJobs: u.CompletedJobs,
	}
}
