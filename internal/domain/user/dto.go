package user

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,max=100"`
	Role     Role   `json:"role" validate:"required,oneof=client freelancer"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name       *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Bio        *string  `json:"bio,omitempty" validate:"omitempty,max=2000"`
	AvatarURL  *string  `json:"avatar_url,omitempty" validate:"omitempty,max=500"`
	Skills     []string `json:"skills,omitempty" validate:"omitempty,max=30,dive,max=50"`
	HourlyRate *float64 `json:"hourly_rate,omitempty" validate:"omitempty,gte=0"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
