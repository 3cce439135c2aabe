package dto

import (
	"time"

	"delaurel.com/schoolportal/internal/model"
	"github.com/google/uuid"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=admin teacher student parent proprietress"`

	// Student-only fields; ignored for other roles.
	ClassLevel     string `json:"class_level,omitempty" binding:"omitempty,oneof=JSS1 JSS2 JSS3 SS1 SS2 SS3"`
	Branch         string `json:"branch,omitempty" binding:"omitempty,oneof=junior science arts commerce"`
	CurrentSession string `json:"current_session,omitempty"`

	// Teacher-only fields; ignored for other roles.
	SpecializationID  *uuid.UUID `json:"specialization_id,omitempty"`
	Qualifications    string     `json:"qualifications,omitempty" binding:"omitempty,max=500"`
	YearsOfExperience int        `json:"years_of_experience,omitempty" binding:"omitempty,gte=0"`
}

type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresAt   int64       `json:"expires_at"`
	Role        string      `json:"role"`
	User        *model.User `json:"user"`
}

type TokenClaimsInfo struct {
	UserID    uuid.UUID
	Role      string
	ExpiresAt time.Time
}
