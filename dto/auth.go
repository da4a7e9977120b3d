package dto

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kpizzy812/saturn-platform-sub000/models"
)

// TokenClaims represents the JWT claims for authenticated users
type TokenClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	TeamID string `json:"teamId"`
	Role   string `json:"role"` // team role
	jwt.RegisteredClaims
}

// RegisterRequest is the payload for user registration
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Username *string `json:"username"`
	Name     *string `json:"name"`
	TeamName string  `json:"teamName"`
}

// LoginRequest is the payload for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned after a successful login
type AuthResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	TeamID    string      `json:"teamId"`
	Role      string      `json:"role"`
	ExpiresAt time.Time   `json:"expiresAt"`
}
