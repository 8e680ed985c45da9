// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/gridboard/gridboard/internal/model"

// RegisterRequest represents the request body for creating an account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	UserType string `json:"userType,omitempty"`
}

// LoginRequest represents the request body for signing in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest represents a partial profile update.
type UpdateProfileRequest struct {
	Name           *string `json:"name,omitempty"`
	Email          *string `json:"email,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

// ResetPasswordRequest represents a password reset request.
type ResetPasswordRequest struct {
	Email string `json:"email"`
}

// SessionResponse carries a bearer token and the authenticated user.
type SessionResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
