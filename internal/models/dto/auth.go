package dto

import "github.com/markjakearzadon/nammakodai-gobackend/internal/models"

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// ExploreRequest fields are all optional; defaults are generated server side.
type ExploreRequest struct {
	Name     string `json:"name" validate:"omitempty,min=2"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
}

type UserResponse struct {
	User models.UserView `json:"user"`
}

type LoginResponse struct {
	Token string          `json:"token"`
	User  models.UserView `json:"user"`
}

type DeleteAccountResponse struct {
	OK           bool   `json:"ok"`
	RefundAmount int64  `json:"refundAmount"`
	RefundURL    string `json:"refundUrl"`
}
