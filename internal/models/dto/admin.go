package dto

import "github.com/markjakearzadon/nammakodai-gobackend/internal/models"

type AdminLoginRequest struct {
	UserID   string `json:"userId" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=4"`
}

type AddAdminRequest struct {
	AccessPassword string `json:"accessPassword" validate:"required"`
	Name           string `json:"name" validate:"required,min=2"`
	UserID         string `json:"userId" validate:"required,min=3"`
	Password       string `json:"password" validate:"required,min=4"`
	Role           string `json:"role" validate:"omitempty,oneof=admin super_admin"`
}

type AdminLoginResponse struct {
	Token string           `json:"token"`
	Admin models.AdminView `json:"admin"`
}

type AddAdminResponse struct {
	OK    bool             `json:"ok"`
	Admin models.AdminView `json:"admin"`
}

type SeedResponse struct {
	OK     bool `json:"ok"`
	Seeded bool `json:"seeded"`
}
