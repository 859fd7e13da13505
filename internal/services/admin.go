package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/auth"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/models"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/models/dto"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/storage"
)

// The bootstrap super admin created by SeedInitial.
const (
	SeedAdminUserID = "NK3021T"
	SeedAdminName   = "Naveen.G"
)

type AdminServiceConfig struct {
	TokenTTL       time.Duration
	AccessPassword string
	SeedPassword   string
	HashCost       int
}

type AdminService struct {
	store  storage.AdminStore
	tokens *auth.TokenManager
	cfg    AdminServiceConfig
}

func NewAdminService(store storage.AdminStore, tokens *auth.TokenManager, cfg AdminServiceConfig) *AdminService {
	if cfg.HashCost == 0 {
		cfg.HashCost = bcrypt.DefaultCost
	}
	return &AdminService{store: store, tokens: tokens, cfg: cfg}
}

// SeedInitial creates the bootstrap super admin if missing and reports
// whether it did.
func (s *AdminService) SeedInitial(ctx context.Context) (bool, error) {
	if _, err := s.store.FindAdminByUserID(ctx, SeedAdminUserID); err == nil {
		return false, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.SeedPassword), s.cfg.HashCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	admin := &models.Admin{
		Name:         SeedAdminName,
		UserID:       SeedAdminUserID,
		PasswordHash: string(hash),
		Role:         models.AdminRoleSuperAdmin,
	}
	if err := s.store.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	log.Info().Str("admin", SeedAdminUserID).Msg("seeded initial admin")
	return true, nil
}

func (s *AdminService) Login(ctx context.Context, userID, password string) (string, *models.Admin, error) {
	admin, err := s.store.FindAdminByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(auth.Identity{
		Subject: admin.ID.Hex(),
		Role:    admin.Role,
		UserID:  admin.UserID,
	}, s.cfg.TokenTTL)
	if err != nil {
		return "", nil, err
	}
	return token, admin, nil
}

// AddAdmin creates another console operator. The caller must already hold an
// admin token and know the static access password.
func (s *AdminService) AddAdmin(ctx context.Context, req dto.AddAdminRequest) (*models.Admin, error) {
	if req.AccessPassword != s.cfg.AccessPassword {
		return nil, ErrInvalidAccessPassword
	}
	if _, err := s.store.FindAdminByUserID(ctx, req.UserID); err == nil {
		return nil, ErrAdminExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	role := req.Role
	if role == "" {
		role = models.AdminRoleAdmin
	}
	admin := &models.Admin{Name: req.Name, UserID: req.UserID, PasswordHash: string(hash), Role: role}
	if err := s.store.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, ErrAdminExists
		}
		return nil, err
	}
	log.Info().Str("admin", admin.UserID).Str("role", role).Msg("admin added")
	return admin, nil
}
