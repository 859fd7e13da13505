package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/auth"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/models"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/models/dto"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/storage"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/wallet"
)

// ExplorerLifetime is how long an explorer account may use its free borrow.
const ExplorerLifetime = 3 * time.Hour

type UserServiceConfig struct {
	UserTokenTTL      time.Duration
	ExplorerTokenTTL  time.Duration
	RefundRedirectURL string
	// HashCost defaults to bcrypt.DefaultCost.
	HashCost int
}

type UserService struct {
	store    storage.UserStore
	tokens   *auth.TokenManager
	cfg      UserServiceConfig
	notifier Notifier
	now      Clock
}

func NewUserService(store storage.UserStore, tokens *auth.TokenManager, cfg UserServiceConfig) *UserService {
	if cfg.HashCost == 0 {
		cfg.HashCost = bcrypt.DefaultCost
	}
	return &UserService{store: store, tokens: tokens, cfg: cfg, notifier: NopNotifier, now: time.Now}
}

func (s *UserService) SetNotifier(n Notifier) { s.notifier = n }

func (s *UserService) SetClock(now Clock) { s.now = now }

func (s *UserService) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error) {
	if _, err := s.store.FindUserByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleNewUser,
		Wallet:       models.Wallet{Balance: 0, Currency: models.CurrencyINR},
		Transactions: []models.Transaction{},
		CreatedAt:    s.now(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	log.Info().Str("user_id", user.ID.Hex()).Msg("user registered")
	return user, nil
}

// Login verifies credentials, promotes a funded new_user and issues a token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if wallet.Promote(user) {
		if err := s.store.SaveWallet(ctx, user, storage.GuardNone, nil); err != nil {
			if !errors.Is(err, storage.ErrVersionConflict) {
				return "", nil, err
			}
			// a concurrent wallet write won; serve what it stored
			if user, err = s.store.FindUserByID(ctx, user.ID.Hex()); err != nil {
				return "", nil, err
			}
		} else {
			s.notifier.NotifyUser(user)
		}
	}

	token, err := s.tokens.Generate(auth.Identity{Subject: user.ID.Hex(), Role: user.Role}, s.cfg.UserTokenTTL)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Explore creates a short-lived explorer account. Missing fields are generated.
func (s *UserService) Explore(ctx context.Context, req dto.ExploreRequest) (string, *models.User, error) {
	now := s.now()
	name := req.Name
	if name == "" {
		name = "Explorer-" + randomSuffix(4)
	}
	email := req.Email
	if email == "" {
		email = fmt.Sprintf("explorer_%d_%s@example.local", now.UnixMilli(), randomSuffix(2))
	} else if _, err := s.store.FindUserByEmail(ctx, email); err == nil {
		return "", nil, ErrEmailInUse
	} else if !errors.Is(err, storage.ErrNotFound) {
		return "", nil, err
	}
	password := req.Password
	if password == "" {
		password = uuid.NewString()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.HashCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}
	expires := now.Add(ExplorerLifetime)
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleExplorer,
		Wallet:       models.Wallet{Balance: 0, Currency: models.CurrencyINR},
		Explorer:     models.Explorer{Enabled: true, ExpiresAt: &expires, BorrowUsed: false},
		Transactions: []models.Transaction{},
		CreatedAt:    now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return "", nil, ErrEmailInUse
		}
		return "", nil, err
	}

	token, err := s.tokens.Generate(auth.Identity{Subject: user.ID.Hex(), Role: models.RoleExplorer}, s.cfg.ExplorerTokenTTL)
	if err != nil {
		return "", nil, err
	}
	log.Info().Str("user_id", user.ID.Hex()).Time("expires_at", expires).Msg("explorer account created")
	return token, user, nil
}

func (s *UserService) Profile(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.FindUserByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, req dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.store.UpdateProfile(ctx, id, req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			return nil, ErrEmailInUse
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.notifier.NotifyUser(user)
	return user, nil
}

// DeleteAccount removes the user and returns the balance to refund with the
// URL the client should redirect to.
func (s *UserService) DeleteAccount(ctx context.Context, id string) (int64, string, error) {
	user, err := s.store.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, "", ErrUserNotFound
		}
		return 0, "", err
	}

	refund := user.Wallet.Balance
	if refund < 0 {
		refund = 0
	}
	refundURL := fmt.Sprintf("%s?amount=%d&email=%s", s.cfg.RefundRedirectURL, refund, url.QueryEscape(user.Email))

	if err := s.store.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, "", ErrUserNotFound
		}
		return 0, "", err
	}
	log.Info().Str("user_id", id).Int64("refund", refund).Msg("account deleted")
	return refund, refundURL, nil
}

func randomSuffix(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
