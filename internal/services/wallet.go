package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/markjakearzadon/nammakodai-gobackend/internal/models"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/storage"
	"github.com/markjakearzadon/nammakodai-gobackend/internal/wallet"
)

// WalletService applies the wallet rules to stored users. Every write is a
// single conditional update on the version read, so a lost race is reported
// as ErrConcurrentUpdate and never applied twice.
type WalletService struct {
	store    storage.UserStore
	notifier Notifier
	now      Clock
}

func NewWalletService(store storage.UserStore) *WalletService {
	return &WalletService{store: store, notifier: NopNotifier, now: time.Now}
}

func (s *WalletService) SetNotifier(n Notifier) { s.notifier = n }

func (s *WalletService) SetClock(now Clock) { s.now = now }

func (s *WalletService) Balance(ctx context.Context, userID string) (*models.User, error) {
	return s.load(ctx, userID)
}

func (s *WalletService) Deposit(ctx context.Context, userID string, amount int64) (*models.User, error) {
	if amount <= 0 {
		return nil, wallet.ErrInvalidAmount
	}
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	txn, err := wallet.Deposit(user, amount, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, user, storage.GuardNone, txn); err != nil {
		return nil, err
	}
	log.Info().Str("user_id", userID).Int64("amount", amount).Int64("balance", user.Wallet.Balance).Msg("deposit")
	return user, nil
}

func (s *WalletService) Borrow(ctx context.Context, userID, stationID, stationName string) (*models.User, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	txn, err := wallet.Borrow(user, stationID, stationName, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, user, storage.GuardIdle, txn); err != nil {
		return nil, err
	}
	log.Info().Str("user_id", userID).Str("station_id", stationID).Bool("free", txn == nil).Msg("umbrella borrowed")
	return user, nil
}

func (s *WalletService) Return(ctx context.Context, userID string) (*models.User, wallet.Outcome, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, wallet.Outcome{}, err
	}
	out, err := wallet.Return(user, s.now())
	if err != nil {
		return nil, wallet.Outcome{}, err
	}
	if err := s.save(ctx, user, storage.GuardActive, out.Transaction); err != nil {
		return nil, wallet.Outcome{}, err
	}
	log.Info().
		Str("user_id", userID).
		Str("outcome", string(out.Type)).
		Int64("amount", out.Amount).
		Bool("charged", out.Charged).
		Dur("elapsed", out.Elapsed).
		Msg("umbrella returned")
	return user, out, nil
}

func (s *WalletService) load(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *WalletService) save(ctx context.Context, user *models.User, guard storage.BorrowGuard, txn *models.Transaction) error {
	var added []models.Transaction
	if txn != nil {
		added = []models.Transaction{*txn}
	}
	if err := s.store.SaveWallet(ctx, user, guard, added); err != nil {
		switch {
		case errors.Is(err, storage.ErrVersionConflict):
			log.Warn().Str("user_id", user.ID.Hex()).Msg("wallet write lost a concurrent update")
			return ErrConcurrentUpdate
		case errors.Is(err, storage.ErrNotFound):
			return ErrUserNotFound
		}
		return err
	}
	s.notifier.NotifyUser(user)
	return nil
}
