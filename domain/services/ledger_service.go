package services

import (
	"context"
	"math/rand"
	"time"

	"guildbank/application"
	"guildbank/config"
	"guildbank/domain"
	"guildbank/domain/entities"
	"guildbank/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// ledgerService owns every wallet and bank mutation. Each operation holds
// the account key's mutex across its whole read-check-write sequence and
// runs inside one unit-of-work transaction, so a rejected or failed
// operation leaves no partial state.
type ledgerService struct {
	uowFactory application.UnitOfWorkFactory
	locks      *AccountLocks

	// swapped out by tests for deterministic cooldowns and rewards
	now        func() time.Time
	randInt63n func(n int64) int64
}

// NewLedgerService creates a new ledger service. The locks registry must be
// shared with every other service that mutates wallets directly.
func NewLedgerService(uowFactory application.UnitOfWorkFactory, locks *AccountLocks) interfaces.LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
		locks:      locks,
		now:        time.Now,
		randInt63n: rand.Int63n,
	}
}

func (s *ledgerService) GetBalance(ctx context.Context, guildID, userID int64) (*interfaces.BalanceSummary, error) {
	unlock := s.locks.Lock(guildID, userID)
	defer unlock()

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, domain.StorageError(err)
	}
	defer uow.Rollback()

	account, err := getOrCreateAccount(ctx, uow, guildID, userID)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, domain.StorageError(err)
	}

	return &interfaces.BalanceSummary{
		Wallet: account.Wallet,
		Bank:   account.Bank,
		Total:  account.Total(),
	}, nil
}

func (s *ledgerService) AddFunds(ctx context.Context, guildID, userID, amount int64, txType entities.TransactionType, metadata map[string]any) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}

	unlock := s.locks.Lock(guildID, userID)
	defer unlock()

	return s.creditLocked(ctx, guildID, userID, amount, txType, metadata)
}

// creditLocked credits the wallet. The caller must hold the account key lock.
func (s *ledgerService) creditLocked(ctx context.Context, guildID, userID, amount int64, txType entities.TransactionType, metadata map[string]any) (int64, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return 0, domain.StorageError(err)
	}
	defer uow.Rollback()

	account, err := getOrCreateAccount(ctx, uow, guildID, userID)
	if err != nil {
		return 0, domain.StorageError(err)
	}

	walletBefore := account.Wallet
	account.Wallet += amount
	if err := uow.AccountRepository().Update(ctx, account); err != nil {
		return 0, domain.StorageError(err)
	}

	if err := recordWalletChange(ctx, uow, &entities.BalanceHistory{
		DiscordID:           userID,
		GuildID:             guildID,
		WalletBefore:        walletBefore,
		WalletAfter:         account.Wallet,
		ChangeAmount:        amount,
		TransactionType:     txType,
		TransactionMetadata: metadata,
	}); err != nil {
		return 0, domain.StorageError(err)
	}

	if err := uow.Commit(); err != nil {
		return 0, domain.StorageError(err)
	}

	return account.Wallet, nil
}

func (s *ledgerService) RemoveFunds(ctx context.Context, guildID, userID, amount int64, txType entities.TransactionType, metadata map[string]any) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}

	unlock := s.locks.Lock(guildID, userID)
	defer unlock()

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return 0, domain.StorageError(err)
	}
	defer uow.Rollback()

	account, err := getOrCreateAccount(ctx, uow, guildID, userID)
	if err != nil {
		return 0, domain.StorageError(err)
	}

	if !account.CanSpend(amount) {
		return 0, domain.ErrInsufficientFunds
	}

	walletBefore := account.Wallet
	account.Wallet -= amount
	if err := uow.AccountRepository().Update(ctx, account); err != nil {
		return 0, domain.StorageError(err)
	}

	if err := recordWalletChange(ctx, uow, &entities.BalanceHistory{
		DiscordID:           userID,
		GuildID:             guildID,
		WalletBefore:        walletBefore,
		WalletAfter:         account.Wallet,
		ChangeAmount:        -amount,
		TransactionType:     txType,
		TransactionMetadata: metadata,
	}); err != nil {
		return 0, domain.StorageError(err)
	}

	if err := uow.Commit(); err != nil {
		return 0, domain.StorageError(err)
	}

	return account.Wallet, nil
}

func (s *ledgerService) Transfer(ctx context.Context, guildID, fromUserID, toUserID, amount int64) error {
	if fromUserID == toUserID {
		return domain.ErrSelfTransfer
	}
	if toUserID <= 0 {
		return domain.ErrInvalidTarget
	}
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}

	unlock := s.locks.LockPair(guildID, fromUserID, toUserID)
	defer unlock()

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return domain.StorageError(err)
	}
	defer uow.Rollback()

	sender, err := getOrCreateAccount(ctx, uow, guildID, fromUserID)
	if err != nil {
		return domain.StorageError(err)
	}
	recipient, err := getOrCreateAccount(ctx, uow, guildID, toUserID)
	if err != nil {
		return domain.StorageError(err)
	}

	if !sender.CanSpend(amount) {
		return domain.ErrInsufficientFunds
	}

	// Both legs commit or roll back together with the surrounding transaction.
	senderBefore := sender.Wallet
	recipientBefore := recipient.Wallet
	sender.Wallet -= amount
	recipient.Wallet += amount

	if err := uow.AccountRepository().Update(ctx, sender); err != nil {
		return domain.StorageError(err)
	}
	if err := uow.AccountRepository().Update(ctx, recipient); err != nil {
		return domain.StorageError(err)
	}

	if err := recordWalletChange(ctx, uow, &entities.BalanceHistory{
		DiscordID:       fromUserID,
		GuildID:         guildID,
		WalletBefore:    senderBefore,
		WalletAfter:     sender.Wallet,
		ChangeAmount:    -amount,
		TransactionType: entities.TransactionTypeTransferOut,
		TransactionMetadata: map[string]any{
			"transfer_to":     toUserID,
			"transfer_amount": amount,
		},
	}); err != nil {
		return domain.StorageError(err)
	}
	if err := recordWalletChange(ctx, uow, &entities.BalanceHistory{
		DiscordID:       toUserID,
		GuildID:         guildID,
		WalletBefore:    recipientBefore,
		WalletAfter:     recipient.Wallet,
		ChangeAmount:    amount,
		TransactionType: entities.TransactionTypeTransferIn,
		TransactionMetadata: map[string]any{
			"transfer_from":   fromUserID,
			"transfer_amount": amount,
		},
	}); err != nil {
		return domain.StorageError(err)
	}

	if err := uow.Commit(); err != nil {
		return domain.StorageError(err)
	}

	log.WithFields(log.Fields{
		"guildID": guildID,
		"from":    fromUserID,
		"to":      toUserID,
		"amount":  amount,
	}).Debug("Transfer completed")

	return nil
}

func (s *ledgerService) Deposit(ctx context.Context, guildID, userID, amount int64) (*interfaces.BalanceSummary, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	unlock := s.locks.Lock(guildID, userID)
	defer unlock()

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, domain.StorageError(err)
	}
	defer uow.Rollback()

	account, err := getOrCreateAccount(ctx, uow, guildID, userID)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	if !account.CanSpend(amount) {
		return nil, domain.ErrInsufficientFunds
	}

	walletBefore := account.Wallet
	account.Wallet -= amount
	account.Bank += amount
	if err := uow.AccountRepository().Update(ctx, account); err != nil {
		return nil, domain.StorageError(err)
	}

	if err := recordWalletChange(ctx, uow, &entities.BalanceHistory{
		DiscordID:       userID,
		GuildID:         guildID,
		WalletBefore:    walletBefore,
		WalletAfter:     account.Wallet,
		ChangeAmount:    -amount,
		TransactionType: entities.TransactionTypeDeposit,
		TransactionMetadata: map[string]any{
			"bank_after": account.Bank,
		},
	}); err != nil {
		return nil, domain.StorageError(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, domain.StorageError(err)
	}

	return &interfaces.BalanceSummary{
		Wallet: account.Wallet,
		Bank:   account.Bank,
		Total:  account.Total(),
	}, nil
}

func (s *ledgerService) Withdraw(ctx context.Context, guildID, userID, amount int64) (*interfaces.BalanceSummary, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	unlock := s.locks.Lock(guildID, userID)
	defer unlock()

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, domain.StorageError(err)
	}
	defer uow.Rollback()

	account, err := getOrCreateAccount(ctx, uow, guildID, userID)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	if !account.CanWithdraw(amount) {
		return nil, domain.ErrInsufficientFunds
	}

	walletBefore := account.Wallet
	account.Bank -= amount
	account.Wallet += amount
	if err := uow.AccountRepository().Update(ctx, account); err != nil {
		return nil, domain.StorageError(err)
	}

	if err := recordWalletChange(ctx, uow, &entities.BalanceHistory{
		DiscordID:       userID,
		GuildID:         guildID,
		WalletBefore:    walletBefore,
		WalletAfter:     account.Wallet,
		ChangeAmount:    amount,
		TransactionType: entities.TransactionTypeWithdraw,
		TransactionMetadata: map[string]any{
			"bank_after": account.Bank,
		},
	}); err != nil {
		return nil, domain.StorageError(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, domain.StorageError(err)
	}

	return &interfaces.BalanceSummary{
		Wallet: account.Wallet,
		Bank:   account.Bank,
		Total:  account.Total(),
	}, nil
}

func (s *ledgerService) ClaimDaily(ctx context.Context, guildID, userID int64) (*interfaces.DailyClaimResult, error) {
	cfg := config.Get()

	unlock := s.locks.Lock(guildID, userID)
	defer unlock()

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, domain.StorageError(err)
	}
	defer uow.Rollback()

	account, err := getOrCreateAccount(ctx, uow, guildID, userID)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	now := s.now()
	if account.LastDailyAt != nil {
		elapsed := now.Sub(*account.LastDailyAt)
		if elapsed < cfg.DailyCooldown {
			return nil, domain.NewCooldownError(cfg.DailyCooldown - elapsed)
		}
		// Missing a day breaks the streak
		if elapsed > cfg.DailyStreakWindow {
			account.DailyStreak = 0
		}
	}

	account.DailyStreak++
	amount := cfg.DailyBaseReward + int64(account.DailyStreak-1)*cfg.DailyStreakBonus

	walletBefore := account.Wallet
	account.Wallet += amount
	account.LastDailyAt = &now
	if err := uow.AccountRepository().Update(ctx, account); err != nil {
		return nil, domain.StorageError(err)
	}

	if err := recordWalletChange(ctx, uow, &entities.BalanceHistory{
		DiscordID:       userID,
		GuildID:         guildID,
		WalletBefore:    walletBefore,
		WalletAfter:     account.Wallet,
		ChangeAmount:    amount,
		TransactionType: entities.TransactionTypeDailyReward,
		TransactionMetadata: map[string]any{
			"streak": account.DailyStreak,
		},
	}); err != nil {
		return nil, domain.StorageError(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, domain.StorageError(err)
	}

	return &interfaces.DailyClaimResult{
		Amount:    amount,
		NewWallet: account.Wallet,
		Streak:    account.DailyStreak,
	}, nil
}

func (s *ledgerService) Work(ctx context.Context, guildID, userID int64) (*interfaces.WorkResult, error) {
	cfg := config.Get()

	unlock := s.locks.Lock(guildID, userID)
	defer unlock()

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, domain.StorageError(err)
	}
	defer uow.Rollback()

	account, err := getOrCreateAccount(ctx, uow, guildID, userID)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	now := s.now()
	if account.LastWorkAt != nil {
		elapsed := now.Sub(*account.LastWorkAt)
		if elapsed < cfg.WorkCooldown {
			return nil, domain.NewCooldownError(cfg.WorkCooldown - elapsed)
		}
	}

	amount := cfg.WorkMinReward + s.randInt63n(cfg.WorkMaxReward-cfg.WorkMinReward+1)

	walletBefore := account.Wallet
	account.Wallet += amount
	account.LastWorkAt = &now
	if err := uow.AccountRepository().Update(ctx, account); err != nil {
		return nil, domain.StorageError(err)
	}

	if err := recordWalletChange(ctx, uow, &entities.BalanceHistory{
		DiscordID:       userID,
		GuildID:         guildID,
		WalletBefore:    walletBefore,
		WalletAfter:     account.Wallet,
		ChangeAmount:    amount,
		TransactionType: entities.TransactionTypeWorkReward,
	}); err != nil {
		return nil, domain.StorageError(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, domain.StorageError(err)
	}

	return &interfaces.WorkResult{
		Amount:    amount,
		NewWallet: account.Wallet,
	}, nil
}
