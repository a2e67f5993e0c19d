package usecase

import (
	"context"
	"errors"
	"math/rand"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-referral-bot/internal/domain"
	"telegram-referral-bot/internal/domain/model"
	"telegram-referral-bot/internal/domain/ports/repository"
	"telegram-referral-bot/internal/infra/logging"
	"telegram-referral-bot/internal/infra/metrics"
)

// Compile-time check
var _ CodeUseCase = (*codeUC)(nil)

// CodeUseCase is the allocation engine: it selects, retires and serves
// referral codes and owns the usage-threshold logic.
type CodeUseCase interface {
	// Request hands a random live code to the user, or fails with
	// domain.ErrRateLimited / domain.ErrNoCodes.
	Request(ctx context.Context, userID int64) (*model.Offer, error)
	// Submit adds a user-provided code to the pool, or fails with
	// domain.ErrInvalidCode / domain.ErrNotEligible / domain.ErrAlreadyExists.
	Submit(ctx context.Context, userID int64, value string) error
	// Remove deletes a code by value; domain.ErrCodeNotFound when absent.
	Remove(ctx context.Context, value string) error
	// List returns the pool snapshot for operator use.
	List(ctx context.Context) ([]*model.ReferralCode, error)
}

type codeUC struct {
	codes      repository.CodeRepository
	ledger     repository.ActivityRepository
	policy     *EligibilityPolicy
	tm         repository.TransactionManager
	usageLimit int
	log        *zerolog.Logger
}

func NewCodeUseCase(
	codes repository.CodeRepository,
	ledger repository.ActivityRepository,
	policy *EligibilityPolicy,
	tm repository.TransactionManager,
	usageLimit int,
	logger *zerolog.Logger,
) *codeUC {
	if usageLimit <= 0 {
		usageLimit = 10
	}
	ucLog := logger.With().Str("component", "CodeUC").Logger()
	return &codeUC{
		codes:      codes,
		ledger:     ledger,
		policy:     policy,
		tm:         tm,
		usageLimit: usageLimit,
		log:        &ucLog,
	}
}

func (u *codeUC) Request(ctx context.Context, userID int64) (*model.Offer, error) {
	defer logging.TraceDuration(u.log, "CodeUC.Request")()

	ok, err := u.policy.CanGet(ctx, repository.NoTX, userID)
	if err != nil {
		metrics.IncStoreError("can_get")
		return nil, err
	}
	if !ok {
		u.log.Warn().Int64("user_id", userID).Msg("request denied by rate limit")
		return nil, domain.ErrRateLimited
	}

	// Each retired pick shrinks the pool, so the loop drains in at most
	// N reloads before reporting an empty pool.
	for {
		codes, err := u.codes.ListAll(ctx, repository.NoTX)
		if err != nil {
			metrics.IncStoreError("list_codes")
			return nil, err
		}
		if len(codes) == 0 {
			return nil, domain.ErrNoCodes
		}

		pick := codes[rand.Intn(len(codes))]
		if pick.UsageCount >= u.usageLimit {
			u.log.Debug().Int64("code_id", pick.ID).Int("usage", pick.UsageCount).Msg("retiring exhausted code")
			if err := u.codes.Delete(ctx, repository.NoTX, pick.ID); err != nil {
				metrics.IncStoreError("delete_code")
				return nil, err
			}
			metrics.IncCodeRetired()
			continue
		}

		if err := u.codes.IncrementUsage(ctx, repository.NoTX, pick.ID); err != nil {
			metrics.IncStoreError("increment_usage")
			return nil, err
		}
		// Ledger write is last: quota is consumed only once the offer is
		// certain to be served.
		rec := &model.ActivityRecord{UserID: userID, Action: model.ActionGet, ReferralCode: pick.Value}
		if err := u.ledger.Record(ctx, repository.NoTX, rec); err != nil {
			metrics.IncStoreError("record_get")
			return nil, err
		}
		metrics.IncCodeIssued()
		u.log.Info().Int64("user_id", userID).Int64("code_id", pick.ID).Msg("code issued")
		return &model.Offer{CodeID: pick.ID, Value: pick.Value, UserID: userID}, nil
	}
}

func (u *codeUC) Submit(ctx context.Context, userID int64, value string) error {
	defer logging.TraceDuration(u.log, "CodeUC.Submit")()

	// Check order is user-facing contract: format, then eligibility, then
	// existence. Malformed input always reads as invalid regardless of state.
	if !model.ValidCodeValue(value) {
		return domain.ErrInvalidCode
	}

	ok, err := u.policy.CanAdd(ctx, repository.NoTX, userID, value)
	if err != nil {
		metrics.IncStoreError("can_add")
		return err
	}
	if !ok {
		u.log.Warn().Int64("user_id", userID).Msg("duplicate add rejected")
		return domain.ErrNotEligible
	}

	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		exists, err := u.codes.Exists(ctx, tx, value)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrAlreadyExists
		}
		// The unique constraint backs this insert, so a concurrent submit
		// racing past the Exists check still resolves to ErrAlreadyExists.
		if _, err := u.codes.Add(ctx, tx, value); err != nil {
			return err
		}
		rec := &model.ActivityRecord{UserID: userID, Action: model.ActionAdd, ReferralCode: value}
		return u.ledger.Record(ctx, tx, rec)
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return domain.ErrAlreadyExists
		}
		metrics.IncStoreError("submit_code")
		return err
	}

	metrics.IncCodeSubmitted()
	u.log.Info().Int64("user_id", userID).Msg("code submitted")
	return nil
}

func (u *codeUC) Remove(ctx context.Context, value string) error {
	defer logging.TraceDuration(u.log, "CodeUC.Remove")()

	removed, err := u.codes.DeleteByValue(ctx, repository.NoTX, value)
	if err != nil {
		metrics.IncStoreError("remove_code")
		return err
	}
	if !removed {
		return domain.ErrCodeNotFound
	}
	u.log.Info().Msg("code removed")
	return nil
}

func (u *codeUC) List(ctx context.Context) ([]*model.ReferralCode, error) {
	defer logging.TraceDuration(u.log, "CodeUC.List")()
	return u.codes.ListAll(ctx, repository.NoTX)
}
