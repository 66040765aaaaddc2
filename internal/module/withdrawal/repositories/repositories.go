package repositories

import (
	"context"
	"database/sql"
	stderrors "errors"

	"rental-service/internal/module/withdrawal/models/entity"
	"rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/ledger"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

type repositories struct {
	db     *sqlx.DB
	log    *otelzap.Logger
	ledger *ledger.Ledger
}

type Repositories interface {
	// db
	CreateWithdrawal(ctx context.Context, withdrawal entity.Withdrawal) error
	CompleteWithdrawal(ctx context.Context, withdrawal entity.Withdrawal, providerReference string) error
	FailWithdrawal(ctx context.Context, withdrawal entity.Withdrawal, status entity.Status, reason string) error
	RetryWithdrawal(ctx context.Context, withdrawal entity.Withdrawal) error
	RecordAttempt(ctx context.Context, withdrawalID, providerReference string) error
	FindWithdrawalByID(ctx context.Context, withdrawalID string) (entity.Withdrawal, error)
	FindWithdrawalsByBusinessID(ctx context.Context, businessID string) ([]entity.Withdrawal, error)
	FindBalance(ctx context.Context, businessID string) (ledger.BusinessBalance, error)
}

func New(db *sqlx.DB, log *otelzap.Logger, ledger *ledger.Ledger) Repositories {
	return &repositories{
		db:     db,
		log:    log,
		ledger: ledger,
	}
}

const withdrawalColumns = `id, business_id, email, amount, currency, method, details, status,
	failure_reason, provider_reference, attempts, retries, created_at, updated_at`

// CreateWithdrawal implements Repositories. The hold and the withdrawal row are
// written together; an insufficient balance leaves neither.
func (r *repositories) CreateWithdrawal(ctx context.Context, withdrawal entity.Withdrawal) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.InternalServerError("error starting transaction")
	}
	defer tx.Rollback()

	if _, err := r.ledger.Reserve(ctx, tx, withdrawal.BusinessID, withdrawal.Amount, withdrawal.ID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO withdrawals (id, business_id, email, amount, currency, method, details, status, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		withdrawal.ID, withdrawal.BusinessID, withdrawal.Email, withdrawal.Amount, withdrawal.Currency,
		string(withdrawal.Method), withdrawal.Details, string(withdrawal.Status), withdrawal.Attempts, withdrawal.CreatedAt,
	)
	if err != nil {
		r.log.Ctx(ctx).Error("error insert withdrawal", zap.String("withdrawal_id", withdrawal.ID), zap.Error(err))
		return errors.InternalServerError("error insert withdrawal")
	}

	if err := tx.Commit(); err != nil {
		return errors.InternalServerError("error committing transaction")
	}
	return nil
}

// CompleteWithdrawal implements Repositories.
func (r *repositories) CompleteWithdrawal(ctx context.Context, withdrawal entity.Withdrawal, providerReference string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.InternalServerError("error starting transaction")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE withdrawals SET status = $1, provider_reference = $2, failure_reason = NULL, attempts = attempts + 1, updated_at = NOW()
		WHERE id = $3 AND status = $4`,
		string(entity.StatusCompleted), providerReference, withdrawal.ID, string(entity.StatusPending),
	)
	if err := r.checkTransition(ctx, withdrawal.ID, res, err); err != nil {
		return err
	}

	if _, err := r.ledger.Settle(ctx, tx, withdrawal.BusinessID, withdrawal.Amount, withdrawal.ID); err != nil {
		r.log.Ctx(ctx).Error("error settle withdrawal hold", zap.String("withdrawal_id", withdrawal.ID), zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.InternalServerError("error committing transaction")
	}
	return nil
}

// FailWithdrawal implements Repositories. The hold goes back to the balance.
func (r *repositories) FailWithdrawal(ctx context.Context, withdrawal entity.Withdrawal, status entity.Status, reason string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.InternalServerError("error starting transaction")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE withdrawals SET status = $1, failure_reason = $2, attempts = attempts + 1, updated_at = NOW()
		WHERE id = $3 AND status = $4`,
		string(status), reason, withdrawal.ID, string(entity.StatusPending),
	)
	if err := r.checkTransition(ctx, withdrawal.ID, res, err); err != nil {
		return err
	}

	if _, err := r.ledger.Release(ctx, tx, withdrawal.BusinessID, withdrawal.Amount, withdrawal.ID); err != nil {
		r.log.Ctx(ctx).Error("error release withdrawal hold", zap.String("withdrawal_id", withdrawal.ID), zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.InternalServerError("error committing transaction")
	}
	return nil
}

// RetryWithdrawal implements Repositories. The amount is reserved again and the
// next dispatch uses a new batch id.
func (r *repositories) RetryWithdrawal(ctx context.Context, withdrawal entity.Withdrawal) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.InternalServerError("error starting transaction")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE withdrawals SET status = $1, failure_reason = NULL, provider_reference = NULL, retries = retries + 1, updated_at = NOW()
		WHERE id = $2 AND status = $3`,
		string(entity.StatusPending), withdrawal.ID, string(entity.StatusFailed),
	)
	if err := r.checkTransition(ctx, withdrawal.ID, res, err); err != nil {
		return err
	}

	if _, err := r.ledger.Reserve(ctx, tx, withdrawal.BusinessID, withdrawal.Amount, withdrawal.ID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.InternalServerError("error committing transaction")
	}
	return nil
}

func (r *repositories) checkTransition(ctx context.Context, withdrawalID string, res sql.Result, err error) error {
	if err != nil {
		r.log.Ctx(ctx).Error("error update withdrawal status", zap.String("withdrawal_id", withdrawalID), zap.Error(err))
		return errors.InternalServerError("error update withdrawal status")
	}
	if n, _ := res.RowsAffected(); n != 1 {
		return errors.Conflict("withdrawal status changed concurrently")
	}
	return nil
}

// RecordAttempt implements Repositories. A non-empty provider reference is kept
// so a later dispatch can look the batch up.
func (r *repositories) RecordAttempt(ctx context.Context, withdrawalID, providerReference string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE withdrawals SET attempts = attempts + 1, provider_reference = COALESCE(NULLIF($2, ''), provider_reference), updated_at = NOW()
		WHERE id = $1`, withdrawalID, providerReference)
	if err != nil {
		r.log.Ctx(ctx).Error("error record withdrawal attempt", zap.String("withdrawal_id", withdrawalID), zap.Error(err))
		return errors.InternalServerError("error record withdrawal attempt")
	}
	return nil
}

// FindWithdrawalByID implements Repositories.
func (r *repositories) FindWithdrawalByID(ctx context.Context, withdrawalID string) (entity.Withdrawal, error) {
	var withdrawal entity.Withdrawal
	err := r.db.GetContext(ctx, &withdrawal, `SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1`, withdrawalID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return entity.Withdrawal{}, errors.NotFound("withdrawal not found")
	}
	if err != nil {
		r.log.Ctx(ctx).Error("error find withdrawal by id", zap.String("withdrawal_id", withdrawalID), zap.Error(err))
		return entity.Withdrawal{}, errors.InternalServerError("error find withdrawal by id")
	}
	return withdrawal, nil
}

// FindWithdrawalsByBusinessID implements Repositories.
func (r *repositories) FindWithdrawalsByBusinessID(ctx context.Context, businessID string) ([]entity.Withdrawal, error) {
	withdrawals := []entity.Withdrawal{}
	err := r.db.SelectContext(ctx, &withdrawals,
		`SELECT `+withdrawalColumns+` FROM withdrawals WHERE business_id = $1 ORDER BY created_at DESC`, businessID)
	if err != nil {
		r.log.Ctx(ctx).Error("error find withdrawals by business id", zap.Error(err))
		return nil, errors.InternalServerError("error find withdrawals by business id")
	}
	return withdrawals, nil
}

// FindBalance implements Repositories.
func (r *repositories) FindBalance(ctx context.Context, businessID string) (ledger.BusinessBalance, error) {
	return r.ledger.Balance(ctx, r.db, businessID)
}
