package repositories

import (
	"context"
	"database/sql"
	stderrors "errors"

	"rental-service/internal/module/affiliate/models/entity"
	"rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/ledger"
	"rental-service/internal/pkg/money"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// ErrCodeTaken is returned when a generated affiliate code collides.
var ErrCodeTaken = stderrors.New("affiliate code already taken")

const (
	uniqueViolation      = "23505"
	constraintUserUnique = "affiliates_user_id_key"
	constraintCodeUnique = "affiliates_code_key"
)

type repositories struct {
	db     *sqlx.DB
	log    *otelzap.Logger
	ledger *ledger.Ledger
}

type Repositories interface {
	// db
	CreateAffiliate(ctx context.Context, affiliate entity.Affiliate) error
	FindAffiliateByUserID(ctx context.Context, userID string) (entity.Affiliate, error)
	FindAffiliateByCode(ctx context.Context, code string) (entity.Affiliate, error)
	ApplyCode(ctx context.Context, entitlement entity.Entitlement) error
	IncrementVisits(ctx context.Context, code string) error
	SettleEarnings(ctx context.Context, affiliateID string) (money.Cents, error)
}

func New(db *sqlx.DB, log *otelzap.Logger, ledger *ledger.Ledger) Repositories {
	return &repositories{
		db:     db,
		log:    log,
		ledger: ledger,
	}
}

const affiliateColumns = `id, user_id, code, earnings, unpaid_earnings, total_earnings, referrals, visits, conversions, created_at`

// CreateAffiliate implements Repositories.
func (r *repositories) CreateAffiliate(ctx context.Context, affiliate entity.Affiliate) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO affiliates (id, user_id, code, earnings, unpaid_earnings, total_earnings, referrals, visits, conversions, created_at)
		VALUES ($1, $2, $3, 0, 0, 0, 0, 0, 0, $4)`,
		affiliate.ID, affiliate.UserID, affiliate.Code, affiliate.CreatedAt,
	)
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		switch pqErr.Constraint {
		case constraintUserUnique:
			return errors.Conflict("user already has an affiliate account")
		case constraintCodeUnique:
			return ErrCodeTaken
		}
	}

	r.log.Ctx(ctx).Error("error insert affiliate", zap.String("user_id", affiliate.UserID), zap.Error(err))
	return errors.InternalServerError("error insert affiliate")
}

func (r *repositories) findOne(ctx context.Context, where string, arg string) (entity.Affiliate, error) {
	var affiliate entity.Affiliate
	err := r.db.GetContext(ctx, &affiliate, `SELECT `+affiliateColumns+` FROM affiliates WHERE `+where+` = $1`, arg)
	if stderrors.Is(err, sql.ErrNoRows) {
		return entity.Affiliate{}, errors.NotFound("affiliate not found")
	}
	if err != nil {
		r.log.Ctx(ctx).Error("error find affiliate", zap.String("by", where), zap.Error(err))
		return entity.Affiliate{}, errors.InternalServerError("error find affiliate")
	}
	return affiliate, nil
}

// FindAffiliateByUserID implements Repositories.
func (r *repositories) FindAffiliateByUserID(ctx context.Context, userID string) (entity.Affiliate, error) {
	return r.findOne(ctx, "user_id", userID)
}

// FindAffiliateByCode implements Repositories.
func (r *repositories) FindAffiliateByCode(ctx context.Context, code string) (entity.Affiliate, error) {
	return r.findOne(ctx, "code", code)
}

// ApplyCode implements Repositories. A consumed entitlement is replaced; an
// unused one is left alone and reported as a conflict.
func (r *repositories) ApplyCode(ctx context.Context, entitlement entity.Entitlement) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.InternalServerError("error starting transaction")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO affiliate_entitlements (customer_id, affiliate_id, booking_id, created_at)
		VALUES ($1, $2, NULL, $3)
		ON CONFLICT (customer_id) DO UPDATE
		SET affiliate_id = EXCLUDED.affiliate_id, booking_id = NULL, created_at = EXCLUDED.created_at
		WHERE affiliate_entitlements.booking_id IS NOT NULL`,
		entitlement.CustomerID, entitlement.AffiliateID, entitlement.CreatedAt,
	)
	if err != nil {
		r.log.Ctx(ctx).Error("error upsert affiliate entitlement", zap.String("customer_id", entitlement.CustomerID), zap.Error(err))
		return errors.InternalServerError("error apply affiliate code")
	}
	if n, _ := res.RowsAffected(); n != 1 {
		return errors.Conflict("an unused affiliate discount is already applied")
	}

	if _, err := tx.ExecContext(ctx, `UPDATE affiliates SET referrals = referrals + 1 WHERE id = $1`, entitlement.AffiliateID); err != nil {
		return errors.InternalServerError("error count affiliate referral")
	}

	if err := tx.Commit(); err != nil {
		return errors.InternalServerError("error committing transaction")
	}
	return nil
}

// IncrementVisits implements Repositories.
func (r *repositories) IncrementVisits(ctx context.Context, code string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE affiliates SET visits = visits + 1 WHERE code = $1`, code)
	if err != nil {
		r.log.Ctx(ctx).Error("error increment affiliate visits", zap.Error(err))
		return errors.InternalServerError("error track affiliate visit")
	}
	if n, _ := res.RowsAffected(); n != 1 {
		return errors.NotFound("affiliate not found")
	}
	return nil
}

// SettleEarnings implements Repositories.
func (r *repositories) SettleEarnings(ctx context.Context, affiliateID string) (money.Cents, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.InternalServerError("error starting transaction")
	}
	defer tx.Rollback()

	settled, err := r.ledger.SettleAffiliate(ctx, tx, affiliateID)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.InternalServerError("error committing transaction")
	}
	return settled, nil
}
