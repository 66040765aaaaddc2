// Package ledger is the single writer for host balances and affiliate earnings.
// Every mutation is a conditional UPDATE executed on the caller's transaction
// and journaled in ledger_entries, so callers never read-modify-write a balance.
package ledger

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/money"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Kind string

const (
	KindBookingPayout       Kind = "booking_payout"
	KindWithdrawalHold      Kind = "withdrawal_hold"
	KindWithdrawalSettle    Kind = "withdrawal_settle"
	KindWithdrawalRelease   Kind = "withdrawal_release"
	KindAffiliateCommission Kind = "affiliate_commission"
	KindAffiliateSettle     Kind = "affiliate_settle"
)

const (
	AccountBusiness  = "business"
	AccountAffiliate = "affiliate"
)

type Entry struct {
	ID           string      `db:"id"`
	AccountType  string      `db:"account_type"`
	AccountID    string      `db:"account_id"`
	Kind         Kind        `db:"kind"`
	Amount       money.Cents `db:"amount"`
	BalanceAfter money.Cents `db:"balance_after"`
	Reference    string      `db:"reference"`
	CreatedAt    time.Time   `db:"created_at"`
}

type BusinessBalance struct {
	BusinessID         string      `db:"id" json:"business_id"`
	Balance            money.Cents `db:"balance" json:"balance"`
	HeldBalance        money.Cents `db:"held_balance" json:"held_balance"`
	IsFeatured         bool        `db:"is_featured" json:"is_featured"`
	VerificationStatus string      `db:"verification_status" json:"verification_status"`
}

type Ledger struct {
	now func() time.Time
}

func New() *Ledger {
	return &Ledger{now: func() time.Time { return time.Now().UTC() }}
}

const (
	queryCredit = `UPDATE businesses SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1 RETURNING balance`
	queryReserve = `UPDATE businesses SET balance = balance - $2, held_balance = held_balance + $2, updated_at = NOW()
		WHERE id = $1 AND balance >= $2 RETURNING balance`
	querySettle = `UPDATE businesses SET held_balance = held_balance - $2, updated_at = NOW()
		WHERE id = $1 AND held_balance >= $2 RETURNING balance`
	queryRelease = `UPDATE businesses SET held_balance = held_balance - $2, balance = balance + $2, updated_at = NOW()
		WHERE id = $1 AND held_balance >= $2 RETURNING balance`
	queryCreditAffiliate = `UPDATE affiliates SET unpaid_earnings = unpaid_earnings + $2, total_earnings = total_earnings + $2, conversions = conversions + 1
		WHERE id = $1 RETURNING unpaid_earnings`
	querySettleAffiliate = `UPDATE affiliates a SET earnings = a.earnings + prev.unpaid_earnings, unpaid_earnings = 0
		FROM (SELECT id, unpaid_earnings FROM affiliates WHERE id = $1 FOR UPDATE) prev
		WHERE a.id = prev.id RETURNING prev.unpaid_earnings, a.earnings`
	queryInsertEntry = `INSERT INTO ledger_entries (id, account_type, account_id, kind, amount, balance_after, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	queryBalance = `SELECT id, balance, held_balance, is_featured, verification_status FROM businesses WHERE id = $1`
)

// Credit adds a booking payout to the host's withdrawable balance.
func (l *Ledger) Credit(ctx context.Context, tx sqlx.ExtContext, businessID string, amount money.Cents, reference string) (money.Cents, error) {
	if !amount.IsPositive() {
		return 0, errors.BadRequest("credit amount must be positive")
	}

	var after money.Cents
	err := tx.QueryRowxContext(ctx, queryCredit, businessID, amount).Scan(&after)
	if stderrors.Is(err, sql.ErrNoRows) {
		return 0, errors.NotFound("business not found")
	}
	if err != nil {
		return 0, errors.InternalServerError("error credit business balance")
	}

	return after, l.journal(ctx, tx, AccountBusiness, businessID, KindBookingPayout, amount, after, reference)
}

// Reserve moves amount from balance to held_balance only if the balance covers it.
func (l *Ledger) Reserve(ctx context.Context, tx sqlx.ExtContext, businessID string, amount money.Cents, reference string) (money.Cents, error) {
	if !amount.IsPositive() {
		return 0, errors.BadRequest("reserve amount must be positive")
	}

	var after money.Cents
	err := tx.QueryRowxContext(ctx, queryReserve, businessID, amount).Scan(&after)
	if stderrors.Is(err, sql.ErrNoRows) {
		return 0, errors.InsufficientBalance("insufficient balance")
	}
	if err != nil {
		return 0, errors.InternalServerError("error reserve business balance")
	}

	return after, l.journal(ctx, tx, AccountBusiness, businessID, KindWithdrawalHold, -amount, after, reference)
}

// Settle drops a hold whose payout left the platform.
func (l *Ledger) Settle(ctx context.Context, tx sqlx.ExtContext, businessID string, amount money.Cents, reference string) (money.Cents, error) {
	var after money.Cents
	err := tx.QueryRowxContext(ctx, querySettle, businessID, amount).Scan(&after)
	if stderrors.Is(err, sql.ErrNoRows) {
		return 0, errors.Conflict("held balance does not cover settlement")
	}
	if err != nil {
		return 0, errors.InternalServerError("error settle business balance")
	}

	return after, l.journal(ctx, tx, AccountBusiness, businessID, KindWithdrawalSettle, 0, after, reference)
}

// Release returns a hold to the withdrawable balance.
func (l *Ledger) Release(ctx context.Context, tx sqlx.ExtContext, businessID string, amount money.Cents, reference string) (money.Cents, error) {
	var after money.Cents
	err := tx.QueryRowxContext(ctx, queryRelease, businessID, amount).Scan(&after)
	if stderrors.Is(err, sql.ErrNoRows) {
		return 0, errors.Conflict("held balance does not cover release")
	}
	if err != nil {
		return 0, errors.InternalServerError("error release business balance")
	}

	return after, l.journal(ctx, tx, AccountBusiness, businessID, KindWithdrawalRelease, amount, after, reference)
}

// CreditAffiliate accrues a commission as unpaid earnings and counts the conversion.
func (l *Ledger) CreditAffiliate(ctx context.Context, tx sqlx.ExtContext, affiliateID string, amount money.Cents, reference string) (money.Cents, error) {
	var unpaid money.Cents
	err := tx.QueryRowxContext(ctx, queryCreditAffiliate, affiliateID, amount).Scan(&unpaid)
	if stderrors.Is(err, sql.ErrNoRows) {
		return 0, errors.NotFound("affiliate not found")
	}
	if err != nil {
		return 0, errors.InternalServerError("error credit affiliate earnings")
	}

	return unpaid, l.journal(ctx, tx, AccountAffiliate, affiliateID, KindAffiliateCommission, amount, unpaid, reference)
}

// SettleAffiliate marks every unpaid earning as paid and returns the settled amount.
func (l *Ledger) SettleAffiliate(ctx context.Context, tx sqlx.ExtContext, affiliateID string) (money.Cents, error) {
	var settled, earnings money.Cents
	err := tx.QueryRowxContext(ctx, querySettleAffiliate, affiliateID).Scan(&settled, &earnings)
	if stderrors.Is(err, sql.ErrNoRows) {
		return 0, errors.NotFound("affiliate not found")
	}
	if err != nil {
		return 0, errors.InternalServerError("error settle affiliate earnings")
	}

	if settled == 0 {
		return 0, nil
	}
	return settled, l.journal(ctx, tx, AccountAffiliate, affiliateID, KindAffiliateSettle, -settled, earnings, affiliateID)
}

func (l *Ledger) Balance(ctx context.Context, q sqlx.QueryerContext, businessID string) (BusinessBalance, error) {
	var b BusinessBalance
	err := sqlx.GetContext(ctx, q, &b, queryBalance, businessID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return BusinessBalance{}, errors.NotFound("business not found")
	}
	if err != nil {
		return BusinessBalance{}, errors.InternalServerError("error find business balance")
	}
	return b, nil
}

func (l *Ledger) journal(ctx context.Context, tx sqlx.ExtContext, accountType, accountID string, kind Kind, amount, after money.Cents, reference string) error {
	_, err := tx.ExecContext(ctx, queryInsertEntry,
		uuid.NewString(), accountType, accountID, kind, amount, after, reference, l.now())
	if err != nil {
		return errors.InternalServerError("error write ledger entry")
	}
	return nil
}
