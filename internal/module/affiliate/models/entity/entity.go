package entity

import (
	"database/sql"
	"time"

	"rental-service/internal/pkg/money"
)

const CodeLength = 8

type Affiliate struct {
	ID             string      `db:"id"`
	UserID         string      `db:"user_id"`
	Code           string      `db:"code"`
	Earnings       money.Cents `db:"earnings"`
	UnpaidEarnings money.Cents `db:"unpaid_earnings"`
	TotalEarnings  money.Cents `db:"total_earnings"`
	Referrals      int64       `db:"referrals"`
	Visits         int64       `db:"visits"`
	Conversions    int64       `db:"conversions"`
	CreatedAt      time.Time   `db:"created_at"`
}

// Entitlement is a customer's affiliate discount. BookingID is set once a
// booking consumes it.
type Entitlement struct {
	CustomerID  string         `db:"customer_id"`
	AffiliateID string         `db:"affiliate_id"`
	BookingID   sql.NullString `db:"booking_id"`
	CreatedAt   time.Time      `db:"created_at"`
}
