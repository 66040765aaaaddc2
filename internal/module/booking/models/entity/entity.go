package entity

import (
	"database/sql"
	"time"

	"rental-service/internal/pkg/money"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusActive    BookingStatus = "active"
	StatusCancelled BookingStatus = "cancelled"
)

// transitions lists every allowed status change. Active and cancelled are terminal.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending: {StatusActive, StatusCancelled},
}

func (s BookingStatus) CanTransitionTo(to BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

type Booking struct {
	ID                  string        `db:"id"`
	CarID               string        `db:"car_id"`
	CarName             string        `db:"car_name"`
	BusinessID          string        `db:"business_id"`
	CustomerID          *string       `db:"customer_id"`
	CustomerName        string        `db:"customer_name"`
	CustomerEmail       string        `db:"customer_email"`
	StartDate           time.Time     `db:"start_date"`
	EndDate             time.Time     `db:"end_date"`
	BasePrice           money.Cents   `db:"base_price"`
	DiscountAmount      money.Cents   `db:"discount_amount"`
	BookingFee          money.Cents   `db:"booking_fee"`
	ServiceFee          money.Cents   `db:"service_fee"`
	TotalAmount         money.Cents   `db:"total_amount"`
	Payout              money.Cents   `db:"payout"`
	AffiliateID         *string       `db:"affiliate_id"`
	AffiliateCommission money.Cents   `db:"affiliate_commission"`
	Currency            string        `db:"currency"`
	Status              BookingStatus `db:"status"`
	InvoiceNumber       string        `db:"invoice_number"`
	CreatedAt           time.Time     `db:"created_at"`
	UpdatedAt           sql.NullTime  `db:"updated_at"`
}

// IsCustomerInitiated reports whether an authenticated customer made the booking.
func (b Booking) IsCustomerInitiated() bool {
	return b.CustomerID != nil && *b.CustomerID != ""
}

type Car struct {
	ID          string      `db:"id" json:"id"`
	BusinessID  string      `db:"business_id" json:"business_id"`
	Name        string      `db:"name" json:"name"`
	PricePerDay money.Cents `db:"price_per_day" json:"price_per_day"`
	Currency    string      `db:"currency" json:"currency"`
}

// AffiliateEntitlement is a customer's unused affiliate discount.
type AffiliateEntitlement struct {
	CustomerID  string `db:"customer_id"`
	AffiliateID string `db:"affiliate_id"`
}
