package response

import "rental-service/internal/pkg/money"

type UserServiceValidate struct {
	IsValid   bool   `json:"is_valid"`
	UserID    string `json:"user_id"`
	EmailUser string `json:"email_user"`
	Role      string `json:"role"`
}

type Booking struct {
	ID             string      `json:"id"`
	CarID          string      `json:"car_id"`
	CarName        string      `json:"car_name"`
	BusinessID     string      `json:"business_id"`
	CustomerID     string      `json:"customer_id,omitempty"`
	CustomerName   string      `json:"customer_name"`
	StartDate      string      `json:"start_date"`
	EndDate        string      `json:"end_date"`
	BasePrice      money.Cents `json:"base_price"`
	DiscountAmount money.Cents `json:"discount_amount"`
	BookingFee     money.Cents `json:"booking_fee"`
	ServiceFee     money.Cents `json:"service_fee"`
	TotalAmount    money.Cents `json:"total_amount"`
	Payout         money.Cents `json:"payout"`
	Currency       string      `json:"currency"`
	Status         string      `json:"status"`
	InvoiceNumber  string      `json:"invoice_number"`
	CreatedAt      string      `json:"created_at"`
}

type StatusChanged struct {
	BookingID string `json:"booking_id"`
	From      string `json:"from"`
	To        string `json:"to"`
}
