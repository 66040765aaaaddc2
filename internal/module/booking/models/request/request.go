package request

import "rental-service/internal/pkg/money"

const DateLayout = "2006-01-02"

// Actor is the authenticated caller resolved by the token middleware.
type Actor struct {
	UserID string
	Email  string
	Role   string
}

type CreateBooking struct {
	CarID        string      `json:"car_id" validate:"required"`
	CustomerName string      `json:"customer_name" validate:"required,max=120"`
	StartDate    string      `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string      `json:"end_date" validate:"required,datetime=2006-01-02"`
	BasePrice    money.Cents `json:"base_price" validate:"gte=0,lte=999999999999"`
	Currency     string      `json:"currency" validate:"omitempty,len=3,alpha"`
}
