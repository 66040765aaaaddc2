package response

import "rental-service/internal/pkg/money"

type Withdrawal struct {
	ID                string      `json:"id"`
	BusinessID        string      `json:"business_id"`
	Amount            money.Cents `json:"amount"`
	Currency          string      `json:"currency"`
	Method            string      `json:"method"`
	Status            string      `json:"status"`
	FailureReason     string      `json:"failure_reason,omitempty"`
	ProviderReference string      `json:"provider_reference,omitempty"`
	Attempts          int         `json:"attempts"`
	CreatedAt         string      `json:"created_at"`
}

type Balance struct {
	BusinessID  string      `json:"business_id"`
	Balance     money.Cents `json:"balance"`
	HeldBalance money.Cents `json:"held_balance"`
}
