package request

import "rental-service/internal/pkg/money"

type PayoutDetails struct {
	Receiver      string `json:"receiver,omitempty" validate:"omitempty,email"`
	AccountName   string `json:"account_name,omitempty" validate:"omitempty,max=120"`
	AccountNumber string `json:"account_number,omitempty" validate:"omitempty,max=34"`
	BankName      string `json:"bank_name,omitempty" validate:"omitempty,max=120"`
}

type RequestWithdrawal struct {
	Amount   money.Cents   `json:"amount" validate:"gt=0,lte=999999999999"`
	Method   string        `json:"method" validate:"required,oneof=paypal bank"`
	Currency string        `json:"currency" validate:"omitempty,len=3,alpha"`
	Details  PayoutDetails `json:"details"`
}

// Settlement is the reconciliation outcome for a pending withdrawal.
type Settlement struct {
	WithdrawalID      string `json:"withdrawal_id" validate:"required"`
	Outcome           string `json:"outcome" validate:"required,oneof=completed rejected"`
	Reason            string `json:"reason"`
	ProviderReference string `json:"provider_reference"`
}
