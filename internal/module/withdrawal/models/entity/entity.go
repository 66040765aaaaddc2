package entity

import (
	"database/sql"
	"fmt"
	"time"

	"rental-service/internal/pkg/money"

	"github.com/jmoiron/sqlx/types"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRejected  Status = "rejected"
)

// A failed withdrawal may go back to pending on retry. Completed and rejected are terminal.
var transitions = map[Status][]Status{
	StatusPending: {StatusCompleted, StatusFailed, StatusRejected},
	StatusFailed:  {StatusPending},
}

func (s Status) CanTransitionTo(to Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

type Method string

const (
	MethodPayPal Method = "paypal"
	MethodBank   Method = "bank"
)

type Withdrawal struct {
	ID                string         `db:"id"`
	BusinessID        string         `db:"business_id"`
	Email             string         `db:"email"`
	Amount            money.Cents    `db:"amount"`
	Currency          string         `db:"currency"`
	Method            Method         `db:"method"`
	Details           types.JSONText `db:"details"`
	Status            Status         `db:"status"`
	FailureReason     sql.NullString `db:"failure_reason"`
	ProviderReference sql.NullString `db:"provider_reference"`
	Attempts          int            `db:"attempts"`
	Retries           int            `db:"retries"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         sql.NullTime   `db:"updated_at"`
}

// BatchID is the provider batch id of the current payout attempt. Each retry
// from failed is a new payout and gets a new id; dispatches within one attempt
// share it.
func (w Withdrawal) BatchID() string {
	if w.Retries == 0 {
		return w.ID
	}
	return fmt.Sprintf("%s-%d", w.ID, w.Retries)
}
