package payout

import (
	"context"
	stderrors "errors"

	"rental-service/internal/pkg/money"
)

var (
	// ErrRejected means the provider definitively refused the payout.
	ErrRejected = stderrors.New("payout rejected by provider")
	// ErrUnavailable means the outcome is unknown (timeout, 5xx, open breaker).
	// The payout may be retried with the same batch id.
	ErrUnavailable = stderrors.New("payout provider unavailable")
)

type Request struct {
	WithdrawalID string
	// BatchID identifies one payout attempt at the provider. Resending the same
	// BatchID never pays twice; a new BatchID is a new payout.
	BatchID string
	// ProviderReference is the provider's id for BatchID when a previous
	// attempt already learned it.
	ProviderReference string
	Amount            money.Cents
	Currency          string
	Receiver          string
	Note              string
}

func (r Request) batchID() string {
	if r.BatchID != "" {
		return r.BatchID
	}
	return r.WithdrawalID
}

type Result struct {
	ProviderReference string
	Status            string
}

// Provider sends money to a host's external account.
type Provider interface {
	ProcessPayout(ctx context.Context, req Request) (Result, error)
}
