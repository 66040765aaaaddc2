package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"rental-service/internal/module/withdrawal/models/entity"
	"rental-service/internal/module/withdrawal/models/request"
	"rental-service/internal/module/withdrawal/models/response"
	"rental-service/internal/module/withdrawal/repositories"
	"rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/locker"
	"rental-service/internal/pkg/notification"
	"rental-service/internal/pkg/payout"
	"rental-service/internal/pkg/scheduler"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.elastic.co/apm"
	"go.uber.org/zap"
)

type usecase struct {
	repo            repositories.Repositories
	log             *otelzap.Logger
	locker          locker.Locker
	provider        payout.Provider
	scheduler       scheduler.Enqueuer
	notifier        notification.Notifier
	retryDelay      time.Duration
	defaultCurrency string
	now             func() time.Time
}

type Usecase interface {
	// http
	RequestWithdrawal(ctx context.Context, businessID, email string, payload *request.RequestWithdrawal) (response.Withdrawal, error)
	RetryWithdrawal(ctx context.Context, businessID, withdrawalID string) (response.Withdrawal, error)
	ListWithdrawals(ctx context.Context, businessID string) ([]response.Withdrawal, error)
	GetBalance(ctx context.Context, businessID string) (response.Balance, error)
	// http private, message stream
	SettleWithdrawal(ctx context.Context, payload *request.Settlement) (response.Withdrawal, error)
	// scheduler
	DispatchPayout(ctx context.Context, withdrawalID string) error
}

type Options struct {
	RetryDelay      time.Duration
	DefaultCurrency string
}

func New(repo repositories.Repositories, log *otelzap.Logger, locker locker.Locker, provider payout.Provider, scheduler scheduler.Enqueuer, notifier notification.Notifier, opts Options) Usecase {
	return &usecase{
		repo:            repo,
		log:             log,
		locker:          locker,
		provider:        provider,
		scheduler:       scheduler,
		notifier:        notifier,
		retryDelay:      opts.RetryDelay,
		defaultCurrency: strings.ToLower(opts.DefaultCurrency),
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func lockKey(businessID string) string {
	return fmt.Sprintf("withdrawal:%s", businessID)
}

func (u *usecase) RequestWithdrawal(ctx context.Context, businessID, email string, payload *request.RequestWithdrawal) (response.Withdrawal, error) {
	span, ctx := apm.StartSpan(ctx, "RequestWithdrawal", "usecase")
	defer span.End()

	if err := validateDetails(entity.Method(payload.Method), payload.Details); err != nil {
		return response.Withdrawal{}, err
	}

	details, err := json.Marshal(payload.Details)
	if err != nil {
		return response.Withdrawal{}, errors.BadRequest("error encode payout details")
	}

	currency := strings.ToLower(payload.Currency)
	if currency == "" {
		currency = u.defaultCurrency
	}

	withdrawal := entity.Withdrawal{
		ID:         uuid.NewString(),
		BusinessID: businessID,
		Email:      email,
		Amount:     payload.Amount,
		Currency:   currency,
		Method:     entity.Method(payload.Method),
		Details:    details,
		Status:     entity.StatusPending,
		CreatedAt:  u.now(),
	}

	unlock, err := u.locker.Lock(ctx, lockKey(businessID))
	if err != nil {
		return response.Withdrawal{}, err
	}
	err = u.repo.CreateWithdrawal(ctx, withdrawal)
	unlock()
	if err != nil {
		return response.Withdrawal{}, err
	}

	u.log.Ctx(ctx).Info("withdrawal reserved",
		zap.String("withdrawal_id", withdrawal.ID),
		zap.String("business_id", businessID),
		zap.String("amount", withdrawal.Amount.String()))

	if withdrawal.Method != entity.MethodPayPal {
		return toResponse(withdrawal), nil
	}

	withdrawal, _ = u.dispatch(ctx, withdrawal, true)
	return toResponse(withdrawal), nil
}

// dispatch sends a pending paypal withdrawal to the provider and applies the
// outcome. An unknown outcome keeps the hold; when schedule is set a delayed
// dispatch is queued, otherwise the error is returned for the caller to retry.
func (u *usecase) dispatch(ctx context.Context, withdrawal entity.Withdrawal, schedule bool) (entity.Withdrawal, error) {
	var details request.PayoutDetails
	if err := json.Unmarshal(withdrawal.Details, &details); err != nil || details.Receiver == "" {
		u.log.Ctx(ctx).Error("error decode payout details", zap.String("withdrawal_id", withdrawal.ID), zap.Error(err))
		return u.fail(ctx, withdrawal, "stored payout details are unreadable")
	}

	result, err := u.provider.ProcessPayout(ctx, payout.Request{
		WithdrawalID:      withdrawal.ID,
		BatchID:           withdrawal.BatchID(),
		ProviderReference: withdrawal.ProviderReference.String,
		Amount:            withdrawal.Amount,
		Currency:          withdrawal.Currency,
		Receiver:          details.Receiver,
		Note:              "Withdrawal " + withdrawal.ID,
	})

	switch {
	case err == nil:
		if err := u.repo.CompleteWithdrawal(ctx, withdrawal, result.ProviderReference); err != nil {
			u.log.Ctx(ctx).Error("payout sent but withdrawal not completed",
				zap.String("withdrawal_id", withdrawal.ID), zap.Error(err))
			u.recordAttempt(ctx, withdrawal, result.ProviderReference)
			return withdrawal, u.deferDispatch(ctx, withdrawal, schedule, err)
		}
		withdrawal.Status = entity.StatusCompleted
		withdrawal.ProviderReference.String, withdrawal.ProviderReference.Valid = result.ProviderReference, true
		u.notifyOutcome(ctx, withdrawal)
		return withdrawal, nil

	case stderrors.Is(err, payout.ErrRejected):
		return u.fail(ctx, withdrawal, err.Error())
	}

	u.log.Ctx(ctx).Warn("payout outcome unknown, withdrawal stays pending",
		zap.String("withdrawal_id", withdrawal.ID), zap.Error(err))
	u.recordAttempt(ctx, withdrawal, result.ProviderReference)
	return withdrawal, u.deferDispatch(ctx, withdrawal, schedule, err)
}

// fail marks a pending withdrawal failed and releases its hold.
func (u *usecase) fail(ctx context.Context, withdrawal entity.Withdrawal, reason string) (entity.Withdrawal, error) {
	if err := u.repo.FailWithdrawal(ctx, withdrawal, entity.StatusFailed, reason); err != nil {
		u.log.Ctx(ctx).Error("error fail withdrawal", zap.String("withdrawal_id", withdrawal.ID), zap.Error(err))
		return withdrawal, err
	}
	withdrawal.Status = entity.StatusFailed
	withdrawal.FailureReason.String, withdrawal.FailureReason.Valid = reason, true
	u.notifyOutcome(ctx, withdrawal)
	return withdrawal, nil
}

func (u *usecase) recordAttempt(ctx context.Context, withdrawal entity.Withdrawal, providerReference string) {
	if err := u.repo.RecordAttempt(ctx, withdrawal.ID, providerReference); err != nil {
		u.log.Ctx(ctx).Warn("error record payout attempt", zap.String("withdrawal_id", withdrawal.ID), zap.Error(err))
	}
}

func (u *usecase) deferDispatch(ctx context.Context, withdrawal entity.Withdrawal, schedule bool, cause error) error {
	if !schedule {
		return cause
	}
	if err := u.scheduler.EnqueueDispatchPayout(ctx, withdrawal.ID, u.retryDelay); err != nil {
		u.log.Ctx(ctx).Error("error schedule payout dispatch", zap.String("withdrawal_id", withdrawal.ID), zap.Error(err))
		return err
	}
	return nil
}

func (u *usecase) DispatchPayout(ctx context.Context, withdrawalID string) error {
	span, ctx := apm.StartSpan(ctx, "DispatchPayout", "usecase")
	defer span.End()

	withdrawal, err := u.repo.FindWithdrawalByID(ctx, withdrawalID)
	if err != nil {
		if errors.Is(err, 404) {
			u.log.Ctx(ctx).Warn("dispatch for unknown withdrawal", zap.String("withdrawal_id", withdrawalID))
			return nil
		}
		return err
	}

	if withdrawal.Status != entity.StatusPending || withdrawal.Method != entity.MethodPayPal {
		return nil
	}

	_, err = u.dispatch(ctx, withdrawal, false)
	return err
}

func (u *usecase) RetryWithdrawal(ctx context.Context, businessID, withdrawalID string) (response.Withdrawal, error) {
	span, ctx := apm.StartSpan(ctx, "RetryWithdrawal", "usecase")
	defer span.End()

	withdrawal, err := u.repo.FindWithdrawalByID(ctx, withdrawalID)
	if err != nil {
		return response.Withdrawal{}, err
	}
	if withdrawal.BusinessID != businessID {
		return response.Withdrawal{}, errors.NotFound("withdrawal not found")
	}
	if !withdrawal.Status.CanTransitionTo(entity.StatusPending) {
		return response.Withdrawal{}, errors.Conflict(fmt.Sprintf("withdrawal is %s and cannot be retried", withdrawal.Status))
	}

	unlock, err := u.locker.Lock(ctx, lockKey(businessID))
	if err != nil {
		return response.Withdrawal{}, err
	}
	err = u.repo.RetryWithdrawal(ctx, withdrawal)
	unlock()
	if err != nil {
		return response.Withdrawal{}, err
	}

	withdrawal.Status = entity.StatusPending
	withdrawal.FailureReason.Valid = false
	withdrawal.ProviderReference.Valid = false
	withdrawal.ProviderReference.String = ""
	withdrawal.Retries++

	if withdrawal.Method == entity.MethodPayPal {
		withdrawal, _ = u.dispatch(ctx, withdrawal, true)
	}
	return toResponse(withdrawal), nil
}

func (u *usecase) SettleWithdrawal(ctx context.Context, payload *request.Settlement) (response.Withdrawal, error) {
	span, ctx := apm.StartSpan(ctx, "SettleWithdrawal", "usecase")
	defer span.End()

	withdrawal, err := u.repo.FindWithdrawalByID(ctx, payload.WithdrawalID)
	if err != nil {
		return response.Withdrawal{}, err
	}

	to := entity.Status(payload.Outcome)
	if !withdrawal.Status.CanTransitionTo(to) {
		return response.Withdrawal{}, errors.Conflict(fmt.Sprintf("withdrawal cannot move from %s to %s", withdrawal.Status, to))
	}

	switch to {
	case entity.StatusCompleted:
		if err := u.repo.CompleteWithdrawal(ctx, withdrawal, payload.ProviderReference); err != nil {
			return response.Withdrawal{}, err
		}
		withdrawal.ProviderReference.String, withdrawal.ProviderReference.Valid = payload.ProviderReference, payload.ProviderReference != ""
	case entity.StatusRejected:
		if err := u.repo.FailWithdrawal(ctx, withdrawal, entity.StatusRejected, payload.Reason); err != nil {
			return response.Withdrawal{}, err
		}
		withdrawal.FailureReason.String, withdrawal.FailureReason.Valid = payload.Reason, payload.Reason != ""
	default:
		return response.Withdrawal{}, errors.BadRequest("unsupported settlement outcome")
	}

	withdrawal.Status = to
	u.notifyOutcome(ctx, withdrawal)

	return toResponse(withdrawal), nil
}

func (u *usecase) ListWithdrawals(ctx context.Context, businessID string) ([]response.Withdrawal, error) {
	span, ctx := apm.StartSpan(ctx, "ListWithdrawals", "usecase")
	defer span.End()

	withdrawals, err := u.repo.FindWithdrawalsByBusinessID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	resp := make([]response.Withdrawal, 0, len(withdrawals))
	for _, w := range withdrawals {
		resp = append(resp, toResponse(w))
	}
	return resp, nil
}

func (u *usecase) GetBalance(ctx context.Context, businessID string) (response.Balance, error) {
	span, ctx := apm.StartSpan(ctx, "GetBalance", "usecase")
	defer span.End()

	b, err := u.repo.FindBalance(ctx, businessID)
	if err != nil {
		return response.Balance{}, err
	}

	return response.Balance{
		BusinessID:  b.BusinessID,
		Balance:     b.Balance,
		HeldBalance: b.HeldBalance,
	}, nil
}

func (u *usecase) notifyOutcome(ctx context.Context, withdrawal entity.Withdrawal) {
	data := map[string]string{
		"withdrawal_id": withdrawal.ID,
		"amount":        withdrawal.Amount.String(),
		"currency":      withdrawal.Currency,
		"status":        string(withdrawal.Status),
	}
	if withdrawal.FailureReason.Valid {
		data["reason"] = withdrawal.FailureReason.String
	}

	u.notifier.Notify(ctx, notification.Message{
		Recipient: withdrawal.Email,
		Subject:   fmt.Sprintf("Your withdrawal is %s", withdrawal.Status),
		Template:  "withdrawal_" + string(withdrawal.Status),
		Data:      data,
	})
}

func validateDetails(method entity.Method, d request.PayoutDetails) error {
	fields := map[string]string{}
	switch method {
	case entity.MethodPayPal:
		if d.Receiver == "" {
			fields["details.receiver"] = "is required for paypal"
		}
	case entity.MethodBank:
		if d.AccountName == "" {
			fields["details.account_name"] = "is required for bank"
		}
		if d.AccountNumber == "" {
			fields["details.account_number"] = "is required for bank"
		}
		if d.BankName == "" {
			fields["details.bank_name"] = "is required for bank"
		}
	default:
		fields["method"] = "must be one of paypal bank"
	}

	if len(fields) > 0 {
		return errors.ValidationError("error validate request", fields)
	}
	return nil
}

func toResponse(w entity.Withdrawal) response.Withdrawal {
	return response.Withdrawal{
		ID:                w.ID,
		BusinessID:        w.BusinessID,
		Amount:            w.Amount,
		Currency:          w.Currency,
		Method:            string(w.Method),
		Status:            string(w.Status),
		FailureReason:     w.FailureReason.String,
		ProviderReference: w.ProviderReference.String,
		Attempts:          w.Attempts,
		CreatedAt:         w.CreatedAt.Format(time.RFC3339),
	}
}
