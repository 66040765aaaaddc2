package mocks

import (
	context "context"

	request "rental-service/internal/module/withdrawal/models/request"

	response "rental-service/internal/module/withdrawal/models/response"

	mock "github.com/stretchr/testify/mock"
)

// Usecase is a mock type for the Usecase type
type Usecase struct {
	mock.Mock
}

func withdrawal(ret mock.Arguments) (response.Withdrawal, error) {
	var r0 response.Withdrawal
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(response.Withdrawal)
	}
	return r0, ret.Error(1)
}

// DispatchPayout provides a mock function with given fields: ctx, withdrawalID
func (_m *Usecase) DispatchPayout(ctx context.Context, withdrawalID string) error {
	ret := _m.Called(ctx, withdrawalID)
	return ret.Error(0)
}

// GetBalance provides a mock function with given fields: ctx, businessID
func (_m *Usecase) GetBalance(ctx context.Context, businessID string) (response.Balance, error) {
	ret := _m.Called(ctx, businessID)

	var r0 response.Balance
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(response.Balance)
	}
	return r0, ret.Error(1)
}

// ListWithdrawals provides a mock function with given fields: ctx, businessID
func (_m *Usecase) ListWithdrawals(ctx context.Context, businessID string) ([]response.Withdrawal, error) {
	ret := _m.Called(ctx, businessID)

	var r0 []response.Withdrawal
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]response.Withdrawal)
	}
	return r0, ret.Error(1)
}

// RequestWithdrawal provides a mock function with given fields: ctx, businessID, email, payload
func (_m *Usecase) RequestWithdrawal(ctx context.Context, businessID string, email string, payload *request.RequestWithdrawal) (response.Withdrawal, error) {
	return withdrawal(_m.Called(ctx, businessID, email, payload))
}

// RetryWithdrawal provides a mock function with given fields: ctx, businessID, withdrawalID
func (_m *Usecase) RetryWithdrawal(ctx context.Context, businessID string, withdrawalID string) (response.Withdrawal, error) {
	return withdrawal(_m.Called(ctx, businessID, withdrawalID))
}

// SettleWithdrawal provides a mock function with given fields: ctx, payload
func (_m *Usecase) SettleWithdrawal(ctx context.Context, payload *request.Settlement) (response.Withdrawal, error) {
	return withdrawal(_m.Called(ctx, payload))
}

// NewUsecase creates a new instance of Usecase. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewUsecase(t interface {
	mock.TestingT
	Cleanup(func())
}) *Usecase {
	mock := &Usecase{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
