package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	request "rental-service/internal/module/booking/models/request"

	response "rental-service/internal/module/booking/models/response"
)

// Usecase is an autogenerated mock type for the Usecase type
type Usecase struct {
	mock.Mock
}

func (_m *Usecase) booking(ret mock.Arguments) (response.Booking, error) {
	var r0 response.Booking
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(response.Booking)
	}
	return r0, ret.Error(1)
}

// ApproveBooking provides a mock function with given fields: ctx, actor, bookingID
func (_m *Usecase) ApproveBooking(ctx context.Context, actor request.Actor, bookingID string) (response.Booking, error) {
	return _m.booking(_m.Called(ctx, actor, bookingID))
}

// CancelBooking provides a mock function with given fields: ctx, actor, bookingID
func (_m *Usecase) CancelBooking(ctx context.Context, actor request.Actor, bookingID string) (response.Booking, error) {
	return _m.booking(_m.Called(ctx, actor, bookingID))
}

// CreateBooking provides a mock function with given fields: ctx, actor, payload
func (_m *Usecase) CreateBooking(ctx context.Context, actor request.Actor, payload *request.CreateBooking) (response.Booking, error) {
	return _m.booking(_m.Called(ctx, actor, payload))
}

// DeleteBooking provides a mock function with given fields: ctx, actor, bookingID
func (_m *Usecase) DeleteBooking(ctx context.Context, actor request.Actor, bookingID string) error {
	ret := _m.Called(ctx, actor, bookingID)
	return ret.Error(0)
}

// GetBooking provides a mock function with given fields: ctx, actor, bookingID
func (_m *Usecase) GetBooking(ctx context.Context, actor request.Actor, bookingID string) (response.Booking, error) {
	return _m.booking(_m.Called(ctx, actor, bookingID))
}

// ListBookings provides a mock function with given fields: ctx, actor
func (_m *Usecase) ListBookings(ctx context.Context, actor request.Actor) ([]response.Booking, error) {
	ret := _m.Called(ctx, actor)

	var r0 []response.Booking
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]response.Booking)
	}
	return r0, ret.Error(1)
}

// RejectBooking provides a mock function with given fields: ctx, actor, bookingID
func (_m *Usecase) RejectBooking(ctx context.Context, actor request.Actor, bookingID string) (response.Booking, error) {
	return _m.booking(_m.Called(ctx, actor, bookingID))
}

// RenderInvoice provides a mock function with given fields: ctx, actor, bookingID
func (_m *Usecase) RenderInvoice(ctx context.Context, actor request.Actor, bookingID string) ([]byte, error) {
	ret := _m.Called(ctx, actor, bookingID)

	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Error(1)
}

// NewUsecase creates a new instance of Usecase. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewUsecase(t interface {
	mock.TestingT
	Cleanup(func())
}) *Usecase {
	mock := &Usecase{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
