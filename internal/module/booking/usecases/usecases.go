package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rental-service/internal/module/booking/models/entity"
	"rental-service/internal/module/booking/models/request"
	"rental-service/internal/module/booking/models/response"
	"rental-service/internal/module/booking/pricing"
	"rental-service/internal/module/booking/repositories"
	"rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/invoice"
	"rental-service/internal/pkg/middleware"
	"rental-service/internal/pkg/notification"

	"github.com/google/uuid"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.elastic.co/apm"
	"go.uber.org/zap"
)

type usecase struct {
	repo            repositories.Repositories
	log             *otelzap.Logger
	pricing         *pricing.Pipeline
	notifier        notification.Notifier
	defaultCurrency string
	now             func() time.Time
}

type Usecase interface {
	// http
	CreateBooking(ctx context.Context, actor request.Actor, payload *request.CreateBooking) (response.Booking, error)
	ApproveBooking(ctx context.Context, actor request.Actor, bookingID string) (response.Booking, error)
	RejectBooking(ctx context.Context, actor request.Actor, bookingID string) (response.Booking, error)
	CancelBooking(ctx context.Context, actor request.Actor, bookingID string) (response.Booking, error)
	GetBooking(ctx context.Context, actor request.Actor, bookingID string) (response.Booking, error)
	ListBookings(ctx context.Context, actor request.Actor) ([]response.Booking, error)
	DeleteBooking(ctx context.Context, actor request.Actor, bookingID string) error
	RenderInvoice(ctx context.Context, actor request.Actor, bookingID string) ([]byte, error)
}

func New(repo repositories.Repositories, log *otelzap.Logger, pricing *pricing.Pipeline, notifier notification.Notifier, defaultCurrency string) Usecase {
	return &usecase{
		repo:            repo,
		log:             log,
		pricing:         pricing,
		notifier:        notifier,
		defaultCurrency: strings.ToLower(defaultCurrency),
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (u *usecase) CreateBooking(ctx context.Context, actor request.Actor, payload *request.CreateBooking) (response.Booking, error) {
	span, ctx := apm.StartSpan(ctx, "CreateBooking", "usecase")
	defer span.End()

	start, end, err := parseRange(payload.StartDate, payload.EndDate)
	if err != nil {
		return response.Booking{}, err
	}

	car, err := u.repo.FindCarByID(ctx, payload.CarID)
	if err != nil {
		return response.Booking{}, err
	}

	booking := entity.Booking{
		ID:           uuid.NewString(),
		CarID:        car.ID,
		CarName:      car.Name,
		BusinessID:   car.BusinessID,
		CustomerName: payload.CustomerName,
		StartDate:    start,
		EndDate:      end,
		Currency:     u.currency(payload.Currency, car.Currency),
		CreatedAt:    u.now(),
	}

	walkIn := false
	switch actor.Role {
	case middleware.RoleCustomer:
		customerID := actor.UserID
		booking.CustomerID = &customerID
		booking.CustomerEmail = actor.Email
		booking.Status = entity.StatusPending
	default:
		if car.BusinessID != actor.UserID {
			return response.Booking{}, errors.Forbidden("car does not belong to this business")
		}
		booking.Status = entity.StatusActive
		walkIn = true
	}

	listPrice := payload.BasePrice
	if listPrice == 0 {
		listPrice, err = pricing.ListPrice(car.PricePerDay, start, end)
		if err != nil {
			return response.Booking{}, err
		}
	}

	discount := false
	if booking.CustomerID != nil {
		ent, found, err := u.repo.FindEntitlement(ctx, *booking.CustomerID)
		if err != nil {
			return response.Booking{}, err
		}
		if found {
			affiliateID := ent.AffiliateID
			booking.AffiliateID = &affiliateID
			discount = true
		}
	}

	breakdown, err := u.pricing.Compute(pricing.Input{ListPrice: listPrice, AffiliateDiscount: discount})
	if err != nil {
		return response.Booking{}, err
	}

	booking.BasePrice = breakdown.BasePrice
	booking.DiscountAmount = breakdown.DiscountAmount
	booking.BookingFee = breakdown.BookingFee
	booking.ServiceFee = breakdown.ServiceFee
	booking.TotalAmount = breakdown.TotalAmount
	booking.Payout = breakdown.Payout
	booking.AffiliateCommission = breakdown.AffiliateCommission
	booking.InvoiceNumber = invoiceNumber(booking.ID, booking.CreatedAt)

	if err := u.repo.CreateBooking(ctx, booking, walkIn); err != nil {
		return response.Booking{}, err
	}

	resp := toResponse(booking)
	u.notifier.PublishEvent(ctx, notification.TopicBookingCreated, resp)

	return resp, nil
}

func (u *usecase) ApproveBooking(ctx context.Context, actor request.Actor, bookingID string) (response.Booking, error) {
	span, ctx := apm.StartSpan(ctx, "ApproveBooking", "usecase")
	defer span.End()

	booking, err := u.ownedByBusiness(ctx, actor, bookingID)
	if err != nil {
		return response.Booking{}, err
	}

	if err := checkTransition(booking.Status, entity.StatusActive); err != nil {
		return response.Booking{}, err
	}

	if err := u.repo.ApproveBooking(ctx, booking); err != nil {
		return response.Booking{}, err
	}

	u.log.Ctx(ctx).Info("booking approved",
		zap.String("booking_id", booking.ID),
		zap.String("business_id", booking.BusinessID),
		zap.String("payout", booking.Payout.String()))

	return u.afterTransition(ctx, booking, entity.StatusActive, "booking_approved", "Your booking has been approved"), nil
}

func (u *usecase) RejectBooking(ctx context.Context, actor request.Actor, bookingID string) (response.Booking, error) {
	span, ctx := apm.StartSpan(ctx, "RejectBooking", "usecase")
	defer span.End()

	booking, err := u.ownedByBusiness(ctx, actor, bookingID)
	if err != nil {
		return response.Booking{}, err
	}

	if err := checkTransition(booking.Status, entity.StatusCancelled); err != nil {
		return response.Booking{}, err
	}

	if err := u.repo.CancelBooking(ctx, booking); err != nil {
		return response.Booking{}, err
	}

	return u.afterTransition(ctx, booking, entity.StatusCancelled, "booking_rejected", "Your booking has been rejected"), nil
}

func (u *usecase) CancelBooking(ctx context.Context, actor request.Actor, bookingID string) (response.Booking, error) {
	span, ctx := apm.StartSpan(ctx, "CancelBooking", "usecase")
	defer span.End()

	booking, err := u.repo.FindBookingByID(ctx, bookingID)
	if err != nil {
		return response.Booking{}, err
	}

	if booking.CustomerID == nil || *booking.CustomerID != actor.UserID {
		return response.Booking{}, errors.NotFound("booking not found")
	}

	if err := checkTransition(booking.Status, entity.StatusCancelled); err != nil {
		return response.Booking{}, err
	}

	if err := u.repo.CancelBooking(ctx, booking); err != nil {
		return response.Booking{}, err
	}

	return u.afterTransition(ctx, booking, entity.StatusCancelled, "booking_cancelled", "Your booking has been cancelled"), nil
}

func (u *usecase) GetBooking(ctx context.Context, actor request.Actor, bookingID string) (response.Booking, error) {
	span, ctx := apm.StartSpan(ctx, "GetBooking", "usecase")
	defer span.End()

	booking, err := u.visibleTo(ctx, actor, bookingID)
	if err != nil {
		return response.Booking{}, err
	}

	return toResponse(booking), nil
}

func (u *usecase) ListBookings(ctx context.Context, actor request.Actor) ([]response.Booking, error) {
	span, ctx := apm.StartSpan(ctx, "ListBookings", "usecase")
	defer span.End()

	var (
		bookings []entity.Booking
		err      error
	)
	if actor.Role == middleware.RoleCustomer {
		bookings, err = u.repo.FindBookingsByCustomerID(ctx, actor.UserID)
	} else {
		bookings, err = u.repo.FindBookingsByBusinessID(ctx, actor.UserID)
	}
	if err != nil {
		return nil, err
	}

	resp := make([]response.Booking, 0, len(bookings))
	for _, b := range bookings {
		resp = append(resp, toResponse(b))
	}
	return resp, nil
}

func (u *usecase) DeleteBooking(ctx context.Context, actor request.Actor, bookingID string) error {
	span, ctx := apm.StartSpan(ctx, "DeleteBooking", "usecase")
	defer span.End()

	if _, err := u.ownedByBusiness(ctx, actor, bookingID); err != nil {
		return err
	}

	return u.repo.DeleteBooking(ctx, bookingID)
}

func (u *usecase) RenderInvoice(ctx context.Context, actor request.Actor, bookingID string) ([]byte, error) {
	span, ctx := apm.StartSpan(ctx, "RenderInvoice", "usecase")
	defer span.End()

	booking, err := u.visibleTo(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	doc, err := invoice.Render(invoice.Data{
		InvoiceNumber:  booking.InvoiceNumber,
		BookingID:      booking.ID,
		IssuedAt:       booking.CreatedAt,
		CustomerName:   booking.CustomerName,
		CarName:        booking.CarName,
		StartDate:      booking.StartDate,
		EndDate:        booking.EndDate,
		BasePrice:      booking.BasePrice,
		DiscountAmount: booking.DiscountAmount,
		BookingFee:     booking.BookingFee,
		ServiceFee:     booking.ServiceFee,
		TotalAmount:    booking.TotalAmount,
		Payout:         booking.Payout,
		Currency:       booking.Currency,
		Status:         string(booking.Status),
	})
	if err != nil {
		u.log.Ctx(ctx).Error("error render invoice", zap.String("booking_id", booking.ID), zap.Error(err))
		return nil, errors.InternalServerError("error render invoice")
	}

	return doc, nil
}

func (u *usecase) ownedByBusiness(ctx context.Context, actor request.Actor, bookingID string) (entity.Booking, error) {
	booking, err := u.repo.FindBookingByID(ctx, bookingID)
	if err != nil {
		return entity.Booking{}, err
	}

	if actor.Role != middleware.RoleAdmin && booking.BusinessID != actor.UserID {
		return entity.Booking{}, errors.Forbidden("booking does not belong to this business")
	}

	return booking, nil
}

func (u *usecase) visibleTo(ctx context.Context, actor request.Actor, bookingID string) (entity.Booking, error) {
	booking, err := u.repo.FindBookingByID(ctx, bookingID)
	if err != nil {
		return entity.Booking{}, err
	}

	switch {
	case actor.Role == middleware.RoleAdmin:
	case booking.BusinessID == actor.UserID:
	case booking.CustomerID != nil && *booking.CustomerID == actor.UserID:
	default:
		return entity.Booking{}, errors.NotFound("booking not found")
	}

	return booking, nil
}

// afterTransition publishes the status change and notifies the customer.
// Delivery failures are logged by the notifier and never undo the transition.
func (u *usecase) afterTransition(ctx context.Context, booking entity.Booking, to entity.BookingStatus, template, subject string) response.Booking {
	from := booking.Status
	booking.Status = to

	u.notifier.PublishEvent(ctx, notification.TopicBookingStatusChanged, response.StatusChanged{
		BookingID: booking.ID,
		From:      string(from),
		To:        string(to),
	})

	if booking.IsCustomerInitiated() {
		u.notifier.Notify(ctx, notification.Message{
			Recipient: booking.CustomerEmail,
			Subject:   subject,
			Template:  template,
			Data: map[string]string{
				"booking_id":    booking.ID,
				"car_name":      booking.CarName,
				"customer_name": booking.CustomerName,
				"total_amount":  booking.TotalAmount.String(),
			},
		})
	}

	return toResponse(booking)
}

func (u *usecase) currency(requested, fallback string) string {
	switch {
	case requested != "":
		return strings.ToLower(requested)
	case fallback != "":
		return strings.ToLower(fallback)
	}
	return u.defaultCurrency
}

func checkTransition(from, to entity.BookingStatus) error {
	if !from.CanTransitionTo(to) {
		return errors.Conflict(fmt.Sprintf("booking cannot move from %s to %s", from, to))
	}
	return nil
}

func parseRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse(request.DateLayout, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.ValidationError("error validate request", map[string]string{
			"start_date": "must be a date in YYYY-MM-DD format",
		})
	}

	end, err := time.Parse(request.DateLayout, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.ValidationError("error validate request", map[string]string{
			"end_date": "must be a date in YYYY-MM-DD format",
		})
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.ValidationError("error validate request", map[string]string{
			"end_date": "must not be before start_date",
		})
	}

	return start, end, nil
}

func invoiceNumber(id string, createdAt time.Time) string {
	short := strings.ReplaceAll(id, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("INV-%s-%s", createdAt.Format("20060102"), strings.ToUpper(short))
}

func toResponse(b entity.Booking) response.Booking {
	resp := response.Booking{
		ID:             b.ID,
		CarID:          b.CarID,
		CarName:        b.CarName,
		BusinessID:     b.BusinessID,
		CustomerName:   b.CustomerName,
		StartDate:      b.StartDate.Format(request.DateLayout),
		EndDate:        b.EndDate.Format(request.DateLayout),
		BasePrice:      b.BasePrice,
		DiscountAmount: b.DiscountAmount,
		BookingFee:     b.BookingFee,
		ServiceFee:     b.ServiceFee,
		TotalAmount:    b.TotalAmount,
		Payout:         b.Payout,
		Currency:       b.Currency,
		Status:         string(b.Status),
		InvoiceNumber:  b.InvoiceNumber,
		CreatedAt:      b.CreatedAt.Format(time.RFC3339),
	}
	if b.CustomerID != nil {
		resp.CustomerID = *b.CustomerID
	}
	return resp
}
