package router

import (
	affiliate "rental-service/internal/module/affiliate/handler"
	booking "rental-service/internal/module/booking/handler"
	withdrawal "rental-service/internal/module/withdrawal/handler"
	"rental-service/internal/pkg/middleware"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Booking    *booking.BookingHandler
	Withdrawal *withdrawal.WithdrawalHandler
	Affiliate  *affiliate.AffiliateHandler
}

func Initialize(app *fiber.App, h Handlers, m *middleware.Middleware) *fiber.App {

	// health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("OK")
	})

	Api := app.Group("/api")

	business := m.RequireRole(middleware.RoleBusiness, middleware.RoleAdmin)
	customer := m.RequireRole(middleware.RoleCustomer)

	// public routes
	v1 := Api.Group("/v1")
	v1.Post("/affiliates/:code/visit", h.Affiliate.TrackVisit)

	// bookings
	v1.Post("/bookings", m.ValidateToken, h.Booking.CreateBooking)
	v1.Get("/bookings", m.ValidateToken, h.Booking.ListBookings)
	v1.Get("/bookings/:id", m.ValidateToken, h.Booking.GetBooking)
	v1.Get("/bookings/:id/invoice", m.ValidateToken, h.Booking.DownloadInvoice)
	v1.Post("/bookings/:id/approve", m.ValidateToken, business, h.Booking.ApproveBooking)
	v1.Post("/bookings/:id/reject", m.ValidateToken, business, h.Booking.RejectBooking)
	v1.Post("/bookings/:id/cancel", m.ValidateToken, customer, h.Booking.CancelBooking)
	v1.Delete("/bookings/:id", m.ValidateToken, business, h.Booking.DeleteBooking)

	// balance and withdrawals
	v1.Get("/balance", m.ValidateToken, business, h.Withdrawal.GetBalance)
	v1.Post("/withdrawals", m.ValidateToken, business, h.Withdrawal.RequestWithdrawal)
	v1.Get("/withdrawals", m.ValidateToken, business, h.Withdrawal.ListWithdrawals)
	v1.Post("/withdrawals/:id/retry", m.ValidateToken, business, h.Withdrawal.RetryWithdrawal)

	// affiliates
	v1.Post("/affiliates", m.ValidateToken, h.Affiliate.CreateAffiliate)
	v1.Get("/affiliates/me", m.ValidateToken, h.Affiliate.GetAffiliate)
	v1.Post("/affiliates/apply", m.ValidateToken, customer, h.Affiliate.ApplyCode)

	private := Api.Group("/private")
	private.Post("/withdrawals/:id/settle", h.Withdrawal.SettleWithdrawal)
	private.Post("/affiliates/:id/settle", h.Affiliate.SettleEarnings)

	return app

}
