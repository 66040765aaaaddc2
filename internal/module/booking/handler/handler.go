package handler

import (
	"fmt"

	"rental-service/internal/module/booking/models/request"
	"rental-service/internal/module/booking/usecases"
	"rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/helpers"
	"rental-service/internal/pkg/invoice"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

type BookingHandler struct {
	Log       *otelzap.Logger
	Validator *validator.Validate
	Usecase   usecases.Usecase
}

func actor(ctx *fiber.Ctx) request.Actor {
	userID, _ := ctx.Locals("user_id").(string)
	email, _ := ctx.Locals("email_user").(string)
	role, _ := ctx.Locals("role").(string)
	return request.Actor{UserID: userID, Email: email, Role: role}
}

func (h *BookingHandler) CreateBooking(ctx *fiber.Ctx) error {
	var req request.CreateBooking
	if err := ctx.BodyParser(&req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}

	if err := helpers.ValidateStruct(h.Validator, req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error validate request: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	resp, err := h.Usecase.CreateBooking(ctx.UserContext(), actor(ctx), &req)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error create booking: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespCreated(ctx, h.Log, resp, "success create booking")
}

func (h *BookingHandler) ApproveBooking(ctx *fiber.Ctx) error {
	resp, err := h.Usecase.ApproveBooking(ctx.UserContext(), actor(ctx), ctx.Params("id"))
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error approve booking: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success approve booking")
}

func (h *BookingHandler) RejectBooking(ctx *fiber.Ctx) error {
	resp, err := h.Usecase.RejectBooking(ctx.UserContext(), actor(ctx), ctx.Params("id"))
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error reject booking: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success reject booking")
}

func (h *BookingHandler) CancelBooking(ctx *fiber.Ctx) error {
	resp, err := h.Usecase.CancelBooking(ctx.UserContext(), actor(ctx), ctx.Params("id"))
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error cancel booking: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success cancel booking")
}

func (h *BookingHandler) GetBooking(ctx *fiber.Ctx) error {
	resp, err := h.Usecase.GetBooking(ctx.UserContext(), actor(ctx), ctx.Params("id"))
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error get booking: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success get booking")
}

func (h *BookingHandler) ListBookings(ctx *fiber.Ctx) error {
	resp, err := h.Usecase.ListBookings(ctx.UserContext(), actor(ctx))
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error list bookings: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success list bookings")
}

func (h *BookingHandler) DeleteBooking(ctx *fiber.Ctx) error {
	if err := h.Usecase.DeleteBooking(ctx.UserContext(), actor(ctx), ctx.Params("id")); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error delete booking: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, nil, "success delete booking")
}

func (h *BookingHandler) DownloadInvoice(ctx *fiber.Ctx) error {
	doc, err := h.Usecase.RenderInvoice(ctx.UserContext(), actor(ctx), ctx.Params("id"))
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error render invoice: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	ctx.Set(fiber.HeaderContentType, invoice.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="invoice-%s.txt"`, ctx.Params("id")))
	return ctx.Status(fiber.StatusOK).Send(doc)
}
