package handler

import (
	"fmt"

	"rental-service/internal/module/affiliate/models/request"
	"rental-service/internal/module/affiliate/usecases"
	"rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/helpers"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

type AffiliateHandler struct {
	Log       *otelzap.Logger
	Validator *validator.Validate
	Usecase   usecases.Usecase
}

func (h *AffiliateHandler) CreateAffiliate(ctx *fiber.Ctx) error {
	userID, _ := ctx.Locals("user_id").(string)

	resp, err := h.Usecase.CreateAffiliate(ctx.UserContext(), userID)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error create affiliate: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespCreated(ctx, h.Log, resp, "success create affiliate")
}

func (h *AffiliateHandler) GetAffiliate(ctx *fiber.Ctx) error {
	userID, _ := ctx.Locals("user_id").(string)

	resp, err := h.Usecase.GetAffiliate(ctx.UserContext(), userID)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error get affiliate: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success get affiliate")
}

func (h *AffiliateHandler) ApplyCode(ctx *fiber.Ctx) error {
	var req request.ApplyCode
	if err := ctx.BodyParser(&req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}

	if err := helpers.ValidateStruct(h.Validator, req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error validate request: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	customerID, _ := ctx.Locals("user_id").(string)

	if err := h.Usecase.ApplyAffiliateCode(ctx.UserContext(), customerID, req.Code); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error apply affiliate code: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, nil, "affiliate discount applied to your next booking")
}

func (h *AffiliateHandler) TrackVisit(ctx *fiber.Ctx) error {
	if err := h.Usecase.TrackVisit(ctx.UserContext(), ctx.Params("code")); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error track affiliate visit: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, nil, "success track visit")
}

func (h *AffiliateHandler) SettleEarnings(ctx *fiber.Ctx) error {
	resp, err := h.Usecase.SettleEarnings(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error settle affiliate earnings: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success settle affiliate earnings")
}
