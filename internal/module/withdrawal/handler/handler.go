package handler

import (
	"context"
	"fmt"

	"rental-service/internal/module/withdrawal/models/request"
	"rental-service/internal/module/withdrawal/usecases"
	"rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/helpers"
	"rental-service/internal/pkg/notification"
	"rental-service/internal/pkg/scheduler"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

const TopicWithdrawalSettlement = "withdrawal_settlement"

type WithdrawalHandler struct {
	Log       *otelzap.Logger
	Validator *validator.Validate
	Usecase   usecases.Usecase
	Publish   message.Publisher
}

func outcomeMessage(status string) string {
	switch status {
	case "completed":
		return "withdrawal completed"
	case "failed":
		return "withdrawal failed"
	}
	return "withdrawal is pending"
}

func (h *WithdrawalHandler) RequestWithdrawal(ctx *fiber.Ctx) error {
	var req request.RequestWithdrawal
	if err := ctx.BodyParser(&req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}

	if err := helpers.ValidateStruct(h.Validator, req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error validate request: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	businessID, _ := ctx.Locals("user_id").(string)
	email, _ := ctx.Locals("email_user").(string)

	resp, err := h.Usecase.RequestWithdrawal(ctx.UserContext(), businessID, email, &req)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error request withdrawal: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespCreated(ctx, h.Log, resp, outcomeMessage(resp.Status))
}

func (h *WithdrawalHandler) RetryWithdrawal(ctx *fiber.Ctx) error {
	businessID, _ := ctx.Locals("user_id").(string)

	resp, err := h.Usecase.RetryWithdrawal(ctx.UserContext(), businessID, ctx.Params("id"))
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error retry withdrawal: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, outcomeMessage(resp.Status))
}

func (h *WithdrawalHandler) ListWithdrawals(ctx *fiber.Ctx) error {
	businessID, _ := ctx.Locals("user_id").(string)

	resp, err := h.Usecase.ListWithdrawals(ctx.UserContext(), businessID)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error list withdrawals: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success list withdrawals")
}

func (h *WithdrawalHandler) GetBalance(ctx *fiber.Ctx) error {
	businessID, _ := ctx.Locals("user_id").(string)

	resp, err := h.Usecase.GetBalance(ctx.UserContext(), businessID)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error get balance: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success get balance")
}

func (h *WithdrawalHandler) SettleWithdrawal(ctx *fiber.Ctx) error {
	var req request.Settlement
	if err := ctx.BodyParser(&req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}
	req.WithdrawalID = ctx.Params("id")

	if err := helpers.ValidateStruct(h.Validator, req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error validate request: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	resp, err := h.Usecase.SettleWithdrawal(ctx.UserContext(), &req)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error settle withdrawal: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success settle withdrawal")
}

func (h *WithdrawalHandler) ConsumeSettlement(msg *message.Message) error {
	msg.Ack() // acknowledge message
	ctx := msg.Context()

	var req request.Settlement
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		h.Log.Ctx(ctx).Error(fmt.Sprintf("error unmarshal settlement: %v", err))
		notification.PublishPoisoned(ctx, h.Publish, h.Log, TopicWithdrawalSettlement, msg.Payload, err)
		return nil
	}

	if err := helpers.ValidateStruct(h.Validator, req); err != nil {
		h.Log.Ctx(ctx).Error(fmt.Sprintf("error validate settlement: %v", err))
		notification.PublishPoisoned(ctx, h.Publish, h.Log, TopicWithdrawalSettlement, msg.Payload, err)
		return nil
	}

	if _, err := h.Usecase.SettleWithdrawal(ctx, &req); err != nil {
		h.Log.Ctx(ctx).Error(fmt.Sprintf("error settle withdrawal: %v", err))
		notification.PublishPoisoned(ctx, h.Publish, h.Log, TopicWithdrawalSettlement, msg.Payload, err)
		return nil
	}

	return nil
}

func (h *WithdrawalHandler) DispatchPayout(ctx context.Context, t *asynq.Task) error {
	var payload scheduler.DispatchWithdrawalPayout
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.Log.Ctx(ctx).Error(fmt.Sprintf("error unmarshal dispatch payload: %v", err))
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := h.Validator.Struct(payload); err != nil {
		return fmt.Errorf("validate payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := h.Usecase.DispatchPayout(ctx, payload.WithdrawalID); err != nil {
		h.Log.Ctx(ctx).Warn(fmt.Sprintf("dispatch payout %s: %v", payload.WithdrawalID, err))
		return err
	}

	return nil
}
