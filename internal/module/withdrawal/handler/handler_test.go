package handler_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"rental-service/internal/module/withdrawal/handler"
	"rental-service/internal/module/withdrawal/mocks"
	"rental-service/internal/module/withdrawal/models/request"
	"rental-service/internal/module/withdrawal/models/response"
	"rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/helpers"
	log_internal "rental-service/internal/pkg/log"
	"rental-service/internal/pkg/messagestream"
	"rental-service/internal/pkg/money"
	"rental-service/internal/pkg/payout"
	"rental-service/internal/pkg/scheduler"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	h   *handler.WithdrawalHandler
	ucm *mocks.Usecase
	pub *mockPublisher
	app *fiber.App
)

type mockPublisher struct {
	mu       sync.Mutex
	messages map[string][]*message.Message
}

// Close implements message.Publisher.
func (m *mockPublisher) Close() error {
	return nil
}

// Publish implements message.Publisher.
func (m *mockPublisher) Publish(topic string, messages ...*message.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[topic] = append(m.messages[topic], messages...)
	return nil
}

func setup(t *testing.T) {
	ucm = mocks.NewUsecase(t)
	pub = &mockPublisher{messages: map[string][]*message.Message{}}
	h = &handler.WithdrawalHandler{
		Log:       log_internal.Setup(),
		Validator: helpers.NewValidator(),
		Usecase:   ucm,
		Publish:   pub,
	}

	app = fiber.New()
	app.Use(func(ctx *fiber.Ctx) error {
		ctx.Locals("user_id", "biz-1")
		ctx.Locals("email_user", "host@example.com")
		ctx.Locals("role", "business")
		return ctx.Next()
	})
	app.Post("/api/v1/withdrawals", h.RequestWithdrawal)
	app.Get("/api/v1/balance", h.GetBalance)
	app.Post("/api/private/withdrawals/:id/settle", h.SettleWithdrawal)
}

func TestRequestWithdrawal(t *testing.T) {
	t.Run("pending outcome is reported as created", func(t *testing.T) {
		setup(t)

		payload := request.RequestWithdrawal{
			Amount:  money.MustParse("50.00"),
			Method:  "paypal",
			Details: request.PayoutDetails{Receiver: "host@example.com"},
		}
		ucm.On("RequestWithdrawal", mock.Anything, "biz-1", "host@example.com", &payload).
			Return(response.Withdrawal{ID: "w-1", Status: "pending"}, nil)

		body, _ := json.Marshal(payload)
		req := httptest.NewRequest("POST", "/api/v1/withdrawals", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var out helpers.Response
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "withdrawal is pending", out.Message)
	})

	t.Run("non positive amount", func(t *testing.T) {
		setup(t)

		req := httptest.NewRequest("POST", "/api/v1/withdrawals", bytes.NewReader([]byte(`{"amount":0,"method":"paypal"}`)))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		setup(t)

		ucm.On("RequestWithdrawal", mock.Anything, "biz-1", "host@example.com", mock.Anything).
			Return(response.Withdrawal{}, errors.InsufficientBalance("insufficient balance"))

		req := httptest.NewRequest("POST", "/api/v1/withdrawals", bytes.NewReader([]byte(
			`{"amount":"500.00","method":"paypal","details":{"receiver":"host@example.com"}}`)))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestGetBalance(t *testing.T) {
	setup(t)

	ucm.On("GetBalance", mock.Anything, "biz-1").
		Return(response.Balance{BusinessID: "biz-1", Balance: money.MustParse("12.50")}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/balance", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSettleWithdrawal(t *testing.T) {
	setup(t)

	ucm.On("SettleWithdrawal", mock.Anything, &request.Settlement{WithdrawalID: "w-1", Outcome: "completed", ProviderReference: "WIRE-1"}).
		Return(response.Withdrawal{ID: "w-1", Status: "completed"}, nil)

	req := httptest.NewRequest("POST", "/api/private/withdrawals/w-1/settle", bytes.NewReader([]byte(
		`{"outcome":"completed","provider_reference":"WIRE-1"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestConsumeSettlement(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		setup(t)

		payload := request.Settlement{WithdrawalID: "w-1", Outcome: "rejected", Reason: "account closed"}
		ucm.On("SettleWithdrawal", mock.Anything, &payload).Return(response.Withdrawal{ID: "w-1", Status: "rejected"}, nil)

		body, _ := json.Marshal(payload)
		msg := message.NewMessage("1", body)

		assert.NoError(t, h.ConsumeSettlement(msg))
		assert.Empty(t, pub.messages[messagestream.PoisonedQueueTopic])
	})

	t.Run("invalid payload goes to the poison queue", func(t *testing.T) {
		setup(t)

		msg := message.NewMessage("2", []byte(`{not json`))

		assert.NoError(t, h.ConsumeSettlement(msg))
		require.Len(t, pub.messages[messagestream.PoisonedQueueTopic], 1)

		var poisoned messagestream.PoisonedQueue
		require.NoError(t, json.Unmarshal(pub.messages[messagestream.PoisonedQueueTopic][0].Payload, &poisoned))
		assert.Equal(t, handler.TopicWithdrawalSettlement, poisoned.TopicTarget)
		assert.Equal(t, `{not json`, poisoned.Payload)
	})

	t.Run("usecase failure goes to the poison queue", func(t *testing.T) {
		setup(t)

		ucm.On("SettleWithdrawal", mock.Anything, mock.Anything).Return(response.Withdrawal{}, errors.Conflict("withdrawal cannot move from completed to rejected"))

		msg := message.NewMessage("3", []byte(`{"withdrawal_id":"w-1","outcome":"rejected"}`))

		assert.NoError(t, h.ConsumeSettlement(msg))
		assert.Len(t, pub.messages[messagestream.PoisonedQueueTopic], 1)
	})
}

func TestDispatchPayout(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		setup(t)

		ucm.On("DispatchPayout", mock.Anything, "w-1").Return(nil)

		body, _ := json.Marshal(scheduler.DispatchWithdrawalPayout{WithdrawalID: "w-1"})
		assert.NoError(t, h.DispatchPayout(context.Background(), asynq.NewTask(scheduler.TypeDispatchWithdrawalPayout, body)))
	})

	t.Run("provider still unavailable is retried by the queue", func(t *testing.T) {
		setup(t)

		ucm.On("DispatchPayout", mock.Anything, "w-1").Return(payout.ErrUnavailable)

		body, _ := json.Marshal(scheduler.DispatchWithdrawalPayout{WithdrawalID: "w-1"})
		err := h.DispatchPayout(context.Background(), asynq.NewTask(scheduler.TypeDispatchWithdrawalPayout, body))
		assert.ErrorIs(t, err, payout.ErrUnavailable)
	})

	t.Run("bad payload skips retry", func(t *testing.T) {
		setup(t)

		err := h.DispatchPayout(context.Background(), asynq.NewTask(scheduler.TypeDispatchWithdrawalPayout, []byte(`{}`)))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})
}
