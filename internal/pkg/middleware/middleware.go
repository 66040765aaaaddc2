package middleware

import (
	"context"
	"fmt"
	"strings"

	"rental-service/internal/module/booking/models/response"
	"rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

const (
	RoleCustomer = "customer"
	RoleBusiness = "business"
	RoleAdmin    = "admin"
)

type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (response.UserServiceValidate, error)
}

type Middleware struct {
	Log  *otelzap.Logger
	Repo TokenValidator
}

func (m *Middleware) ValidateToken(ctx *fiber.Ctx) error {
	auth := ctx.Get(fiber.HeaderAuthorization)
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || token == "" {
		m.Log.Ctx(ctx.UserContext()).Error("error get token from header")
		return helpers.RespError(ctx, m.Log, errors.UnauthorizedError("error get token from header"))
	}

	resp, err := m.Repo.ValidateToken(ctx.UserContext(), token)
	if err != nil {
		m.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error validate token: %v", err))
		return helpers.RespError(ctx, m.Log, errors.UnauthorizedError("error validate token"))
	}

	if !resp.IsValid {
		m.Log.Ctx(ctx.UserContext()).Error("error validate token")
		return helpers.RespError(ctx, m.Log, errors.UnauthorizedError("error validate token"))
	}

	ctx.Locals("user_id", resp.UserID)
	ctx.Locals("email_user", resp.EmailUser)
	ctx.Locals("role", resp.Role)

	return ctx.Next()
}

// RequireRole must run after ValidateToken.
func (m *Middleware) RequireRole(roles ...string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		role, _ := ctx.Locals("role").(string)
		for _, r := range roles {
			if role == r {
				return ctx.Next()
			}
		}

		m.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("role %q not allowed on %s", role, ctx.Path()))
		return helpers.RespError(ctx, m.Log, errors.Forbidden("forbidden"))
	}
}
