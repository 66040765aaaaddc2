package usecases

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"rental-service/internal/module/affiliate/models/entity"
	"rental-service/internal/module/affiliate/models/response"
	"rental-service/internal/module/affiliate/repositories"
	"rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/helpers"

	"github.com/google/uuid"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.elastic.co/apm"
	"go.uber.org/zap"
)

const maxCodeAttempts = 5

type usecase struct {
	repo         repositories.Repositories
	log          *otelzap.Logger
	generateCode func() (string, error)
	now          func() time.Time
}

type Usecase interface {
	// http
	CreateAffiliate(ctx context.Context, userID string) (response.Affiliate, error)
	GetAffiliate(ctx context.Context, userID string) (response.Affiliate, error)
	ApplyAffiliateCode(ctx context.Context, customerID, code string) error
	TrackVisit(ctx context.Context, code string) error
	// http private
	SettleEarnings(ctx context.Context, affiliateID string) (response.Settlement, error)
}

func New(repo repositories.Repositories, log *otelzap.Logger) Usecase {
	return &usecase{
		repo:         repo,
		log:          log,
		generateCode: func() (string, error) { return helpers.GenerateCode(entity.CodeLength) },
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (u *usecase) CreateAffiliate(ctx context.Context, userID string) (response.Affiliate, error) {
	span, ctx := apm.StartSpan(ctx, "CreateAffiliate", "usecase")
	defer span.End()

	affiliate := entity.Affiliate{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: u.now(),
	}

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := u.generateCode()
		if err != nil {
			return response.Affiliate{}, errors.InternalServerError("error generate affiliate code")
		}
		affiliate.Code = code

		err = u.repo.CreateAffiliate(ctx, affiliate)
		if err == nil {
			return toResponse(affiliate), nil
		}
		if !stderrors.Is(err, repositories.ErrCodeTaken) {
			return response.Affiliate{}, err
		}
		u.log.Ctx(ctx).Warn("affiliate code collision", zap.Int("attempt", attempt))
	}

	return response.Affiliate{}, errors.InternalServerError("error generate unique affiliate code")
}

func (u *usecase) GetAffiliate(ctx context.Context, userID string) (response.Affiliate, error) {
	span, ctx := apm.StartSpan(ctx, "GetAffiliate", "usecase")
	defer span.End()

	affiliate, err := u.repo.FindAffiliateByUserID(ctx, userID)
	if err != nil {
		return response.Affiliate{}, err
	}
	return toResponse(affiliate), nil
}

func (u *usecase) ApplyAffiliateCode(ctx context.Context, customerID, code string) error {
	span, ctx := apm.StartSpan(ctx, "ApplyAffiliateCode", "usecase")
	defer span.End()

	code = normalizeCode(code)
	if code == "" {
		return errors.NotFound("affiliate not found")
	}

	affiliate, err := u.repo.FindAffiliateByCode(ctx, code)
	if err != nil {
		return err
	}

	if affiliate.UserID == customerID {
		return errors.ValidationError("error validate request", map[string]string{
			"code": "cannot apply your own affiliate code",
		})
	}

	return u.repo.ApplyCode(ctx, entity.Entitlement{
		CustomerID:  customerID,
		AffiliateID: affiliate.ID,
		CreatedAt:   u.now(),
	})
}

func (u *usecase) TrackVisit(ctx context.Context, code string) error {
	span, ctx := apm.StartSpan(ctx, "TrackVisit", "usecase")
	defer span.End()

	code = normalizeCode(code)
	if code == "" {
		return errors.NotFound("affiliate not found")
	}
	return u.repo.IncrementVisits(ctx, code)
}

func (u *usecase) SettleEarnings(ctx context.Context, affiliateID string) (response.Settlement, error) {
	span, ctx := apm.StartSpan(ctx, "SettleEarnings", "usecase")
	defer span.End()

	settled, err := u.repo.SettleEarnings(ctx, affiliateID)
	if err != nil {
		return response.Settlement{}, err
	}

	u.log.Ctx(ctx).Info("affiliate earnings settled",
		zap.String("affiliate_id", affiliateID),
		zap.String("settled", settled.String()))

	return response.Settlement{AffiliateID: affiliateID, Settled: settled}, nil
}

func toResponse(a entity.Affiliate) response.Affiliate {
	return response.Affiliate{
		ID:             a.ID,
		Code:           a.Code,
		Earnings:       a.Earnings,
		UnpaidEarnings: a.UnpaidEarnings,
		TotalEarnings:  a.TotalEarnings,
		Referrals:      a.Referrals,
		Visits:         a.Visits,
		Conversions:    a.Conversions,
		CreatedAt:      a.CreatedAt.Format(time.RFC3339),
	}
}
