package repositories

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"net/url"
	"time"

	"rental-service/config"
	"rental-service/internal/module/booking/models/entity"
	"rental-service/internal/module/booking/models/response"
	"rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/ledger"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	circuit "github.com/rubyist/circuitbreaker"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const carCacheTTL = 10 * time.Minute

type repositories struct {
	db             *sqlx.DB
	log            *otelzap.Logger
	httpClient     *circuit.HTTPClient
	cfgUserService *config.UserServiceConfig
	redisClient    *redis.Client
	ledger         *ledger.Ledger
}

type Repositories interface {
	// http
	ValidateToken(ctx context.Context, token string) (response.UserServiceValidate, error)
	// redis, db fallback
	FindCarByID(ctx context.Context, carID string) (entity.Car, error)
	// db
	FindEntitlement(ctx context.Context, customerID string) (entity.AffiliateEntitlement, bool, error)
	CreateBooking(ctx context.Context, booking entity.Booking, creditPayout bool) error
	FindBookingByID(ctx context.Context, bookingID string) (entity.Booking, error)
	FindBookingsByCustomerID(ctx context.Context, customerID string) ([]entity.Booking, error)
	FindBookingsByBusinessID(ctx context.Context, businessID string) ([]entity.Booking, error)
	ApproveBooking(ctx context.Context, booking entity.Booking) error
	CancelBooking(ctx context.Context, booking entity.Booking) error
	DeleteBooking(ctx context.Context, bookingID string) error
}

func New(db *sqlx.DB, log *otelzap.Logger, httpClient *circuit.HTTPClient, redisClient *redis.Client, cfgUserService *config.UserServiceConfig, ledger *ledger.Ledger) Repositories {
	return &repositories{
		db:             db,
		log:            log,
		httpClient:     httpClient,
		cfgUserService: cfgUserService,
		redisClient:    redisClient,
		ledger:         ledger,
	}
}

const bookingColumns = `id, car_id, car_name, business_id, customer_id, customer_name, customer_email,
	start_date, end_date, base_price, discount_amount, booking_fee, service_fee, total_amount, payout,
	affiliate_id, affiliate_commission, currency, status, invoice_number, created_at, updated_at`

// FindCarByID implements Repositories.
func (r *repositories) FindCarByID(ctx context.Context, carID string) (entity.Car, error) {
	key := fmt.Sprintf("car:%s", carID)

	if r.redisClient != nil {
		cached, err := r.redisClient.Get(ctx, key).Bytes()
		if err == nil {
			var car entity.Car
			if err := json.Unmarshal(cached, &car); err == nil {
				return car, nil
			}
		} else if !stderrors.Is(err, redis.Nil) {
			r.log.Ctx(ctx).Warn("error get car from cache", zap.String("car_id", carID), zap.Error(err))
		}
	}

	query := `SELECT id, business_id, name, price_per_day, currency FROM cars WHERE id = $1`
	var car entity.Car
	err := r.db.GetContext(ctx, &car, query, carID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return entity.Car{}, errors.NotFound("car not found")
	}
	if err != nil {
		r.log.Ctx(ctx).Error("error find car by id", zap.String("car_id", carID), zap.Error(err))
		return entity.Car{}, errors.InternalServerError("error find car by id")
	}

	if r.redisClient != nil {
		if payload, err := json.Marshal(car); err == nil {
			if err := r.redisClient.Set(ctx, key, payload, carCacheTTL).Err(); err != nil {
				r.log.Ctx(ctx).Warn("error set car cache", zap.String("car_id", carID), zap.Error(err))
			}
		}
	}

	return car, nil
}

// FindEntitlement implements Repositories.
func (r *repositories) FindEntitlement(ctx context.Context, customerID string) (entity.AffiliateEntitlement, bool, error) {
	query := `SELECT customer_id, affiliate_id FROM affiliate_entitlements WHERE customer_id = $1 AND booking_id IS NULL`
	var ent entity.AffiliateEntitlement
	err := r.db.GetContext(ctx, &ent, query, customerID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return entity.AffiliateEntitlement{}, false, nil
	}
	if err != nil {
		r.log.Ctx(ctx).Error("error find affiliate entitlement", zap.Error(err))
		return entity.AffiliateEntitlement{}, false, errors.InternalServerError("error find affiliate entitlement")
	}
	return ent, true, nil
}

// CreateBooking implements Repositories. The insert, the entitlement
// consumption and the walk-in payout credit commit together.
func (r *repositories) CreateBooking(ctx context.Context, booking entity.Booking, creditPayout bool) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.InternalServerError("error starting transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (id, car_id, car_name, business_id, customer_id, customer_name, customer_email,
			start_date, end_date, base_price, discount_amount, booking_fee, service_fee, total_amount, payout,
			affiliate_id, affiliate_commission, currency, status, invoice_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		booking.ID, booking.CarID, booking.CarName, booking.BusinessID, booking.CustomerID, booking.CustomerName, booking.CustomerEmail,
		booking.StartDate, booking.EndDate, booking.BasePrice, booking.DiscountAmount, booking.BookingFee, booking.ServiceFee,
		booking.TotalAmount, booking.Payout, booking.AffiliateID, booking.AffiliateCommission, booking.Currency,
		string(booking.Status), booking.InvoiceNumber, booking.CreatedAt,
	)
	if err != nil {
		r.log.Ctx(ctx).Error("error insert booking", zap.String("booking_id", booking.ID), zap.Error(err))
		return errors.InternalServerError("error insert booking")
	}

	if booking.AffiliateID != nil && booking.CustomerID != nil {
		res, err := tx.ExecContext(ctx, `
			UPDATE affiliate_entitlements SET booking_id = $1
			WHERE customer_id = $2 AND affiliate_id = $3 AND booking_id IS NULL`,
			booking.ID, *booking.CustomerID, *booking.AffiliateID,
		)
		if err != nil {
			return errors.InternalServerError("error consume affiliate entitlement")
		}
		if n, _ := res.RowsAffected(); n != 1 {
			return errors.Conflict("affiliate discount already used")
		}
	}

	if creditPayout {
		if _, err := r.ledger.Credit(ctx, tx, booking.BusinessID, booking.Payout, booking.ID); err != nil {
			r.log.Ctx(ctx).Error("error credit walk-in payout", zap.String("booking_id", booking.ID), zap.Error(err))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.InternalServerError("error committing transaction")
	}

	return nil
}

// FindBookingByID implements Repositories.
func (r *repositories) FindBookingByID(ctx context.Context, bookingID string) (entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	var booking entity.Booking
	err := r.db.GetContext(ctx, &booking, query, bookingID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return entity.Booking{}, errors.NotFound("booking not found")
	}
	if err != nil {
		r.log.Ctx(ctx).Error("error find booking by id", zap.String("booking_id", bookingID), zap.Error(err))
		return entity.Booking{}, errors.InternalServerError("error find booking by id")
	}
	return booking, nil
}

// FindBookingsByCustomerID implements Repositories.
func (r *repositories) FindBookingsByCustomerID(ctx context.Context, customerID string) ([]entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE customer_id = $1 ORDER BY created_at DESC`
	bookings := []entity.Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, customerID); err != nil {
		r.log.Ctx(ctx).Error("error find bookings by customer id", zap.Error(err))
		return nil, errors.InternalServerError("error find bookings by customer id")
	}
	return bookings, nil
}

// FindBookingsByBusinessID implements Repositories.
func (r *repositories) FindBookingsByBusinessID(ctx context.Context, businessID string) ([]entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE business_id = $1 ORDER BY created_at DESC`
	bookings := []entity.Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, businessID); err != nil {
		r.log.Ctx(ctx).Error("error find bookings by business id", zap.Error(err))
		return nil, errors.InternalServerError("error find bookings by business id")
	}
	return bookings, nil
}

// transition moves a booking from pending to `to`. Zero affected rows means a
// concurrent request already moved it.
func (r *repositories) transition(ctx context.Context, tx *sqlx.Tx, bookingID string, to entity.BookingStatus) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		string(to), bookingID, string(entity.StatusPending),
	)
	if err != nil {
		r.log.Ctx(ctx).Error("error update booking status", zap.String("booking_id", bookingID), zap.Error(err))
		return errors.InternalServerError("error update booking status")
	}
	if n, _ := res.RowsAffected(); n != 1 {
		return errors.Conflict("booking is no longer pending")
	}
	return nil
}

// ApproveBooking implements Repositories. The payout and affiliate commission
// are credited in the same transaction as the status change, so at most once.
func (r *repositories) ApproveBooking(ctx context.Context, booking entity.Booking) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.InternalServerError("error starting transaction")
	}
	defer tx.Rollback()

	if err := r.transition(ctx, tx, booking.ID, entity.StatusActive); err != nil {
		return err
	}

	if _, err := r.ledger.Credit(ctx, tx, booking.BusinessID, booking.Payout, booking.ID); err != nil {
		r.log.Ctx(ctx).Error("error credit booking payout", zap.String("booking_id", booking.ID), zap.Error(err))
		return err
	}

	if booking.AffiliateID != nil && booking.AffiliateCommission.IsPositive() {
		if _, err := r.ledger.CreditAffiliate(ctx, tx, *booking.AffiliateID, booking.AffiliateCommission, booking.ID); err != nil {
			r.log.Ctx(ctx).Error("error credit affiliate commission", zap.String("booking_id", booking.ID), zap.Error(err))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.InternalServerError("error committing transaction")
	}
	return nil
}

// CancelBooking implements Repositories. A consumed affiliate discount is
// handed back to the customer.
func (r *repositories) CancelBooking(ctx context.Context, booking entity.Booking) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.InternalServerError("error starting transaction")
	}
	defer tx.Rollback()

	if err := r.transition(ctx, tx, booking.ID, entity.StatusCancelled); err != nil {
		return err
	}

	if booking.AffiliateID != nil {
		if _, err := tx.ExecContext(ctx, `UPDATE affiliate_entitlements SET booking_id = NULL WHERE booking_id = $1`, booking.ID); err != nil {
			return errors.InternalServerError("error release affiliate entitlement")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.InternalServerError("error committing transaction")
	}
	return nil
}

// DeleteBooking implements Repositories. Conversations and their messages go with it.
func (r *repositories) DeleteBooking(ctx context.Context, bookingID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.InternalServerError("error starting transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM messages WHERE conversation_id IN (SELECT id FROM conversations WHERE booking_id = $1)`, bookingID); err != nil {
		return errors.InternalServerError("error delete booking messages")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM conversations WHERE booking_id = $1`, bookingID); err != nil {
		return errors.InternalServerError("error delete booking conversations")
	}
	// the customer's affiliate discount becomes usable again
	if _, err := tx.ExecContext(ctx, `UPDATE affiliate_entitlements SET booking_id = NULL WHERE booking_id = $1`, bookingID); err != nil {
		return errors.InternalServerError("error release affiliate entitlement")
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, bookingID)
	if err != nil {
		return errors.InternalServerError("error delete booking")
	}
	if n, _ := res.RowsAffected(); n != 1 {
		return errors.NotFound("booking not found")
	}

	if err := tx.Commit(); err != nil {
		return errors.InternalServerError("error committing transaction")
	}
	return nil
}

// ValidateToken implements Repositories.
func (r *repositories) ValidateToken(ctx context.Context, token string) (response.UserServiceValidate, error) {
	endpoint := fmt.Sprintf("http://%s:%s/api/private/token/validate?token=%s",
		r.cfgUserService.Host, r.cfgUserService.Port, url.QueryEscape(token))

	resp, err := r.httpClient.Get(endpoint)
	if err != nil {
		return response.UserServiceValidate{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		r.log.Ctx(ctx).Error("invalid token", zap.Int("status", resp.StatusCode))
		return response.UserServiceValidate{}, errors.UnauthorizedError("invalid token")
	}

	var respData response.UserServiceValidate
	if err := json.NewDecoder(resp.Body).Decode(&respData); err != nil {
		return response.UserServiceValidate{}, err
	}

	if !respData.IsValid {
		return response.UserServiceValidate{}, errors.UnauthorizedError("invalid token")
	}

	return respData, nil
}
