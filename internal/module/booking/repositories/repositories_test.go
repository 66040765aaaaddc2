package repositories_test

import (
	"context"
	"database/sql"
	stderrors "errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	sqlxmock "github.com/zhashkevych/go-sqlxmock"

	"rental-service/internal/module/booking/models/entity"
	"rental-service/internal/module/booking/repositories"
	"rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/ledger"
	log_internal "rental-service/internal/pkg/log"
	"rental-service/internal/pkg/money"
)

var (
	mock    sqlxmock.Sqlmock
	dbx     *sqlx.DB
	logMock *otelzap.Logger
)

func setup() {
	dbx, mock, _ = sqlxmock.Newx()
	logMock = log_internal.Setup()
}

func strPtr(s string) *string { return &s }

var bookingColumns = []string{
	"id", "car_id", "car_name", "business_id", "customer_id", "customer_name", "customer_email",
	"start_date", "end_date", "base_price", "discount_amount", "booking_fee", "service_fee", "total_amount", "payout",
	"affiliate_id", "affiliate_commission", "currency", "status", "invoice_number", "created_at", "updated_at",
}

func sampleBooking() entity.Booking {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	return entity.Booking{
		ID:            "b-1",
		CarID:         "car-1",
		CarName:       "Civic",
		BusinessID:    "biz-1",
		CustomerID:    strPtr("cust-1"),
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		StartDate:     start,
		EndDate:       start.AddDate(0, 0, 2),
		BasePrice:     money.MustParse("100.00"),
		BookingFee:    money.MustParse("5.00"),
		ServiceFee:    money.MustParse("5.00"),
		TotalAmount:   money.MustParse("105.00"),
		Payout:        money.MustParse("95.00"),
		Currency:      "usd",
		Status:        entity.StatusPending,
		InvoiceNumber: "INV-20260501-b-1",
		CreatedAt:     start,
	}
}

func TestFindBookingByID(t *testing.T) {
	setup()
	repo := repositories.New(dbx, logMock, nil, nil, nil, ledger.New())

	expected := sampleBooking()

	t.Run("booking found", func(t *testing.T) {
		rows := sqlxmock.NewRows(bookingColumns).AddRow(
			expected.ID, expected.CarID, expected.CarName, expected.BusinessID, "cust-1", expected.CustomerName, expected.CustomerEmail,
			expected.StartDate, expected.EndDate, int64(10000), int64(0), int64(500), int64(500), int64(10500), int64(9500),
			nil, int64(0), "usd", "pending", expected.InvoiceNumber, expected.CreatedAt, nil,
		)
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").WithArgs("b-1").WillReturnRows(rows)

		booking, err := repo.FindBookingByID(context.Background(), "b-1")

		require.NoError(t, err)
		assert.Equal(t, expected, booking)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("booking not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").WithArgs("missing").WillReturnError(sql.ErrNoRows)

		_, err := repo.FindBookingByID(context.Background(), "missing")

		assert.Equal(t, errors.NotFound("booking not found"), err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").WithArgs("b-2").WillReturnError(stderrors.New("connection reset"))

		_, err := repo.FindBookingByID(context.Background(), "b-2")

		assert.Equal(t, errors.InternalServerError("error find booking by id"), err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFindCarByID(t *testing.T) {
	setup()
	repo := repositories.New(dbx, logMock, nil, nil, nil, ledger.New())

	t.Run("car found without cache", func(t *testing.T) {
		rows := sqlxmock.NewRows([]string{"id", "business_id", "name", "price_per_day", "currency"}).
			AddRow("car-1", "biz-1", "Civic", int64(4000), "usd")
		mock.ExpectQuery("SELECT (.+) FROM cars WHERE id").WithArgs("car-1").WillReturnRows(rows)

		car, err := repo.FindCarByID(context.Background(), "car-1")

		require.NoError(t, err)
		assert.Equal(t, entity.Car{ID: "car-1", BusinessID: "biz-1", Name: "Civic", PricePerDay: 4000, Currency: "usd"}, car)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("car not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM cars WHERE id").WithArgs("car-x").WillReturnError(sql.ErrNoRows)

		_, err := repo.FindCarByID(context.Background(), "car-x")

		assert.True(t, errors.Is(err, 404))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateBooking(t *testing.T) {
	setup()
	repo := repositories.New(dbx, logMock, nil, nil, nil, ledger.New())

	t.Run("customer booking consumes affiliate entitlement without credit", func(t *testing.T) {
		booking := sampleBooking()
		booking.AffiliateID = strPtr("aff-1")

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlxmock.NewResult(1, 1))
		mock.ExpectExec("UPDATE affiliate_entitlements SET booking_id").
			WithArgs("b-1", "cust-1", "aff-1").
			WillReturnResult(sqlxmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.CreateBooking(context.Background(), booking, false)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("entitlement already used", func(t *testing.T) {
		booking := sampleBooking()
		booking.AffiliateID = strPtr("aff-1")

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlxmock.NewResult(1, 1))
		mock.ExpectExec("UPDATE affiliate_entitlements SET booking_id").WillReturnResult(sqlxmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.CreateBooking(context.Background(), booking, false)

		assert.True(t, errors.Is(err, 409))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("walk-in booking credits payout in the same transaction", func(t *testing.T) {
		booking := sampleBooking()
		booking.CustomerID = nil
		booking.Status = entity.StatusActive

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlxmock.NewResult(1, 1))
		mock.ExpectQuery("UPDATE businesses SET balance = balance \\+").
			WithArgs("biz-1", int64(9500)).
			WillReturnRows(sqlxmock.NewRows([]string{"balance"}).AddRow(int64(9500)))
		mock.ExpectExec("INSERT INTO ledger_entries").
			WithArgs(sqlxmock.AnyArg(), "business", "biz-1", "booking_payout", int64(9500), int64(9500), "b-1", sqlxmock.AnyArg()).
			WillReturnResult(sqlxmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := repo.CreateBooking(context.Background(), booking, true)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO bookings").WillReturnError(stderrors.New("duplicate key"))
		mock.ExpectRollback()

		err := repo.CreateBooking(context.Background(), sampleBooking(), false)

		assert.Equal(t, errors.InternalServerError("error insert booking"), err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestApproveBooking(t *testing.T) {
	setup()
	repo := repositories.New(dbx, logMock, nil, nil, nil, ledger.New())

	t.Run("credits payout and affiliate commission once", func(t *testing.T) {
		booking := sampleBooking()
		booking.AffiliateID = strPtr("aff-1")
		booking.AffiliateCommission = money.MustParse("9.00")

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE bookings SET status").
			WithArgs("active", "b-1", "pending").
			WillReturnResult(sqlxmock.NewResult(0, 1))
		mock.ExpectQuery("UPDATE businesses SET balance = balance \\+").
			WithArgs("biz-1", int64(9500)).
			WillReturnRows(sqlxmock.NewRows([]string{"balance"}).AddRow(int64(9500)))
		mock.ExpectExec("INSERT INTO ledger_entries").WillReturnResult(sqlxmock.NewResult(1, 1))
		mock.ExpectQuery("UPDATE affiliates SET unpaid_earnings").
			WithArgs("aff-1", int64(900)).
			WillReturnRows(sqlxmock.NewRows([]string{"unpaid_earnings"}).AddRow(int64(900)))
		mock.ExpectExec("INSERT INTO ledger_entries").WillReturnResult(sqlxmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := repo.ApproveBooking(context.Background(), booking)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("booking no longer pending", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE bookings SET status").WillReturnResult(sqlxmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.ApproveBooking(context.Background(), sampleBooking())

		assert.Equal(t, errors.Conflict("booking is no longer pending"), err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCancelBooking(t *testing.T) {
	setup()
	repo := repositories.New(dbx, logMock, nil, nil, nil, ledger.New())

	booking := sampleBooking()
	booking.AffiliateID = strPtr("aff-1")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs("cancelled", "b-1", "pending").
		WillReturnResult(sqlxmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE affiliate_entitlements SET booking_id = NULL").
		WithArgs("b-1").
		WillReturnResult(sqlxmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.CancelBooking(context.Background(), booking)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBooking(t *testing.T) {
	setup()
	repo := repositories.New(dbx, logMock, nil, nil, nil, ledger.New())

	t.Run("deletes conversations and messages and frees the entitlement", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM messages").WithArgs("b-1").WillReturnResult(sqlxmock.NewResult(0, 3))
		mock.ExpectExec("DELETE FROM conversations").WithArgs("b-1").WillReturnResult(sqlxmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE affiliate_entitlements SET booking_id = NULL WHERE booking_id = (.+)").WithArgs("b-1").WillReturnResult(sqlxmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM bookings").WithArgs("b-1").WillReturnResult(sqlxmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.DeleteBooking(context.Background(), "b-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("booking not found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM messages").WillReturnResult(sqlxmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM conversations").WillReturnResult(sqlxmock.NewResult(0, 0))
		mock.ExpectExec("UPDATE affiliate_entitlements").WillReturnResult(sqlxmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM bookings").WillReturnResult(sqlxmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.DeleteBooking(context.Background(), "b-9")

		assert.Equal(t, errors.NotFound("booking not found"), err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("entitlement release failure keeps the booking", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM messages").WillReturnResult(sqlxmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM conversations").WillReturnResult(sqlxmock.NewResult(0, 0))
		mock.ExpectExec("UPDATE affiliate_entitlements").WillReturnError(stderrors.New("connection reset"))
		mock.ExpectRollback()

		err := repo.DeleteBooking(context.Background(), "b-1")

		assert.Equal(t, errors.InternalServerError("error release affiliate entitlement"), err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
