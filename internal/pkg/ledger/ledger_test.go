package ledger_test

import (
	"context"
	"database/sql"
	stderrors "errors"
	"testing"

	"rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/ledger"
	"rental-service/internal/pkg/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlxmock "github.com/zhashkevych/go-sqlxmock"
)

func TestCredit(t *testing.T) {
	db, mock, err := sqlxmock.Newx()
	require.NoError(t, err)
	l := ledger.New()

	t.Run("adds to balance and journals", func(t *testing.T) {
		mock.ExpectQuery("UPDATE businesses SET balance = balance \\+").
			WithArgs("biz-1", int64(9500)).
			WillReturnRows(sqlxmock.NewRows([]string{"balance"}).AddRow(int64(19500)))
		mock.ExpectExec("INSERT INTO ledger_entries").
			WithArgs(sqlxmock.AnyArg(), "business", "biz-1", "booking_payout", int64(9500), int64(19500), "b-1", sqlxmock.AnyArg()).
			WillReturnResult(sqlxmock.NewResult(1, 1))

		after, err := l.Credit(context.Background(), db, "biz-1", money.MustParse("95.00"), "b-1")

		require.NoError(t, err)
		assert.Equal(t, money.MustParse("195.00"), after)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects non positive amounts", func(t *testing.T) {
		_, err := l.Credit(context.Background(), db, "biz-1", 0, "b-1")
		assert.True(t, errors.Is(err, 400))
	})

	t.Run("unknown business", func(t *testing.T) {
		mock.ExpectQuery("UPDATE businesses SET balance = balance \\+").WillReturnError(sql.ErrNoRows)

		_, err := l.Credit(context.Background(), db, "biz-x", 100, "b-1")

		assert.True(t, errors.Is(err, 404))
	})
}

func TestReserve(t *testing.T) {
	db, mock, err := sqlxmock.Newx()
	require.NoError(t, err)
	l := ledger.New()

	t.Run("conditional update that matches nothing is insufficient balance", func(t *testing.T) {
		mock.ExpectQuery("WHERE id = \\$1 AND balance >= \\$2").
			WithArgs("biz-1", int64(8000)).
			WillReturnError(sql.ErrNoRows)

		_, err := l.Reserve(context.Background(), db, "biz-1", money.MustParse("80.00"), "w-1")

		assert.Equal(t, errors.InsufficientBalance("insufficient balance"), err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database failure", func(t *testing.T) {
		mock.ExpectQuery("UPDATE businesses SET balance = balance - ").WillReturnError(stderrors.New("conn closed"))

		_, err := l.Reserve(context.Background(), db, "biz-1", 100, "w-1")

		assert.True(t, errors.Is(err, 500))
	})
}

func TestSettleAffiliateWithNothingUnpaid(t *testing.T) {
	db, mock, err := sqlxmock.Newx()
	require.NoError(t, err)

	mock.ExpectQuery("UPDATE affiliates a SET earnings").
		WithArgs("aff-1").
		WillReturnRows(sqlxmock.NewRows([]string{"unpaid_earnings", "earnings"}).AddRow(int64(0), int64(1900)))

	settled, err := ledger.New().SettleAffiliate(context.Background(), db, "aff-1")

	require.NoError(t, err)
	assert.Equal(t, money.Cents(0), settled)
	assert.NoError(t, mock.ExpectationsWereMet())
}
