package pricing_test

import (
	"testing"
	"time"

	"rental-service/internal/module/booking/pricing"
	"rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rates = pricing.Rates{
	BookingFeeBPS:          500,
	ServiceFeeBPS:          500,
	AffiliateDiscountBPS:   1000,
	AffiliateCommissionBPS: 1000,
}

func TestComputeBookingFees(t *testing.T) {
	t.Run("100.00 base", func(t *testing.T) {
		fees, err := pricing.ComputeBookingFees(money.MustParse("100.00"), rates)
		require.NoError(t, err)

		assert.Equal(t, money.MustParse("5.00"), fees.BookingFee)
		assert.Equal(t, money.MustParse("5.00"), fees.ServiceFee)
		assert.Equal(t, money.MustParse("105.00"), fees.TotalAmount)
		assert.Equal(t, money.MustParse("95.00"), fees.Payout)
	})

	t.Run("fee invariants hold for every base price", func(t *testing.T) {
		for base := money.Cents(1); base <= 250000; base += 13 {
			fees, err := pricing.ComputeBookingFees(base, rates)
			require.NoError(t, err)

			assert.Equal(t, money.Percent(base, 500), fees.BookingFee)
			assert.Equal(t, money.Percent(base, 500), fees.ServiceFee)
			assert.Equal(t, base+fees.BookingFee, fees.TotalAmount)
			assert.Equal(t, base-fees.ServiceFee, fees.Payout)
		}
	})

	t.Run("rounds each fee from base, not from total", func(t *testing.T) {
		fees, err := pricing.ComputeBookingFees(money.MustParse("33.33"), rates)
		require.NoError(t, err)

		// 33.33 * 0.05 = 1.6665 -> 1.67
		assert.Equal(t, money.MustParse("1.67"), fees.BookingFee)
		assert.Equal(t, money.MustParse("1.67"), fees.ServiceFee)
		assert.Equal(t, money.MustParse("35.00"), fees.TotalAmount)
		assert.Equal(t, money.MustParse("31.66"), fees.Payout)
	})

	t.Run("non positive base price", func(t *testing.T) {
		for _, base := range []money.Cents{0, -100} {
			_, err := pricing.ComputeBookingFees(base, rates)
			assert.True(t, errors.Is(err, 400))
		}
	})

	t.Run("fees stay exact at the largest accepted price", func(t *testing.T) {
		fees, err := pricing.ComputeBookingFees(money.MaxAmount, rates)
		require.NoError(t, err)

		assert.Equal(t, money.MustParse("500000000.00"), fees.BookingFee)
		assert.Equal(t, money.MaxAmount+fees.BookingFee, fees.TotalAmount)
		assert.True(t, fees.Payout < money.MaxAmount)
		assert.True(t, fees.Payout > 0)
	})

	t.Run("price above the accepted range", func(t *testing.T) {
		_, err := pricing.ComputeBookingFees(money.Cents(20000000000000000), rates)

		ce, ok := errors.As(err)
		require.True(t, ok)
		assert.Equal(t, 400, ce.Code)
		assert.Contains(t, ce.Fields, "base_price")
	})
}

func TestPipelineCompute(t *testing.T) {
	p := pricing.New(rates)

	t.Run("without affiliate discount", func(t *testing.T) {
		b, err := p.Compute(pricing.Input{ListPrice: money.MustParse("100.00")})
		require.NoError(t, err)

		assert.Equal(t, money.Cents(0), b.DiscountAmount)
		assert.Equal(t, money.MustParse("100.00"), b.BasePrice)
		assert.Equal(t, money.MustParse("105.00"), b.TotalAmount)
		assert.Equal(t, money.MustParse("95.00"), b.Payout)
		assert.Equal(t, money.Cents(0), b.AffiliateCommission)
	})

	t.Run("affiliate discount reduces base before fees", func(t *testing.T) {
		b, err := p.Compute(pricing.Input{ListPrice: money.MustParse("100.00"), AffiliateDiscount: true})
		require.NoError(t, err)

		assert.Equal(t, money.MustParse("100.00"), b.ListPrice)
		assert.Equal(t, money.MustParse("10.00"), b.DiscountAmount)
		assert.Equal(t, money.MustParse("90.00"), b.BasePrice)
		assert.Equal(t, money.MustParse("4.50"), b.BookingFee)
		assert.Equal(t, money.MustParse("4.50"), b.ServiceFee)
		assert.Equal(t, money.MustParse("94.50"), b.TotalAmount)
		assert.Equal(t, money.MustParse("85.50"), b.Payout)
		assert.Equal(t, money.MustParse("9.00"), b.AffiliateCommission)
	})

	t.Run("rejects zero list price", func(t *testing.T) {
		_, err := p.Compute(pricing.Input{})
		assert.Error(t, err)
	})
}

func TestRentalDays(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }

	assert.Equal(t, int64(1), pricing.RentalDays(day(1), day(1)))
	assert.Equal(t, int64(1), pricing.RentalDays(day(1), day(2)))
	assert.Equal(t, int64(4), pricing.RentalDays(day(1), day(5)))

	price, err := pricing.ListPrice(money.MustParse("40.00"), day(1), day(4))
	require.NoError(t, err)
	assert.Equal(t, money.MustParse("120.00"), price)

	_, err = pricing.ListPrice(money.MaxAmount, day(1), day(4))
	assert.True(t, errors.Is(err, 400))
}
