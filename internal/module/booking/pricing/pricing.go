// Package pricing turns a list price into the fee breakdown stored on a booking.
// Each stage is a pure function of the previous breakdown.
package pricing

import (
	"time"

	"rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/money"
)

// Rates are in basis points.
type Rates struct {
	BookingFeeBPS          int64
	ServiceFeeBPS          int64
	AffiliateDiscountBPS   int64
	AffiliateCommissionBPS int64
}

type Fees struct {
	BookingFee  money.Cents
	ServiceFee  money.Cents
	TotalAmount money.Cents
	Payout      money.Cents
}

type Breakdown struct {
	ListPrice           money.Cents
	DiscountAmount      money.Cents
	BasePrice           money.Cents
	AffiliateCommission money.Cents
	Fees
}

type Input struct {
	ListPrice         money.Cents
	AffiliateDiscount bool
}

type Stage func(Breakdown) Breakdown

type Pipeline struct {
	rates Rates
}

func New(rates Rates) *Pipeline {
	return &Pipeline{rates: rates}
}

func validatePrice(price money.Cents) error {
	if !price.IsPositive() {
		return errors.ValidationError("error validate price", map[string]string{
			"base_price": "must be greater than 0",
		})
	}
	if price > money.MaxAmount {
		return errors.ValidationError("error validate price", map[string]string{
			"base_price": "must not exceed " + money.MaxAmount.String(),
		})
	}
	return nil
}

// ComputeBookingFees derives both fees from basePrice independently.
func ComputeBookingFees(basePrice money.Cents, rates Rates) (Fees, error) {
	if err := validatePrice(basePrice); err != nil {
		return Fees{}, err
	}

	bookingFee := money.Percent(basePrice, rates.BookingFeeBPS)
	serviceFee := money.Percent(basePrice, rates.ServiceFeeBPS)

	return Fees{
		BookingFee:  bookingFee,
		ServiceFee:  serviceFee,
		TotalAmount: basePrice + bookingFee,
		Payout:      basePrice - serviceFee,
	}, nil
}

// Compute runs base -> affiliate discount -> fees -> totals.
func (p *Pipeline) Compute(in Input) (Breakdown, error) {
	if err := validatePrice(in.ListPrice); err != nil {
		return Breakdown{}, err
	}

	stages := []Stage{
		p.baseStage(),
		p.discountStage(in.AffiliateDiscount),
	}

	b := Breakdown{ListPrice: in.ListPrice}
	for _, stage := range stages {
		b = stage(b)
	}

	fees, err := ComputeBookingFees(b.BasePrice, p.rates)
	if err != nil {
		return Breakdown{}, err
	}
	b.Fees = fees

	if in.AffiliateDiscount {
		b.AffiliateCommission = money.Percent(b.BasePrice, p.rates.AffiliateCommissionBPS)
	}

	return b, nil
}

func (p *Pipeline) baseStage() Stage {
	return func(b Breakdown) Breakdown {
		b.BasePrice = b.ListPrice
		return b
	}
}

func (p *Pipeline) discountStage(apply bool) Stage {
	return func(b Breakdown) Breakdown {
		if !apply {
			return b
		}
		b.DiscountAmount = money.Percent(b.BasePrice, p.rates.AffiliateDiscountBPS)
		b.BasePrice -= b.DiscountAmount
		return b
	}
}

// RentalDays counts whole days between the dates; a same-day rental is one day.
func RentalDays(start, end time.Time) int64 {
	days := int64(end.Sub(start).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// ListPrice derives a price from the car's daily rate.
func ListPrice(pricePerDay money.Cents, start, end time.Time) (money.Cents, error) {
	price, err := pricePerDay.Mul(RentalDays(start, end))
	if err != nil {
		return 0, errors.ValidationError("error validate price", map[string]string{
			"end_date": "rental period is too long for this car's daily rate",
		})
	}
	return price, nil
}
