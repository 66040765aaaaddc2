package response

import "rental-service/internal/pkg/money"

type Affiliate struct {
	ID             string      `json:"id"`
	Code           string      `json:"code"`
	Earnings       money.Cents `json:"earnings"`
	UnpaidEarnings money.Cents `json:"unpaid_earnings"`
	TotalEarnings  money.Cents `json:"total_earnings"`
	Referrals      int64       `json:"referrals"`
	Visits         int64       `json:"visits"`
	Conversions    int64       `json:"conversions"`
	CreatedAt      string      `json:"created_at"`
}

type Settlement struct {
	AffiliateID string      `json:"affiliate_id"`
	Settled     money.Cents `json:"settled"`
}
