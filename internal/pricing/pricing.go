package pricing

import (
	"fmt"
	"math"
	"time"

	"localloop-backend/internal/domain"
)

// DepositMultiplier is the security deposit expressed in weekly rates.
const DepositMultiplier = 5

// WeeklyRate is the per-week price before and after discount.
type WeeklyRate struct {
	Original float64 `json:"original"`
	Final    float64 `json:"final"`
}

// Quote is the full lending-fee breakdown for a rental period.
type Quote struct {
	OriginalPrice  float64    `json:"original_price"`
	FinalPrice     float64    `json:"final_price"`
	DiscountRate   float64    `json:"discount_rate"`
	DiscountAmount float64    `json:"discount_amount"`
	IsPremium      bool       `json:"is_premium"`
	Weeks          int        `json:"weeks"`
	WeeklyRate     WeeklyRate `json:"weekly_rate"`
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Weeks converts a date range into billable weeks. Both endpoints count, so a
// Monday-to-Sunday range is 7 days and one week; partial weeks round up.
func Weeks(from, to time.Time) int {
	days := int(math.Ceil(to.Sub(from).Hours()/24)) + 1
	if days < 1 {
		days = 1
	}
	weeks := days / 7
	if days%7 > 0 {
		weeks++
	}
	return weeks
}

// Calculate produces the lending-fee quote for a weekly rate, an optional
// date range and a discount rate in percent. Without a range a single week is
// charged. Date-range ordering is the caller's responsibility; the discount
// rate must be within 0-100.
func Calculate(weeklyRate float64, from, to *time.Time, discountRate float64) (Quote, error) {
	if weeklyRate < 0 {
		return Quote{}, fmt.Errorf("%w: weekly rate must be non-negative", domain.ErrValidation)
	}
	if discountRate < 0 || discountRate > 100 {
		return Quote{}, fmt.Errorf("%w: discount rate must be between 0 and 100", domain.ErrValidation)
	}

	weeks := 1
	if from != nil && to != nil {
		weeks = Weeks(*from, *to)
	}

	base := float64(weeks) * weeklyRate
	discountAmount := Round2(base * discountRate / 100)
	finalPrice := Round2(base - discountAmount)

	return Quote{
		OriginalPrice:  Round2(base),
		FinalPrice:     finalPrice,
		DiscountRate:   discountRate,
		DiscountAmount: discountAmount,
		IsPremium:      discountRate > 0,
		Weeks:          weeks,
		WeeklyRate: WeeklyRate{
			Original: Round2(weeklyRate),
			Final:    Round2(weeklyRate * (1 - discountRate/100)),
		},
	}, nil
}

// DepositSplit is the outcome of resolving a held deposit.
type DepositSplit struct {
	ToBorrower float64 `json:"to_borrower"`
	ToLender   float64 `json:"to_lender"`
}

// SplitDeposit divides a held deposit by the refund percentage owed to the
// borrower. The lender share is the remainder, so the two legs always sum to
// the deposit exactly.
func SplitDeposit(deposit, refundPercentage float64) (DepositSplit, error) {
	if deposit < 0 {
		return DepositSplit{}, fmt.Errorf("%w: deposit must be non-negative", domain.ErrValidation)
	}
	if refundPercentage < 0 || refundPercentage > 100 {
		return DepositSplit{}, fmt.Errorf("%w: refund percentage must be between 0 and 100", domain.ErrValidation)
	}

	toBorrower := Round2(deposit * refundPercentage / 100)
	return DepositSplit{
		ToBorrower: toBorrower,
		ToLender:   Round2(deposit - toBorrower),
	}, nil
}

// DiscountRateFor returns the discount a user's subscription tier earns.
func DiscountRateFor(u *domain.User) float64 {
	if u != nil && u.IsPremium() {
		return 10
	}
	return 0
}
