// internal/services/application/calculate-projected-return/calculator.go
package calculateprojectedreturn

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const DefaultMonthlyRate = 0.05

type Calculator struct {
	monthlyRate float64
}

func NewCalculator(monthlyRate float64) *Calculator {
	if monthlyRate <= 0 {
		monthlyRate = DefaultMonthlyRate
	}
	return &Calculator{monthlyRate: monthlyRate}
}

func (c *Calculator) MonthlyRate() float64 {
	return c.monthlyRate
}

// Quote resolves the amount from a tier or custom entry and projects the return.
// ok is false when no positive amount could be resolved.
func (c *Calculator) Quote(tier int64, custom string, duration int) (Quote, bool) {
	amount, ok := ResolveAmount(tier, custom)
	if !ok {
		return Quote{Duration: duration, MonthlyRate: c.monthlyRate}, false
	}
	projected := Calculate(amount, duration, c.monthlyRate)
	return Quote{
		Amount:          amount,
		Duration:        duration,
		MonthlyRate:     c.monthlyRate,
		ProjectedReturn: projected,
		Profit:          projected - amount,
	}, true
}

// Calculate returns round(amount * (1 + monthlyRate*duration)), half away from zero.
func Calculate(amount int64, duration int, monthlyRate float64) int64 {
	growth := decimal.NewFromFloat(monthlyRate).Mul(decimal.NewFromInt(int64(duration)))
	total := decimal.NewFromInt(amount).Mul(decimal.NewFromInt(1).Add(growth))
	return total.Round(0).IntPart()
}

// ResolveAmount prefers a non-zero tier, otherwise parses the custom amount.
// Custom amounts may use comma grouping ("150,000").
func ResolveAmount(tier int64, custom string) (int64, bool) {
	if tier != 0 {
		return tier, tier > 0
	}
	cleaned := strings.ReplaceAll(strings.TrimSpace(custom), ",", "")
	if cleaned == "" {
		return 0, false
	}
	amount, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil || amount <= 0 {
		return 0, false
	}
	return amount, true
}

func IsValidDuration(months int) bool {
	for _, d := range Durations {
		if d == months {
			return true
		}
	}
	return false
}

func IsTier(amount int64) bool {
	for _, t := range Tiers {
		if t == amount {
			return true
		}
	}
	return false
}

// FormatAmount groups digits in thousands: 1250000 -> "1,250,000".
func FormatAmount(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String()
}

// FormatNaira prefixes the grouped amount with the naira sign.
func FormatNaira(amount int64) string {
	return "₦" + FormatAmount(amount)
}
