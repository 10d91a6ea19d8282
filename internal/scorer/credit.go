// Package scorer computes the rent roll credit score.
package scorer

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/propshield/credit-iapp/internal/model"
)

// Scoring constants.
const (
	MaxScore        = 100
	LatePenalty     = 10
	MediumRiskBelow = 80
	HighRiskBelow   = 50
	MonthsPerYear   = 12

	// Bounds on a parsed rent. Values outside them are rejected before any
	// arithmetic so a short cell cannot expand into a huge number.
	MaxRentExponent = 18
	MaxRentDigits   = 30
)

var monthsPerYear = decimal.NewFromInt(MonthsPerYear)

// Compute folds the records into a ScoreResult. Paid rows add their rent to
// income, late rows add a penalty, every row counts as a tenant. Late rent is
// not counted as income. Any unparseable rent aborts the computation.
func Compute(records []model.PaymentRecord) (model.ScoreResult, error) {
	totalIncome := decimal.Zero
	var tenants, late int

	for i, rec := range records {
		row := rec.Row
		if row == 0 {
			row = i + 1
		}

		tenants++
		rent, err := ParseRent(rec.MonthlyRent)
		if err != nil {
			return model.ScoreResult{}, eris.Wrapf(err, "scorer: row %d", row)
		}

		switch model.NormalizeStatus(rec.PaymentStatus) {
		case model.StatusPaid:
			totalIncome = totalIncome.Add(rent)
		case model.StatusLate:
			late++
		}
	}

	score := CreditScore(late)
	return model.ScoreResult{
		VerifiedAnnualIncome: totalIncome.Mul(monthsPerYear),
		CreditScore:          score,
		RiskRating:           ClassifyRisk(score),
		TenantCount:          tenants,
		LatePayments:         late,
	}, nil
}

// ParseRent parses a monthly rent value. Surrounding whitespace is ignored;
// the value must be a finite, non-negative number of bounded size. Digit
// separators such as "1_000" or "1,000" are not accepted.
func ParseRent(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, eris.Wrap(model.ErrMalformedInput, "monthly rent is empty")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, eris.Wrapf(model.ErrMalformedInput, "monthly rent %q is not a number", raw)
	}
	if d.IsNegative() {
		return decimal.Zero, eris.Wrapf(model.ErrMalformedInput, "monthly rent %q is negative", raw)
	}
	if exp := d.Exponent(); exp > MaxRentExponent || exp < -MaxRentExponent || d.NumDigits() > MaxRentDigits {
		return decimal.Zero, eris.Wrapf(model.ErrMalformedInput, "monthly rent %q is out of range", raw)
	}
	return d, nil
}

// CreditScore applies the flat late payment penalty, floored at zero.
func CreditScore(latePayments int) int {
	score := MaxScore - LatePenalty*latePayments
	if score < 0 {
		return 0
	}
	return score
}

// ClassifyRisk maps a score to its band. The checks run in order so the
// lowest matching band wins.
func ClassifyRisk(score int) model.RiskRating {
	risk := model.RiskLow
	if score < MediumRiskBelow {
		risk = model.RiskMedium
	}
	if score < HighRiskBelow {
		risk = model.RiskHigh
	}
	return risk
}
