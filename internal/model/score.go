// Package model defines the rent roll records and the score result emitted by the iApp.
package model

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RiskRating is the coarse three-band classification derived from a credit score.
type RiskRating string

// Risk bands.
const (
	RiskLow    RiskRating = "LOW"
	RiskMedium RiskRating = "MEDIUM"
	RiskHigh   RiskRating = "HIGH"
)

// Valid reports whether r is one of the known bands.
func (r RiskRating) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// PaymentStatus is a normalized payment status value.
type PaymentStatus string

// Statuses that affect scoring. Anything else only counts toward tenants.
const (
	StatusPaid PaymentStatus = "paid"
	StatusLate PaymentStatus = "late"
)

// NormalizeStatus trims surrounding whitespace and lower-cases the status.
// A Caser holds state, so one is built per call.
func NormalizeStatus(raw string) PaymentStatus {
	return PaymentStatus(cases.Lower(language.Und).String(strings.TrimSpace(raw)))
}

// PaymentRecord is one rent roll row as read from the input file. Values are
// kept raw; the scorer owns numeric parsing.
type PaymentRecord struct {
	Row           int    `json:"row"`
	MonthlyRent   string `json:"monthly_rent"`
	PaymentStatus string `json:"payment_status"`
}

// ScoreResult is the output of a scoring run.
type ScoreResult struct {
	VerifiedAnnualIncome decimal.Decimal `json:"verified_annual_income"`
	CreditScore          int             `json:"credit_score"`
	RiskRating           RiskRating      `json:"risk_rating"`
	TenantCount          int             `json:"tenant_count"`
	LatePayments         int             `json:"late_payments"`
}

// scoreResultJSON mirrors ScoreResult with the income as a bare JSON number.
type scoreResultJSON struct {
	VerifiedAnnualIncome json.Number `json:"verified_annual_income"`
	CreditScore          int         `json:"credit_score"`
	RiskRating           RiskRating  `json:"risk_rating"`
	TenantCount          int         `json:"tenant_count"`
	LatePayments         int         `json:"late_payments"`
}

// MarshalJSON encodes the income as a number rather than decimal's default quoted string.
func (s ScoreResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(scoreResultJSON{
		VerifiedAnnualIncome: json.Number(s.VerifiedAnnualIncome.String()),
		CreditScore:          s.CreditScore,
		RiskRating:           s.RiskRating,
		TenantCount:          s.TenantCount,
		LatePayments:         s.LatePayments,
	})
}

// UnmarshalJSON accepts the income as either a number or a string.
func (s *ScoreResult) UnmarshalJSON(data []byte) error {
	var raw scoreResultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	income := decimal.Zero
	if raw.VerifiedAnnualIncome != "" {
		d, err := decimal.NewFromString(raw.VerifiedAnnualIncome.String())
		if err != nil {
			return err
		}
		income = d
	}
	*s = ScoreResult{
		VerifiedAnnualIncome: income,
		CreditScore:          raw.CreditScore,
		RiskRating:           raw.RiskRating,
		TenantCount:          raw.TenantCount,
		LatePayments:         raw.LatePayments,
	}
	return nil
}
