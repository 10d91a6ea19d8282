package iapp

import (
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/xeipuuv/gojsonschema"

	"github.com/propshield/credit-iapp/internal/model"
)

// resultSchema pins result.json to exactly the five score fields.
const resultSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "required": ["verified_annual_income", "credit_score", "risk_rating", "tenant_count", "late_payments"],
  "properties": {
    "verified_annual_income": {"type": "number", "minimum": 0},
    "credit_score": {"type": "integer", "minimum": 0, "maximum": 100},
    "risk_rating": {"enum": ["LOW", "MEDIUM", "HIGH"]},
    "tenant_count": {"type": "integer", "minimum": 0},
    "late_payments": {"type": "integer", "minimum": 0}
  }
}`

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(resultSchema))
})

// ValidateResult checks an encoded result document against the output
// contract, plus the cross-field invariant the schema cannot express.
func ValidateResult(doc []byte, result model.ScoreResult) error {
	schema, err := compiledSchema()
	if err != nil {
		return eris.Wrap(err, "iapp: compile result schema")
	}

	res, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return eris.Wrap(err, "iapp: validate result")
	}
	if !res.Valid() {
		errs := make([]string, len(res.Errors()))
		for i, desc := range res.Errors() {
			errs[i] = desc.String()
		}
		return eris.Errorf("iapp: result failed validation: %s", strings.Join(errs, "; "))
	}

	if result.LatePayments > result.TenantCount {
		return eris.Errorf("iapp: late_payments %d exceeds tenant_count %d", result.LatePayments, result.TenantCount)
	}
	return nil
}
