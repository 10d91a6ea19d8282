package iapp

import (
	"github.com/rotisserie/eris"

	"github.com/propshield/credit-iapp/internal/model"
)

// OutcomeKind tags how a run ended.
type OutcomeKind int

const (
	// OutcomeSuccess means result.json was written.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeInputNotFound means the rent roll could not be opened.
	OutcomeInputNotFound
	// OutcomeProcessingError means the rent roll or the result could not be processed.
	OutcomeProcessingError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeInputNotFound:
		return "input_not_found"
	case OutcomeProcessingError:
		return "processing_error"
	default:
		return "unknown"
	}
}

// Outcome is the result of a run. Result and ResultPath are set only on
// success; Err is set only on failure.
type Outcome struct {
	Kind       OutcomeKind
	Result     model.ScoreResult
	ResultPath string
	Err        error
}

// OK reports whether the run succeeded.
func (o Outcome) OK() bool {
	return o.Kind == OutcomeSuccess
}

func success(result model.ScoreResult, path string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Result: result, ResultPath: path}
}

func failure(err error) Outcome {
	kind := OutcomeProcessingError
	if eris.Is(err, model.ErrInputNotFound) {
		kind = OutcomeInputNotFound
	}
	return Outcome{Kind: kind, Err: err}
}
