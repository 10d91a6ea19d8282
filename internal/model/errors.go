package model

import "github.com/rotisserie/eris"

// Error kinds for a scoring run. Both are terminal: the run writes no result file.
var (
	// ErrInputNotFound means the rent roll could not be located or opened.
	ErrInputNotFound = eris.New("input not found")

	// ErrMalformedInput means a header or row could not be parsed.
	ErrMalformedInput = eris.New("malformed input")

	// ErrProcessing is the processing-error kind; it is the same sentinel as ErrMalformedInput.
	ErrProcessing = ErrMalformedInput
)
