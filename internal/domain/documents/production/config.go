package production

import "mercatus/internal/core/numerator"

const (
	// NumeratorStrategy defines the numbering strategy for this document type.
	// Production output is an accounting document, so numbers are strict
	// and gap-free.
	NumeratorStrategy = numerator.StrategyStrict

	// NumeratorPrefix for generated document numbers.
	NumeratorPrefix = "PRD"
)
