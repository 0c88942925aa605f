package dto

// Result shapes for POST /v1/transactions/import and its preview variant.
// Row numbers are 1-based file line numbers: the header is line 1, so the
// first data row reports as row 2. A human can fix and re-upload exactly
// the failing lines.

// ImportRowError is one rejected row with its reason and raw content.
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
	RawRow string `json:"raw_row"`
}

// ImportRowDuplicate is one row skipped because a matching transaction
// (same client, same item, same calendar day) already exists.
type ImportRowDuplicate struct {
	Row      int                 `json:"row"`
	Existing TransactionResponse `json:"existing"`
	RawRow   string              `json:"raw_row"`
}

// ImportResult is the full accounting of one import (or preview) run.
// Row-level problems never abort the batch; only an unparseable file or an
// infrastructure write failure does.
type ImportResult struct {
	BatchID         string               `json:"batch_id,omitempty"`
	SuccessfulCount int                  `json:"successful_count"`
	Errors          []ImportRowError     `json:"errors"`
	Duplicates      []ImportRowDuplicate `json:"duplicates"`
	// Valid is populated by preview only: the rows that would import.
	Valid []TransactionResponse `json:"valid,omitempty"`
}
