package domain

import "errors"

// Domain errors
var (
	ErrInvalidFilingMonth = errors.New("invalid filing month")
	ErrSchemaMismatch     = errors.New("required column missing from query result")
	ErrMalformedPAN       = errors.New("vat pan no is not numeric")
	ErrTemplateSchema     = errors.New("expected sheet missing from template")
	ErrTemplateIntegrity  = errors.New("template checksum mismatch")
	ErrBookHashNotFound   = errors.New("no checksum registered for book")
	ErrInvalidBookName    = errors.New("invalid book name")
	ErrNoBackupFound      = errors.New("no backup file matched pattern")
)

// StatusCancelled is the billing-register status code marking a cancelled
// transaction. Cancelled rows are removed from reports, never treated as
// failures.
const StatusCancelled = "001-03"

// ReportingThreshold is the "1 lakh" cutoff: taxpayers whose summed grand
// total strictly exceeds this land in the above-threshold ledger.
const ReportingThreshold = 100_000
