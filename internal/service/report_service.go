package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"vatkhata/internal/domain"
)

// ReportService selects billing-register rows for a filing month and shapes
// them into a book's template layout.
type ReportService struct {
	repo domain.TransactionRepository
}

// NewReportService creates a new ReportService
func NewReportService(repo domain.TransactionRepository) *ReportService {
	return &ReportService{repo: repo}
}

// SelectTransactions queries the register for the book over the filing
// month's Gregorian range, strips cancelled rows, and returns the kept rows
// with the cancelled transaction IDs for audit output.
func (s *ReportService) SelectTransactions(ctx context.Context, book domain.Book, month domain.FilingMonth) ([]domain.RawTransaction, []string, error) {
	period, err := month.GregorianRange()
	if err != nil {
		return nil, nil, err
	}

	log.Info().Str("book", book.Name).Str("period", period.String()).Msg("Querying database")

	rows, err := s.repo.ListForPeriod(ctx, book.ID, period.Start, period.End)
	if err != nil {
		return nil, nil, err
	}

	kept, cancelled := RemoveCancelled(rows)
	return kept, cancelled, nil
}

// RemoveCancelled partitions rows by the cancellation rule. Kept rows keep
// their original order; cancelled IDs are retained for audit printing.
func RemoveCancelled(rows []domain.RawTransaction) ([]domain.RawTransaction, []string) {
	kept := make([]domain.RawTransaction, 0, len(rows))
	var cancelled []string
	for _, row := range rows {
		if row.Cancelled() {
			log.Warn().Str("transaction", row.ID()).Str("modify_type", row.ModifyType).Msg("Cancelled transaction removed")
			cancelled = append(cancelled, row.ID())
			continue
		}
		kept = append(kept, row)
	}
	return kept, cancelled
}

// Classify projects rows onto the book's column order, inserts spacer cells,
// and normalizes the PAN column. Never drops a row: the output length always
// equals the input length.
func Classify(rows []domain.RawTransaction, book domain.Book) ([]domain.ClassifiedTransaction, error) {
	out := make([]domain.ClassifiedTransaction, 0, len(rows))
	for _, row := range rows {
		cells := make([]any, 0, len(book.Columns)+len(book.SpacerIndices))
		for _, col := range book.Columns {
			v, ok := row.Column(col)
			if !ok {
				return nil, fmt.Errorf("%w: %q", domain.ErrSchemaMismatch, col)
			}
			if col == "Vat Pan No" {
				pan, err := normalizePAN(row.PAN)
				if err != nil {
					return nil, err
				}
				v = pan
			}
			cells = append(cells, v)
		}

		// Spacer indices are ascending and apply against the evolving row:
		// each insertion shifts everything after it.
		for _, idx := range book.SpacerIndices {
			cells = append(cells[:idx], append([]any{nil}, cells[idx:]...)...)
		}

		out = append(out, domain.ClassifiedTransaction{
			PAN:           row.PAN,
			Counterparty:  row.Counterparty,
			GrandTotal:    row.GrandTotal,
			TaxableAmount: row.TaxableAmount,
			TaxAmount:     row.TaxAmount,
			Cells:         cells,
		})
	}
	return out, nil
}

// normalizePAN reproduces the template's numeric-type constraint: a missing
// PAN passes through as the numeric sentinel zero and is restored to the
// empty string; anything else must be numeric and is preserved verbatim.
func normalizePAN(pan string) (string, error) {
	if pan == "" {
		return "", nil
	}
	if _, err := strconv.ParseInt(pan, 10, 64); err != nil {
		return "", fmt.Errorf("%w: %q", domain.ErrMalformedPAN, pan)
	}
	return pan, nil
}

// RoundOffEntry is one transaction whose grand total differs from its
// rounded total.
type RoundOffEntry struct {
	TransactionID string
	GrandTotal    decimal.Decimal
	TotalWRound   decimal.Decimal
	RoundOff      decimal.Decimal
}

// RoundOffDiscrepancies returns the rows where rounding changed the total.
func RoundOffDiscrepancies(rows []domain.RawTransaction) []RoundOffEntry {
	var out []RoundOffEntry
	for _, row := range rows {
		if row.GrandTotal.Equal(row.TotalWRound) {
			continue
		}
		out = append(out, RoundOffEntry{
			TransactionID: row.ID(),
			GrandTotal:    row.GrandTotal,
			TotalWRound:   row.TotalWRound,
			RoundOff:      row.RoundOff,
		})
	}
	return out
}

// Summary aggregates a book's classified transactions for console output.
type Summary struct {
	GrandTotalSum    decimal.Decimal
	TaxableAmountSum decimal.Decimal
	TaxAmountSum     decimal.Decimal
	Count            int
}

// Summarize totals the classified rows.
func Summarize(rows []domain.ClassifiedTransaction) Summary {
	s := Summary{}
	for _, row := range rows {
		s.GrandTotalSum = s.GrandTotalSum.Add(row.GrandTotal)
		s.TaxableAmountSum = s.TaxableAmountSum.Add(row.TaxableAmount)
		s.TaxAmountSum = s.TaxAmountSum.Add(row.TaxAmount)
		s.Count++
	}
	return s
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Grand Total Sum: %s\n", s.GrandTotalSum)
	fmt.Fprintf(&b, "Taxable Amount Sum: %s\n", s.TaxableAmountSum)
	fmt.Fprintf(&b, "Tax Amount Sum: %s\n", s.TaxAmountSum)
	fmt.Fprintf(&b, "Total Transactions: %d", s.Count)
	return b.String()
}
