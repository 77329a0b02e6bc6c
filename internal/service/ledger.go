package service

import (
	"github.com/shopspring/decimal"

	"vatkhata/internal/domain"
	"vatkhata/internal/report"
)

// TradeNameType is fixed for every ledger row; the official form expects it.
const TradeNameType = "E"

// AggregateAboveThreshold groups a book's classified rows by PAN, keeping the
// first-seen counterparty name and summing taxable amount and grand total per
// group. Rows without a PAN are excluded. Only groups whose summed grand
// total strictly exceeds the reporting threshold are emitted.
func AggregateAboveThreshold(rows []domain.ClassifiedTransaction, bookSymbol string) []domain.ThresholdRecord {
	type group struct {
		counterparty string
		taxable      decimal.Decimal
		grand        decimal.Decimal
	}

	groups := make(map[string]*group)
	var order []string
	for _, row := range rows {
		if row.PAN == "" {
			continue
		}
		g, ok := groups[row.PAN]
		if !ok {
			g = &group{counterparty: row.Counterparty}
			groups[row.PAN] = g
			order = append(order, row.PAN)
		}
		g.taxable = g.taxable.Add(row.TaxableAmount)
		g.grand = g.grand.Add(row.GrandTotal)
	}

	threshold := decimal.NewFromInt(domain.ReportingThreshold)
	var out []domain.ThresholdRecord
	for _, pan := range order {
		g := groups[pan]
		if !g.grand.GreaterThan(threshold) {
			continue
		}
		out = append(out, domain.ThresholdRecord{
			PAN:            pan,
			Counterparty:   g.counterparty,
			TradeNameType:  TradeNameType,
			BookSymbol:     bookSymbol,
			TaxableAmount:  g.taxable,
			ExemptedAmount: decimal.Zero,
		})
	}
	return out
}

// Ledger accumulates above-threshold records across the books of one
// all-books run. One instance per run; callers reset before reuse.
// Single-threaded batch use only.
type Ledger struct {
	records []domain.ThresholdRecord
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Reset clears the accumulated records.
func (l *Ledger) Reset() {
	l.records = nil
}

// Extend appends records from one book.
func (l *Ledger) Extend(records []domain.ThresholdRecord) {
	l.records = append(l.records, records...)
}

// Snapshot returns a copy of the current contents.
func (l *Ledger) Snapshot() []domain.ThresholdRecord {
	out := make([]domain.ThresholdRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Save writes the accumulated records to path, using the ledger template's
// first row as the column schema.
func (l *Ledger) Save(template []byte, path string) error {
	return report.WriteLedger(template, l.Snapshot(), path)
}
