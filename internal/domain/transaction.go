package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RawTransaction is one billing-register row as returned by the store.
// Purchase rows carry ReferenceNo, sales rows TransactionID; the rest of the
// columns are common to both books.
type RawTransaction struct {
	TransactionID string
	ReferenceNo   string
	NepaliDate    string
	Counterparty  string
	PAN           string
	GrandTotal    decimal.Decimal
	TotalWRound   decimal.Decimal
	RoundOff      decimal.Decimal
	TaxableAmount decimal.Decimal
	TaxAmount     decimal.Decimal
	Status        string
	ModifyType    string
}

// Column returns the value behind a template column name. The second return
// is false for column names the register does not provide.
func (t RawTransaction) Column(name string) (any, bool) {
	switch name {
	case "Nepali Date":
		return t.NepaliDate, true
	case "Transaction ID":
		return t.TransactionID, true
	case "Reference No":
		return t.ReferenceNo, true
	case "Bill Receiveable Person":
		return t.Counterparty, true
	case "Vat Pan No":
		return t.PAN, true
	case "Grand Total":
		return t.GrandTotal, true
	case "Total w Round":
		return t.TotalWRound, true
	case "Round Off":
		return t.RoundOff, true
	case "Taxable Amount":
		return t.TaxableAmount, true
	case "Tax Amount":
		return t.TaxAmount, true
	case "Status":
		return t.Status, true
	case "Modify Type":
		return t.ModifyType, true
	}
	return nil, false
}

// Cancelled reports whether the row was voided in the billing software.
func (t RawTransaction) Cancelled() bool {
	return t.Status == StatusCancelled
}

// ID returns the row identifier used in audit output; purchase rows are
// identified by reference number.
func (t RawTransaction) ID() string {
	if t.TransactionID != "" {
		return t.TransactionID
	}
	return t.ReferenceNo
}

// ClassifiedTransaction is a raw row projected onto a book's column layout.
// Cells holds the row in output order, spacer cells nil; the typed fields
// feed the threshold aggregation.
type ClassifiedTransaction struct {
	PAN           string
	Counterparty  string
	GrandTotal    decimal.Decimal
	TaxableAmount decimal.Decimal
	TaxAmount     decimal.Decimal
	Cells         []any
}

// ThresholdRecord is one row of the cross-book above-threshold ledger:
// a taxpayer whose aggregated grand total exceeded the reporting cutoff in
// one book.
type ThresholdRecord struct {
	PAN            string
	Counterparty   string
	TradeNameType  string
	BookSymbol     string
	TaxableAmount  decimal.Decimal
	ExemptedAmount decimal.Decimal
}

// Cells returns the record in ledger column order.
func (r ThresholdRecord) Cells() []any {
	return []any{r.PAN, r.Counterparty, r.TradeNameType, r.BookSymbol, r.TaxableAmount, r.ExemptedAmount}
}

// TransactionRepository retrieves billing-register rows for a book over a
// Gregorian date interval. Parameter order (book id, start, end) is fixed.
type TransactionRepository interface {
	ListForPeriod(ctx context.Context, bookID int, start, end time.Time) ([]RawTransaction, error)
}

// TemplateFetcher downloads the officially issued spreadsheet template for a
// book. Implementations must verify content integrity before returning.
type TemplateFetcher interface {
	Get(ctx context.Context, book Book) ([]byte, error)
}
