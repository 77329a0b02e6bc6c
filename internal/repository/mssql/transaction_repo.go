// Package mssql implements the data-store collaborators against the billing
// software's SQL Server database.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"vatkhata/internal/domain"
)

// listForPeriod selects billing-register rows for one book bounded by a
// Gregorian date interval. Bind order is fixed: book id, start, end.
const listForPeriod = `
SELECT
	ISNULL(TransactionId, '')   AS TransactionId,
	ISNULL(RefNo, '')           AS RefNo,
	ISNULL(NepaliDate, '')      AS NepaliDate,
	ISNULL(BillToName, '')      AS BillToName,
	ISNULL(VatPanNo, '')        AS VatPanNo,
	ISNULL(GrandTotal, 0)       AS GrandTotal,
	ISNULL(TotalWithRound, 0)   AS TotalWithRound,
	ISNULL(RoundOffAmount, 0)   AS RoundOffAmount,
	ISNULL(TaxableAmount, 0)    AS TaxableAmount,
	ISNULL(TaxAmount, 0)        AS TaxAmount,
	ISNULL(Status, '')          AS Status,
	ISNULL(ModifyType, '')      AS ModifyType
FROM dbo.BillingRegister
WHERE RegisterType = @p1
  AND TransactionDate >= @p2
  AND TransactionDate <= @p3
ORDER BY TransactionDate, TransactionId`

// TransactionRepository implements domain.TransactionRepository using SQL Server
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// ListForPeriod returns all register rows for the book within [start, end].
func (r *TransactionRepository) ListForPeriod(ctx context.Context, bookID int, start, end time.Time) ([]domain.RawTransaction, error) {
	rows, err := r.db.QueryContext(ctx, listForPeriod, bookID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query billing register: %w", err)
	}
	defer rows.Close()

	var out []domain.RawTransaction
	for rows.Next() {
		var (
			t                                              domain.RawTransaction
			grand, withRound, roundOff, taxable, taxAmount string
		)
		if err := rows.Scan(
			&t.TransactionID,
			&t.ReferenceNo,
			&t.NepaliDate,
			&t.Counterparty,
			&t.PAN,
			&grand,
			&withRound,
			&roundOff,
			&taxable,
			&taxAmount,
			&t.Status,
			&t.ModifyType,
		); err != nil {
			return nil, fmt.Errorf("scan billing register row: %w", err)
		}
		if t.GrandTotal, err = decimal.NewFromString(grand); err != nil {
			return nil, fmt.Errorf("grand total %q: %w", grand, err)
		}
		if t.TotalWRound, err = decimal.NewFromString(withRound); err != nil {
			return nil, fmt.Errorf("total w round %q: %w", withRound, err)
		}
		if t.RoundOff, err = decimal.NewFromString(roundOff); err != nil {
			return nil, fmt.Errorf("round off %q: %w", roundOff, err)
		}
		if t.TaxableAmount, err = decimal.NewFromString(taxable); err != nil {
			return nil, fmt.Errorf("taxable amount %q: %w", taxable, err)
		}
		if t.TaxAmount, err = decimal.NewFromString(taxAmount); err != nil {
			return nil, fmt.Errorf("tax amount %q: %w", taxAmount, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
