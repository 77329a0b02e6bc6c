package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"vatkhata/internal/domain"
	"vatkhata/internal/testutil"
)

func TestDetailLine(t *testing.T) {
	got := DetailLine("1234567890", "test_office", 2080, "Kartik")
	want := "करदाता दर्ता नं (PAN) : 1234567890        करदाताको नाम: test_office         साल: 2080    कर अवधि: Kartik"
	if got != want {
		t.Errorf("detail line mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestRenderHeader_RoundTrip(t *testing.T) {
	template := testutil.WorkbookBytes(t, "Nepali SB", [][]any{{"Sales Book"}, {}, {}, {""}})
	f, err := Open(template)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer f.Close()

	detail := DetailLine("1234567890", "test_office", 2080, "Kartik")
	if err := RenderHeader(f, "Nepali SB", detail); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got, err := f.GetCellValue("Nepali SB", "A4")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != detail {
		t.Errorf("expected cell to read back the exact detail line, got %q", got)
	}
}

func TestRenderHeader_MissingSheet(t *testing.T) {
	template := testutil.WorkbookBytes(t, "Nepali SB", [][]any{{"Sales Book"}})
	f, err := Open(template)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer f.Close()

	if err := RenderHeader(f, "Nepali PB", "detail"); !errors.Is(err, domain.ErrTemplateSchema) {
		t.Errorf("expected ErrTemplateSchema, got %v", err)
	}
}

func TestAppendRows_AfterExtent(t *testing.T) {
	template := testutil.WorkbookBytes(t, "Nepali SB", [][]any{
		{"Sales Book"}, {"header"}, {"more header"},
	})
	f, err := Open(template)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer f.Close()

	rows := []domain.ClassifiedTransaction{
		{Cells: []any{"2080-02-01", "T1", "ABC Inn", "123", decimal.NewFromFloat(52_987), nil, decimal.NewFromFloat(46_891.15)}},
		{Cells: []any{"2080-02-02", "T2", "John Doe", "", decimal.NewFromInt(2_00_000), nil, decimal.NewFromFloat(176_991.15)}},
	}
	if err := AppendRows(f, "Nepali SB", rows); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got, err := f.GetRows("Nepali SB")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 3 template rows + 2 appended, got %d", len(got))
	}
	if got[3][1] != "T1" || got[4][1] != "T2" {
		t.Errorf("expected appended rows in order, got %v and %v", got[3], got[4])
	}
	// Spacer cells stay empty.
	if got[3][5] != "" {
		t.Errorf("expected empty spacer cell, got %q", got[3][5])
	}
}

func TestAppendRows_MissingSheet(t *testing.T) {
	template := testutil.WorkbookBytes(t, "Sheet1", [][]any{{"x"}})
	f, err := Open(template)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer f.Close()

	if err := AppendRows(f, "Nepali SB", nil); !errors.Is(err, domain.ErrTemplateSchema) {
		t.Errorf("expected ErrTemplateSchema, got %v", err)
	}
}

func TestWriteLedger(t *testing.T) {
	template := testutil.WorkbookBytes(t, "Sheet1", [][]any{
		{"PAN No", "Bill Receiveable Person", "Trade Name Type", "Transaction Type", "Taxable Amount", "Exempted Amount"},
	})
	records := []domain.ThresholdRecord{
		{
			PAN:           "567",
			Counterparty:  "John Doe",
			TradeNameType: "E",
			BookSymbol:    "S",
			TaxableAmount: decimal.NewFromFloat(176_991.15),
		},
	}

	path := filepath.Join(t.TempDir(), "transactions_above_1L.xls")
	if err := WriteLedger(template, records, path); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open ledger output: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 record, got %d rows", len(rows))
	}
	if rows[0][4] != "Taxable Amount" {
		t.Errorf("expected template header row, got %v", rows[0])
	}
	if rows[1][0] != "567" || rows[1][2] != "E" || rows[1][3] != "S" {
		t.Errorf("unexpected ledger record %v", rows[1])
	}
}

func TestWriteLedger_LegacyTemplateRouting(t *testing.T) {
	// A legacy BIFF .xls template must reach the BIFF reader, not excelize.
	// A truncated compound file still errors, but from the BIFF branch.
	template := make([]byte, 512)
	copy(template, ole2Signature)

	path := filepath.Join(t.TempDir(), "transactions_above_1L.xls")
	err := WriteLedger(template, nil, path)
	if err == nil {
		t.Fatal("expected an error for a truncated template")
	}
	if strings.Contains(err.Error(), "unsupported workbook file format") {
		t.Errorf("legacy template was handed to the xlsx reader: %v", err)
	}
	if !strings.Contains(err.Error(), "ledger template") {
		t.Errorf("expected the ledger template error path, got %v", err)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("expected no output file after a failed template read, got %v", statErr)
	}
}

func TestWriteLedger_EmptyTemplate(t *testing.T) {
	f := excelize.NewFile()
	// Remove all content rows but keep the sheet; header row is required.
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	f.Close()

	path := filepath.Join(t.TempDir(), "out.xls")
	if err := WriteLedger(buf.Bytes(), nil, path); !errors.Is(err, domain.ErrTemplateSchema) {
		t.Errorf("expected ErrTemplateSchema, got %v", err)
	}
}
