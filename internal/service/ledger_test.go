package service

import (
	"testing"

	"github.com/shopspring/decimal"

	"vatkhata/internal/domain"
)

func classified(pan, name string, grand, taxable float64) domain.ClassifiedTransaction {
	return domain.ClassifiedTransaction{
		PAN:           pan,
		Counterparty:  name,
		GrandTotal:    decimal.NewFromFloat(grand),
		TaxableAmount: decimal.NewFromFloat(taxable),
	}
}

func TestAggregateAboveThreshold(t *testing.T) {
	rows := []domain.ClassifiedTransaction{
		classified("123", "ABC Inn", 52_987, 46_891.15),
		classified("567", "John Doe", 1_50_000, 132_743.36),
		classified("567", "John Doe Trading", 50_000, 44_247.79),
		classified("", "Walk-in", 5_00_000, 442_477.88),
	}

	records := AggregateAboveThreshold(rows, "S")

	// 123 stays under the cutoff, the empty PAN never participates.
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.PAN != "567" {
		t.Errorf("expected PAN 567, got %s", r.PAN)
	}
	if r.Counterparty != "John Doe" {
		t.Errorf("expected first-seen counterparty, got %s", r.Counterparty)
	}
	want := decimal.NewFromFloat(132_743.36).Add(decimal.NewFromFloat(44_247.79))
	if !r.TaxableAmount.Equal(want) {
		t.Errorf("expected taxable sum %s, got %s", want, r.TaxableAmount)
	}
	if r.TradeNameType != "E" {
		t.Errorf("expected trade name type E, got %s", r.TradeNameType)
	}
	if r.BookSymbol != "S" {
		t.Errorf("expected book symbol S, got %s", r.BookSymbol)
	}
	if !r.ExemptedAmount.IsZero() {
		t.Errorf("expected exempted amount 0, got %s", r.ExemptedAmount)
	}
}

func TestAggregateAboveThreshold_ExactCutoffExcluded(t *testing.T) {
	rows := []domain.ClassifiedTransaction{
		classified("123", "Boundary", 1_00_000, 88_495.58),
	}
	if records := AggregateAboveThreshold(rows, "P"); len(records) != 0 {
		t.Errorf("grand total of exactly 1 lakh must not be reported, got %d records", len(records))
	}
}

func TestLedger_ResetExtendIdempotence(t *testing.T) {
	ledger := NewLedger()
	ledger.Reset()
	ledger.Extend(nil)
	ledger.Extend(nil)
	if got := ledger.Snapshot(); len(got) != 0 {
		t.Errorf("expected empty snapshot, got %v", got)
	}
}

func TestLedger_CrossBookDuplicatePAN(t *testing.T) {
	// The same taxpayer crossing the threshold in both books yields two
	// ledger rows, one per book symbol; books are never merged.
	purchase := []domain.ClassifiedTransaction{classified("567", "John Doe", 2_00_000, 176_991.15)}
	sales := []domain.ClassifiedTransaction{classified("567", "John Doe", 3_00_000, 265_486.73)}

	ledger := NewLedger()
	ledger.Extend(AggregateAboveThreshold(purchase, "P"))
	ledger.Extend(AggregateAboveThreshold(sales, "S"))

	records := ledger.Snapshot()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].BookSymbol != "P" || records[1].BookSymbol != "S" {
		t.Errorf("expected symbols [P S], got [%s %s]", records[0].BookSymbol, records[1].BookSymbol)
	}
	if records[0].PAN != records[1].PAN {
		t.Errorf("expected the same PAN in both rows, got %s and %s", records[0].PAN, records[1].PAN)
	}
}

func TestLedger_SnapshotIsACopy(t *testing.T) {
	ledger := NewLedger()
	ledger.Extend([]domain.ThresholdRecord{{PAN: "567"}})

	snap := ledger.Snapshot()
	snap[0].PAN = "999"

	if ledger.Snapshot()[0].PAN != "567" {
		t.Error("mutating a snapshot must not affect the ledger")
	}
}
