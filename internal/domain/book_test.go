package domain

import (
	"errors"
	"testing"
)

func TestActiveBooks_ExcludesLedger(t *testing.T) {
	books := ActiveBooks()
	if len(books) != 2 {
		t.Fatalf("expected 2 active books, got %d", len(books))
	}
	if books[0].Name != BookPurchase || books[1].Name != BookSales {
		t.Errorf("expected purchase then sales, got %s then %s", books[0].Name, books[1].Name)
	}
}

func TestBook_Symbols(t *testing.T) {
	if Purchase.Symbol != "P" {
		t.Errorf("purchase symbol = %s", Purchase.Symbol)
	}
	if Sales.Symbol != "S" {
		t.Errorf("sales symbol = %s", Sales.Symbol)
	}
	if Ledger.Symbol != "1L" {
		t.Errorf("ledger symbol = %s", Ledger.Symbol)
	}
}

func TestBook_ColumnLayout(t *testing.T) {
	if len(Purchase.Columns) != 7 {
		t.Errorf("purchase columns = %d, want 7", len(Purchase.Columns))
	}
	if Purchase.Columns[1] != "Reference No" {
		t.Errorf("purchase identifies rows by %q, want Reference No", Purchase.Columns[1])
	}
	if Sales.Columns[1] != "Transaction ID" {
		t.Errorf("sales identifies rows by %q, want Transaction ID", Sales.Columns[1])
	}
}

func TestBookByName(t *testing.T) {
	b, err := BookByName("sales")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if b.ID != 2 {
		t.Errorf("sales id = %d, want 2", b.ID)
	}

	if _, err := BookByName("inventory"); !errors.Is(err, ErrInvalidBookName) {
		t.Errorf("expected ErrInvalidBookName, got %v", err)
	}
}
