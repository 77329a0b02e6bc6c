package domain

import "fmt"

// Book names form a closed set.
const (
	BookPurchase = "purchase"
	BookSales    = "sales"
	BookLedger   = "File 1L+"
)

// Book is one VAT report category: its database identifier, target sheet,
// output column layout, and template location. Columns order defines the
// output column order; SpacerIndices are positions (ascending, applied
// against the evolving column list) where a blank column is inserted to fit
// the official template.
type Book struct {
	ID               int
	Name             string
	Sheet            string
	Symbol           string
	Columns          []string
	SpacerIndices    []int
	TemplateEndpoint string
}

// The three canonical books. Ledger is the above-threshold pseudo-book and
// never appears in the normal report loop.
var (
	Purchase = Book{
		ID:     1,
		Name:   BookPurchase,
		Sheet:  "Nepali PB",
		Symbol: "P",
		Columns: []string{
			"Nepali Date",
			"Reference No",
			"Bill Receiveable Person",
			"Vat Pan No",
			"Grand Total",
			"Taxable Amount",
			"Tax Amount",
		},
		SpacerIndices:    []int{2, 6},
		TemplateEndpoint: "/api/billingregister/BillingRegister/excelFile/2",
	}

	Sales = Book{
		ID:     2,
		Name:   BookSales,
		Sheet:  "Nepali SB",
		Symbol: "S",
		Columns: []string{
			"Nepali Date",
			"Transaction ID",
			"Bill Receiveable Person",
			"Vat Pan No",
			"Grand Total",
			"Taxable Amount",
			"Tax Amount",
		},
		SpacerIndices:    []int{5},
		TemplateEndpoint: "/api/billingregister/BillingRegister/excelFile/1",
	}

	Ledger = Book{
		ID:               0,
		Name:             BookLedger,
		Sheet:            "Sheet1",
		Symbol:           "1L",
		TemplateEndpoint: "Sample%20Files/Transaction%20Above%20One%20Lakh%20Sample%20Document.xls",
	}
)

// ActiveBooks returns the books processed by the normal report loop, in the
// order the all-books flow visits them.
func ActiveBooks() []Book {
	return []Book{Purchase, Sales}
}

// BookByName resolves a book from its name.
func BookByName(name string) (Book, error) {
	switch name {
	case BookPurchase:
		return Purchase, nil
	case BookSales:
		return Sales, nil
	case BookLedger:
		return Ledger, nil
	}
	return Book{}, fmt.Errorf("%w: %q", ErrInvalidBookName, name)
}

// symbolFor is the single source of truth for name->symbol; the stored
// Symbol fields are checked against it once at startup so the two can never
// drift.
func symbolFor(name string) (string, error) {
	switch name {
	case BookPurchase:
		return "P", nil
	case BookSales:
		return "S", nil
	case BookLedger:
		return "1L", nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidBookName, name)
}

func init() {
	for _, b := range []Book{Purchase, Sales, Ledger} {
		want, err := symbolFor(b.Name)
		if err != nil {
			panic(err)
		}
		if b.Symbol != want {
			panic(fmt.Sprintf("book %q: symbol %q does not match name (want %q)", b.Name, b.Symbol, want))
		}
	}
}
