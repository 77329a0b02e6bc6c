package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"vatkhata/internal/domain"
	"vatkhata/internal/report"
)

// LedgerFileName is the above-threshold ledger output, one per all-books run.
const LedgerFileName = "transactions_above_1L.xls"

// Generator orchestrates report generation for a filing month: one book, or
// all active books plus the cross-book above-threshold ledger.
type Generator struct {
	reports   *ReportService
	templates domain.TemplateFetcher

	taxpayerPAN string
	officeName  string
	sheetsDir   string

	// Console output for audit listings; defaults to stdout in main.
	Out io.Writer
}

// NewGenerator creates a new Generator
func NewGenerator(reports *ReportService, templates domain.TemplateFetcher, taxpayerPAN, officeName, sheetsDir string, out io.Writer) *Generator {
	return &Generator{
		reports:     reports,
		templates:   templates,
		taxpayerPAN: taxpayerPAN,
		officeName:  officeName,
		sheetsDir:   sheetsDir,
		Out:         out,
	}
}

// WorkDir is where a filing month's reports land:
// <sheets>/<fiscal year>/<month name>, with the fiscal-year slash made
// path-safe.
func (g *Generator) WorkDir(month domain.FilingMonth) string {
	fiscal := strings.ReplaceAll(month.FiscalYear(), "/", "-")
	return filepath.Join(g.sheetsDir, fiscal, month.MonthName())
}

// Generate produces the report for one book, or, when book is nil, for all
// active books followed by the above-threshold ledger. The ledger is built
// fresh per call, extended once per book in order, and saved exactly once
// after the last book.
func (g *Generator) Generate(ctx context.Context, month domain.FilingMonth, book *domain.Book) error {
	runLog := log.With().
		Str("run_id", uuid.New().String()).
		Int("year", month.Year).
		Str("month", month.MonthName()).
		Logger()

	if book != nil {
		runLog.Info().Str("book", book.Name).Msg("Generating single book report")
		_, err := g.generateBook(ctx, month, *book)
		return err
	}

	runLog.Info().Msg("Generating all book reports")

	ledger := NewLedger()
	ledger.Reset()
	for _, b := range domain.ActiveBooks() {
		classified, err := g.generateBook(ctx, month, b)
		if err != nil {
			return err
		}
		ledger.Extend(AggregateAboveThreshold(classified, b.Symbol))
	}

	template, err := g.templates.Get(ctx, domain.Ledger)
	if err != nil {
		return err
	}
	path := filepath.Join(g.WorkDir(month), LedgerFileName)
	if err := ledger.Save(template, path); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}

	runLog.Info().Int("records", len(ledger.Snapshot())).Msg("Above-threshold ledger saved")
	return nil
}

// generateBook runs the full pipeline for one book: select, classify,
// assemble onto the template, persist, then print the audit listings.
func (g *Generator) generateBook(ctx context.Context, month domain.FilingMonth, book domain.Book) ([]domain.ClassifiedTransaction, error) {
	kept, cancelledIDs, err := g.reports.SelectTransactions(ctx, book, month)
	if err != nil {
		return nil, err
	}

	classified, err := Classify(kept, book)
	if err != nil {
		return nil, err
	}

	template, err := g.templates.Get(ctx, book)
	if err != nil {
		return nil, err
	}
	f, err := report.Open(template)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	detail := report.DetailLine(g.taxpayerPAN, g.officeName, month.Year, month.MonthName())
	if err := report.RenderHeader(f, book.Sheet, detail); err != nil {
		return nil, err
	}
	if err := report.AppendRows(f, book.Sheet, classified); err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("%s - %s.xlsx", book.Name, month.MonthName())
	if err := report.SaveWorkbook(f, filepath.Join(g.WorkDir(month), filename)); err != nil {
		return nil, err
	}

	g.printRoundOff(book, RoundOffDiscrepancies(kept))
	g.printSummary(book, cancelledIDs, Summarize(classified))

	return classified, nil
}

func (g *Generator) printRoundOff(book domain.Book, entries []RoundOffEntry) {
	if g.Out == nil || len(entries) == 0 {
		return
	}
	fmt.Fprintf(g.Out, "\n[!] %s transactions with round off difference:\n\n", titleCase(book.Name))
	for _, e := range entries {
		fmt.Fprintf(g.Out, "%s  grand total: %s  with round: %s  round off: %s\n",
			e.TransactionID, e.GrandTotal, e.TotalWRound, e.RoundOff)
	}
}

func (g *Generator) printSummary(book domain.Book, cancelledIDs []string, summary Summary) {
	if g.Out == nil {
		return
	}
	fmt.Fprintf(g.Out, "\n[+] %s transactions summary:\n\n", titleCase(book.Name))
	if len(cancelledIDs) > 0 {
		fmt.Fprintf(g.Out, "Cancelled %s transactions:\n", book.Name)
		for _, id := range cancelledIDs {
			fmt.Fprintf(g.Out, "- %s\n", id)
		}
	}
	fmt.Fprintln(g.Out, summary)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
