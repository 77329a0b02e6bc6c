// Package report assembles the final spreadsheets: the per-book VAT reports
// built on top of the official templates, and the above-threshold ledger.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/shakinm/xlsReader/xls"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"vatkhata/internal/domain"
)

// detailCell is where the template expects the filing details line.
const detailCell = "A4"

// DetailLine builds the bilingual header written into the template. Spacing
// is exact; the template's layout depends on it.
func DetailLine(pan, officeName string, year int, monthName string) string {
	return fmt.Sprintf(
		"करदाता दर्ता नं (PAN) : %s        करदाताको नाम: %s         साल: %d    कर अवधि: %s",
		pan, officeName, year, monthName,
	)
}

// Open parses template bytes into a workbook.
func Open(template []byte) (*excelize.File, error) {
	f, err := excelize.OpenReader(bytes.NewReader(template))
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	return f, nil
}

// RenderHeader writes the details line into the sheet's header cell.
func RenderHeader(f *excelize.File, sheet, detail string) error {
	if err := requireSheet(f, sheet); err != nil {
		return err
	}
	return f.SetCellValue(sheet, detailCell, detail)
}

// AppendRows writes classified transactions after the sheet's current
// extent, without headers or an index column. Other sheets are untouched.
func AppendRows(f *excelize.File, sheet string, rows []domain.ClassifiedTransaction) error {
	if err := requireSheet(f, sheet); err != nil {
		return err
	}

	existing, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read sheet %q extent: %w", sheet, err)
	}
	start := len(existing) + 1

	for i, row := range rows {
		for j, cell := range row.Cells {
			if cell == nil {
				continue
			}
			name, err := excelize.CoordinatesToCellName(j+1, start+i)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, name, cellValue(cell)); err != nil {
				return err
			}
		}
	}
	return nil
}

// SaveWorkbook persists the workbook, creating parent directories as needed.
// Written through an os.File rather than SaveAs: the ledger keeps the
// portal's historical .xls file name, which SaveAs would reject.
func SaveWorkbook(f *excelize.File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	log.Info().Str("path", filepath.Base(path)).Msg("Saving report")

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return f.Write(out)
}

// WriteLedger writes the accumulated threshold records to a fresh workbook
// at path, using the ledger template's first row as the column schema.
func WriteLedger(template []byte, records []domain.ThresholdRecord, path string) error {
	headers, err := ledgerHeaders(template)
	if err != nil {
		return err
	}

	out := excelize.NewFile()
	defer out.Close()
	outSheet := out.GetSheetName(0)

	for j, h := range headers {
		name, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := out.SetCellValue(outSheet, name, h); err != nil {
			return err
		}
	}
	for i, record := range records {
		for j, cell := range record.Cells() {
			name, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := out.SetCellValue(outSheet, name, cellValue(cell)); err != nil {
				return err
			}
		}
	}

	return SaveWorkbook(out, path)
}

// ole2Signature is the compound-file magic that opens every legacy BIFF .xls.
var ole2Signature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// ledgerHeaders reads the column schema from the template's first row. The
// taxpayer portal ships the ledger template as a legacy BIFF .xls, which
// excelize cannot open; that format is routed on the OLE2 signature to a BIFF
// reader. xlsx templates stay on the excelize path.
func ledgerHeaders(template []byte) ([]string, error) {
	if bytes.HasPrefix(template, ole2Signature) {
		return biffHeaders(template)
	}

	src, err := Open(template)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	sheet := src.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: ledger template has no sheets", domain.ErrTemplateSchema)
	}
	rows, err := src.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: ledger template has no header row", domain.ErrTemplateSchema)
	}
	return rows[0], nil
}

func biffHeaders(template []byte) ([]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(template))
	if err != nil {
		return nil, fmt.Errorf("open ledger template: %w", err)
	}
	sheet, err := wb.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("%w: ledger template has no sheets", domain.ErrTemplateSchema)
	}
	row, err := sheet.GetRow(0)
	if err != nil {
		return nil, fmt.Errorf("%w: ledger template has no header row", domain.ErrTemplateSchema)
	}

	var headers []string
	for _, cell := range row.GetCols() {
		headers = append(headers, cell.GetString())
	}
	return headers, nil
}

func requireSheet(f *excelize.File, sheet string) error {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if idx < 0 {
		return fmt.Errorf("%w: %q", domain.ErrTemplateSchema, sheet)
	}
	return nil
}

// cellValue converts domain values into types excelize serializes as the
// template expects; money lands as numbers, not strings.
func cellValue(v any) any {
	if d, ok := v.(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return v
}
