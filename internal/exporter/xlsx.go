package exporter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// maxSheetName is the longest sheet name Excel accepts
const maxSheetName = 31

// defaultSheet is the sheet excelize creates with every new file
const defaultSheet = "Sheet1"

// ErrDuplicateSheet is returned when two tables map to the same sheet name
var ErrDuplicateSheet = errors.New("duplicate sheet name")

// WorkbookWriter writes tables into a single XLSX workbook, one sheet per table
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a new workbook writer
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: logger.With(slog.String("component", "workbook_writer"))}
}

// Write renders the tables as a workbook to w
func (b *WorkbookWriter) Write(w io.Writer, tables []Table) error {
	f, err := b.build(tables)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteFile renders the tables as a workbook at filePath
func (b *WorkbookWriter) WriteFile(filePath string, tables []Table) error {
	b.logger.Info("Writing workbook",
		slog.String("file_path", filePath),
		slog.Int("sheet_count", len(tables)))

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := b.build(tables)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (b *WorkbookWriter) build(tables []Table) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	seen := make(map[string]bool, len(tables))
	for i, t := range tables {
		name := sheetName(t.Name)
		if seen[name] {
			f.Close()
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSheet, name)
		}
		seen[name] = true

		if i == 0 {
			err = f.SetSheetName(defaultSheet, name)
		} else {
			_, err = f.NewSheet(name)
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}

		if err := writeSheet(f, name, t, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", name, err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, t Table, headerStyle int) error {
	row := 1
	if len(t.Headers) > 0 {
		if err := setRow(f, sheet, row, t.Headers); err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(len(t.Headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return err
		}
		row++
	}

	for _, cells := range t.Rows {
		if err := setRow(f, sheet, row, cells); err != nil {
			return err
		}
		row++
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// sheetName truncates to the Excel limit
func sheetName(name string) string {
	if len(name) > maxSheetName {
		return name[:maxSheetName]
	}
	return name
}
