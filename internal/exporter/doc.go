// Package exporter renders dashboard views as tables and writes them out.
//
// This package contains three main components:
//
// Table: one aggregate as header and text cells. ViewTables converts a
// computed view into its tables in display order. Floats use two decimals
// and an undefined statistic becomes an empty cell.
//
// CSVWriter: writes a table as CSV, with an optional UTF-8 BOM for Excel
// compatibility.
//
// WorkbookWriter: writes any number of tables into one XLSX workbook, one
// sheet per aggregate.
//
// Example usage:
//
//	tables, err := exporter.ViewTables(view)
//	if err != nil {
//	    return err
//	}
//	err = exporter.NewWorkbookWriter(logger).WriteFile("out/dashboard.xlsx", tables)
package exporter
