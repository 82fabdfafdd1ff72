// Package writer renders record sets as xlsx workbooks.
package writer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mcncl/jsonsheet/internal/models"
)

// DefaultSheetName is the name of the only sheet when none is configured.
const DefaultSheetName = "Sheet1"

// Write renders a single-sheet workbook to w. headers become row 1 and each
// row of cells follows from row 2.
func Write(w io.Writer, sheet string, headers []string, rows [][]models.Cell) error {
	if sheet == "" {
		sheet = DefaultSheetName
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheet != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, sheet); err != nil {
			return fmt.Errorf("failed to name sheet %q: %w", sheet, err)
		}
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open sheet %q: %w", sheet, err)
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, row := range rows {
		values := make([]interface{}, len(row))
		for j, c := range row {
			values[j] = CellValue(c)
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(axis, values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet %q: %w", sheet, err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to encode workbook: %w", err)
	}
	return nil
}

// CellValue maps a projected cell onto the value excelize stores.
// Missing cells become the empty string, nulls an empty cell.
func CellValue(c models.Cell) interface{} {
	if c.Missing {
		return ""
	}
	v := c.Value
	switch v.Kind {
	case models.String:
		return v.Str
	case models.Bool:
		return v.Bool
	case models.Number:
		return numberValue(v.Str)
	default:
		return nil
	}
}

// numberValue keeps integers as int64 and everything else as float64.
// Literals that fit neither are written as text so no digits are lost.
func numberValue(literal string) interface{} {
	if !strings.ContainsAny(literal, ".eE") {
		if i, err := strconv.ParseInt(literal, 10, 64); err == nil {
			return i
		}
	}
	if f, err := strconv.ParseFloat(literal, 64); err == nil {
		if strings.ContainsAny(literal, ".eE") {
			return f
		}
	}
	return literal
}
