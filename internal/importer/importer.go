// Package importer reads word lists out of spreadsheets.
package importer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abhisek/vocabz/internal/vocab"
	"github.com/xuri/excelize/v2"
)

// Config selects what part of a workbook is read.
type Config struct {
	Sheet  string // empty means the first sheet
	Column int    // zero-based; the first column by default
}

// Result describes one import.
type Result struct {
	Sheet   string
	Rows    int
	Words   []string
	Skipped int
}

// ReadFile imports words from the .xlsx file at path.
func ReadFile(path string, cfg Config) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return Read(f, cfg)
}

// Read imports words from an .xlsx stream. A header cell reading "word"
// in the first row is skipped. Blank cells and case-insensitive duplicates
// are counted in Skipped.
func Read(r io.Reader, cfg Config) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := cfg.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	res := &Result{Sheet: sheet}
	for i, row := range rows {
		cell := ""
		if cfg.Column < len(row) {
			cell = strings.TrimSpace(row[cfg.Column])
		}
		if i == 0 && strings.EqualFold(cell, "word") {
			continue
		}
		res.Rows++
		if cell == "" || vocab.ContainsWord(res.Words, cell) {
			res.Skipped++
			continue
		}
		res.Words = append(res.Words, cell)
	}
	return res, nil
}
