package importer

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Workbook is the read-only view of a spreadsheet the importer needs.
type Workbook interface {
	SheetNames() []string
	// Rows returns the sheet as trimmed text cells. A missing sheet yields
	// ErrSheetNotFound.
	Rows(sheet string) ([][]string, error)
	Close() error
}

var ErrSheetNotFound = errors.New("sheet not found")

// Open picks the reader from the file extension: .xls goes through the
// legacy BIFF reader, everything else through excelize.
func Open(path string) (Workbook, error) {
	if strings.EqualFold(filepath.Ext(path), ".xls") {
		wb, err := xls.Open(path, "utf-8")
		if err != nil {
			return nil, fmt.Errorf("open xls %s: %w", path, err)
		}
		return &xlsWorkbook{wb: wb}, nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx %s: %w", path, err)
	}
	return &xlsxWorkbook{f: f}, nil
}

// OpenXLSX reads an xlsx workbook from r.
func OpenXLSX(r io.Reader) (Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	return &xlsxWorkbook{f: f}, nil
}

// OpenXLS reads a legacy xls workbook from r.
func OpenXLS(r io.ReadSeeker) (Workbook, error) {
	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	return &xlsWorkbook{wb: wb}, nil
}

type xlsxWorkbook struct {
	f *excelize.File
}

func (w *xlsxWorkbook) SheetNames() []string {
	return w.f.GetSheetList()
}

func (w *xlsxWorkbook) Rows(sheet string) ([][]string, error) {
	if idx, err := w.f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	rows, err := w.f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return trimRows(rows), nil
}

func (w *xlsxWorkbook) Close() error {
	return w.f.Close()
}

type xlsWorkbook struct {
	wb *xls.WorkBook
}

func (w *xlsWorkbook) SheetNames() []string {
	names := make([]string, 0, w.wb.NumSheets())
	for i := 0; i < w.wb.NumSheets(); i++ {
		if s := w.wb.GetSheet(i); s != nil {
			names = append(names, s.Name)
		}
	}
	return names
}

func (w *xlsWorkbook) Rows(sheet string) ([][]string, error) {
	for i := 0; i < w.wb.NumSheets(); i++ {
		s := w.wb.GetSheet(i)
		if s == nil || s.Name != sheet {
			continue
		}
		rows := make([][]string, 0, int(s.MaxRow)+1)
		for r := 0; r <= int(s.MaxRow); r++ {
			row := s.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for c := 0; c < row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			rows = append(rows, cells)
		}
		return trimRows(rows), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
}

func (w *xlsWorkbook) Close() error {
	return nil
}

func trimRows(rows [][]string) [][]string {
	for _, row := range rows {
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
	}
	return rows
}
