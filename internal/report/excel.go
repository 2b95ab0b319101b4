// Package report renders stored papers into reviewer-facing formats.
package report

import (
	"bytes"
	"fmt"

	"github.com/rpatel9/examforge/internal/quiz"
	"github.com/xuri/excelize/v2"
)

var paperHeaders = []string{"id", "question", "option_1", "option_2", "option_3", "option_4", "answer"}

// PaperExcel renders a paper as a single-sheet workbook, one question
// per row with its four options and the answer key.
func PaperExcel(p *quiz.Paper) ([]byte, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range paperHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, q := range p.Questions {
		row := i + 2
		values := []any{q.ID, q.Question}
		for _, opt := range q.Options {
			values = append(values, opt)
		}
		// A malformed record is still exported; missing option cells
		// stay blank rather than shifting the answer column.
		for len(values) < len(paperHeaders)-1 {
			values = append(values, "")
		}
		values = values[:len(paperHeaders)-1]
		values = append(values, q.Answer)

		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	_ = f.SetColWidth(sheet, "A", "A", 6)
	_ = f.SetColWidth(sheet, "B", "B", 60)
	_ = f.SetColWidth(sheet, "C", "G", 28)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}
