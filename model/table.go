package model

import (
	"encoding/csv"
	"io"
	"strings"
)

// Table is a run of RTF rows. Each row carries its own cell count, so rows
// may differ in length.
type Table struct {
	Rows [][]Cell
	Span Span
}

// Cell is one \cell of a row. Paragraph breaks inside the cell are kept as
// newlines.
type Cell struct {
	Text string
}

func (t *Table) Type() ElementType { return ElementTypeTable }
func (t *Table) SourceSpan() Span  { return t.Span }

// GetText joins cells with tabs and rows with newlines.
func (t *Table) GetText() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row {
			if j > 0 {
				sb.WriteByte('\t')
			}
			sb.WriteString(cell.Text)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// AppendRow adds a row with one cell per text.
func (t *Table) AppendRow(texts ...string) {
	row := make([]Cell, len(texts))
	for i, text := range texts {
		row[i].Text = text
	}
	t.Rows = append(t.Rows, row)
}

func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the cell count of the widest row.
func (t *Table) ColCount() int {
	cols := 0
	for _, row := range t.Rows {
		cols = max(cols, len(row))
	}
	return cols
}

// At returns the cell at row, col or nil when the row has no such cell.
func (t *Table) At(row, col int) *Cell {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return nil
	}
	return &t.Rows[row][col]
}

// ToMarkdown renders a pipe table with the first row as header. Short rows
// are padded with empty cells.
func (t *Table) ToMarkdown() string {
	if len(t.Rows) == 0 {
		return ""
	}
	cols := t.ColCount()

	var sb strings.Builder
	writeRow := func(row []Cell) {
		for j := 0; j < cols; j++ {
			sb.WriteString("| ")
			if j < len(row) {
				sb.WriteString(markdownCell(row[j].Text))
			}
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}
	writeRow(t.Rows[0])
	sb.WriteString(strings.Repeat("|---", cols))
	sb.WriteString("|\n")
	for _, row := range t.Rows[1:] {
		writeRow(row)
	}
	return sb.String()
}

func markdownCell(text string) string {
	text = strings.ReplaceAll(text, "|", "\\|")
	return strings.ReplaceAll(strings.TrimSpace(text), "\n", " ")
}

// WriteCSV writes one record per row. Short rows are padded so that every
// record has ColCount fields.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	cols := t.ColCount()
	record := make([]string, cols)
	for _, row := range t.Rows {
		for j := range record {
			record[j] = ""
			if j < len(row) {
				record[j] = row[j].Text
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToCSV is WriteCSV into a string.
func (t *Table) ToCSV() string {
	var sb strings.Builder
	_ = t.WriteCSV(&sb)
	return sb.String()
}
