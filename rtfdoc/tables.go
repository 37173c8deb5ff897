package rtfdoc

import (
	"strings"

	"github.com/tsawler/rtftext/model"
)

// tableBuilder collects cells between \cell and \row breaks. RTF has no
// table container: a table is a run of consecutive rows.
type tableBuilder struct {
	table *model.Table
	row   []string
	open  bool // a \cell was seen since the last \row
}

// cell ends a cell with the text of runs.
func (tb *tableBuilder) cell(runs []model.Run, span model.Span) {
	tb.row = append(tb.row, cellText(runs))
	tb.open = true
	tb.extend(span)
}

// endRow ends the current row. Text after the last \cell of the row
// becomes one more cell.
func (tb *tableBuilder) endRow(runs []model.Run, span model.Span) {
	if strings.TrimSpace(runText(runs)) != "" {
		tb.row = append(tb.row, cellText(runs))
	}
	tb.extend(span)
	if len(tb.row) > 0 {
		tb.table.AppendRow(tb.row...)
	}
	tb.row = nil
	tb.open = false
}

func (tb *tableBuilder) extend(span model.Span) {
	if tb.table == nil {
		tb.table = &model.Table{}
	}
	tb.table.Span = tb.table.Span.Union(span)
}

// finish returns the collected table, if it has rows, and resets the
// builder. A row left open is kept.
func (tb *tableBuilder) finish() *model.Table {
	if tb.open {
		tb.endRow(nil, model.Span{})
	}
	t := tb.table
	tb.table = nil
	if t == nil || t.RowCount() == 0 {
		return nil
	}
	return t
}

func cellText(runs []model.Run) string {
	return strings.TrimSpace(runText(runs))
}

func runText(runs []model.Run) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}
