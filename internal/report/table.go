package report

import (
	"bufio"
	"strings"

	"github.com/IvanShishkin/csr/pkg/models"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

var tableHeaders = []string{"Path", "Size", "Modified"}

// generateTable renders a bordered table with Path, Size and Modified columns
func (g *Generator) generateTable(results []*models.ResultRecord) error {
	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{
			r.Path,
			FormatSize(r.Size),
			r.Modified.Format(tableTimeLayout),
		}
	}

	widths := make([]int, len(tableHeaders))
	for i, h := range tableHeaders {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	header := color.New(color.Bold, color.FgMagenta)
	w := bufio.NewWriter(g.out)

	border := func(left, mid, right string) {
		w.WriteString(left)
		for i, width := range widths {
			w.WriteString(strings.Repeat("─", width+2))
			if i < len(widths)-1 {
				w.WriteString(mid)
			}
		}
		w.WriteString(right + "\n")
	}

	line := func(cells []string, style *color.Color) {
		w.WriteString("│")
		for i, cell := range cells {
			padded := runewidth.FillRight(cell, widths[i])
			if style != nil {
				padded = style.Sprint(padded)
			}
			w.WriteString(" " + padded + " │")
		}
		w.WriteString("\n")
	}

	border("┏", "┳", "┓")
	line(tableHeaders, header)
	border("┡", "╇", "┩")
	for _, row := range rows {
		line(row, nil)
	}
	border("└", "┴", "┘")

	return w.Flush()
}
