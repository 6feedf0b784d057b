package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/guptarohit/asciigraph"
)

// Table renders rows under a bold header row.
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(BorderColor)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle
			}
			return CellStyle
		})
	return t.String()
}

func Title(s string) string {
	return TitleStyle.Render(s)
}

// KeyValues renders a sorted "label: value" block.
func KeyValues(values map[string]float64) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %s %s\n", LabelStyle.Render(k+":"), ValueStyle.Render(fmt.Sprintf("%.6g", values[k])))
	}
	return sb.String()
}

// Verdict marks ok values green and the rest red.
func Verdict(s string, ok bool) string {
	if ok {
		return GoodStyle.Render(s)
	}
	return BadStyle.Render(s)
}

// Plot draws a series as an ASCII line chart. Series longer than width are
// decimated to fit.
func Plot(caption string, series []float64, width, height int) string {
	if len(series) == 0 {
		return caption + ": no data"
	}
	return asciigraph.Plot(Decimate(series, width),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// Decimate keeps at most n evenly spaced samples, always including the last.
func Decimate(series []float64, n int) []float64 {
	if n <= 1 || len(series) <= n {
		return series
	}
	out := make([]float64, n)
	step := float64(len(series)-1) / float64(n-1)
	for i := range out {
		out[i] = series[int(float64(i)*step+0.5)]
	}
	return out
}
