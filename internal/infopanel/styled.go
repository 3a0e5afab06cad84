package infopanel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorWhite = lipgloss.Color("255")
	colorDim   = lipgloss.Color("240")

	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
	styleTotal  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleEmpty  = lipgloss.NewStyle().Foreground(colorDim)
)

// Styled renders report as a terminal table
func Styled(report Report) string {
	var b strings.Builder

	if len(report.Entries) == 0 {
		b.WriteString(styleEmpty.Render("No images placed"))
		b.WriteString("\n")
	} else {
		rows := make([][]string, 0, len(report.Entries))
		for _, m := range report.Entries {
			area, cost := "-", "-"
			if m.Priced {
				area = fmt.Sprintf("%.2f", m.AreaM2)
				cost = fmt.Sprintf("€%.2f", m.Cost)
			}
			rows = append(rows, []string{
				fmt.Sprintf("%d", m.ID),
				m.Name,
				fmt.Sprintf("%.2f", m.WidthCm),
				fmt.Sprintf("%.2f", m.HeightCm),
				area,
				fmt.Sprintf("%.2f", m.AspectRatio),
				cost,
				fmt.Sprintf("%.0f, %.0f", m.Left, m.Top),
			})
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
			Headers("ID", "Name", "W cm", "H cm", "Area m2", "Ratio", "Cost", "Pos").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return styleHeader
				}
				return styleCell
			})
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	b.WriteString(styleTotal.Render(report.Summary))
	return b.String()
}
