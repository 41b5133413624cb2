package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/dbccheck/pkg/report"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	detailKeyStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(14)
	detailBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	selectedRowBold = lipgloss.NewStyle().Bold(true)
)

// =============================================================================
// InspectModel - Interactive violation browser
// =============================================================================

// InspectModel is the bubbletea model for browsing a precheck report.
type InspectModel struct {
	Title      string
	Violations []report.Violation
	Summary    string
	Cursor     int
	Height     int
	Offset     int
	ShowDetail bool
}

// NewInspectModel creates a model over the violations of rep.
func NewInspectModel(title string, rep *report.Report) InspectModel {
	return InspectModel{
		Title:      title,
		Violations: rep.Errors,
		Summary:    rep.Summary,
		Height:     10,
		ShowDetail: true,
	}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Violations)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n := len(m.Violations); n > 0 {
				m.Cursor = n - 1
				m.Offset = max(0, n-m.Height)
			}
		case "enter", " ":
			m.ShowDetail = !m.ShowDetail
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 16
		if m.Height < 3 {
			m.Height = 3
		}
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("  ")
	b.WriteString(StyleError.Render(m.Summary))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ toggle detail  q quit"))
	b.WriteString("\n\n")

	if len(m.Violations) == 0 {
		b.WriteString(StyleSuccess.Render("no violations"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Violations))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		v := m.Violations[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		zone := v.Zone
		if zone == "" {
			zone = "-"
		}
		rows = append(rows, []string{cursor, fmt.Sprintf("%d", i+1), string(v.Type), v.Subject(), zone})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Type", "Chip", "Zone").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			base := lipgloss.NewStyle()
			if col == 2 {
				base = base.Foreground(colorRed)
			}
			if idx == m.Cursor {
				return base.Inherit(selectedRowBold)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Violations))))
	b.WriteString("\n")

	if m.ShowDetail {
		b.WriteString(detailBoxStyle.Render(detailView(m.Violations[m.Cursor])))
		b.WriteString("\n")
	}
	return b.String()
}

// detailView renders the metrics of one violation as key/value lines.
func detailView(v report.Violation) string {
	var lines []string
	add := func(k, val string) {
		lines = append(lines, detailKeyStyle.Render(k)+" "+StyleValue.Render(val))
	}

	add("detail", v.Detail)
	switch m := v.Metrics.(type) {
	case *report.OutOfZoneMetrics:
		add("outside area", fmt.Sprintf("%.6g", m.OutsideArea))
		add("outside ratio", fmt.Sprintf("%.2f%%", m.OutsideRatio*100))
		add("chip bbox", fmtBox(m.ChipBBox))
		add("zone bbox", fmtBox(m.ZoneBBox))
	case *report.OverlapMetrics:
		add("overlap area", fmt.Sprintf("%.6g", m.OverlapArea))
		add("overlap ratio", fmt.Sprintf("%.2f%%", m.OverlapRatioMin*100))
		add("chip i bbox", fmtBox(m.ChipIBBox))
		add("chip j bbox", fmtBox(m.ChipJBBox))
		add("overlap bbox", fmtBox(m.OverlapBBox))
	}
	if v.SuggestMove != nil {
		add("suggest move", fmt.Sprintf("(%.4g, %.4g)", v.SuggestMove[0], v.SuggestMove[1]))
	}
	return strings.Join(lines, "\n")
}

func fmtBox(b report.BBox) string {
	return fmt.Sprintf("[%.4g, %.4g, %.4g, %.4g]", b[0], b[1], b[2], b[3])
}
