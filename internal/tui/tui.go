// Package tui drives a layout session from the terminal.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lehigh-university-libraries/printlayout/internal/infopanel"
	"github.com/lehigh-university-libraries/printlayout/internal/models"
	"github.com/lehigh-university-libraries/printlayout/internal/session"
)

// ScaleStep is the relative change applied by one +/- key press
const ScaleStep = 0.1

var (
	colorCyan = lipgloss.Color("36")
	colorDim  = lipgloss.Color("240")
	colorRed  = lipgloss.Color("160")

	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleHelp   = lipgloss.NewStyle().Foreground(colorDim)
	styleBadge  = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("0")).Padding(0, 1)
	styleStatus = lipgloss.NewStyle().Foreground(colorRed)
)

// Model is the bubbletea model over one session
type Model struct {
	sess   *session.Session
	status string
}

// New creates a model for sess
func New(sess *session.Session) Model {
	return Model{sess: sess}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	m.status = ""
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.cycle()
	case "esc":
		m.sess.Deselect()
	case "up":
		m.nudge(0, -1)
	case "down":
		m.nudge(0, 1)
	case "left":
		m.nudge(-1, 0)
	case "right":
		m.nudge(1, 0)
	case "+", "=":
		m.resize(1 + ScaleStep)
	case "-":
		m.resize(1 - ScaleStep)
	case "delete", "backspace":
		if !m.sess.DeleteSelected() {
			m.status = "nothing selected"
		}
	case "h":
		m.toggleHover()
	}
	return m, nil
}

func (m *Model) selected() (models.PlacedImage, bool) {
	state := m.sess.State()
	if state.SelectedID == nil {
		return models.PlacedImage{}, false
	}
	for _, img := range state.Images {
		if img.ID == *state.SelectedID {
			return img, true
		}
	}
	return models.PlacedImage{}, false
}

// cycle selects the image after the current one, wrapping around
func (m *Model) cycle() {
	state := m.sess.State()
	if len(state.Images) == 0 {
		m.status = "no images placed"
		return
	}

	next := 0
	if state.SelectedID != nil {
		for i, img := range state.Images {
			if img.ID == *state.SelectedID {
				next = (i + 1) % len(state.Images)
				break
			}
		}
	}
	_ = m.sess.Select(state.Images[next].ID)
}

func (m *Model) nudge(dx, dy float64) {
	img, ok := m.selected()
	if !ok {
		m.status = "nothing selected"
		return
	}

	step := m.sess.State().Snap
	if step <= 0 {
		step = 1
	}
	if _, err := m.sess.Move(img.ID, img.Left+dx*step, img.Top+dy*step); err != nil {
		m.status = err.Error()
	}
}

func (m *Model) resize(factor float64) {
	img, ok := m.selected()
	if !ok {
		m.status = "nothing selected"
		return
	}
	if _, err := m.sess.Scale(img.ID, img.ScaleX*factor, img.ScaleY*factor); err != nil {
		m.status = err.Error()
	}
}

func (m *Model) toggleHover() {
	if m.sess.State().Badge.Visible {
		m.sess.HoverOut()
		return
	}
	img, ok := m.selected()
	if !ok {
		m.status = "nothing selected"
		return
	}
	if _, err := m.sess.Hover(img.ID); err != nil {
		m.status = err.Error()
	}
}

func (m Model) View() string {
	var b strings.Builder
	state := m.sess.State()

	b.WriteString(styleTitle.Render(fmt.Sprintf("Print Layout %dx%d", state.Width, state.Height)))
	b.WriteString("\n")
	b.WriteString(styleHelp.Render("tab select  ←↑↓→ move  +/- scale  h cost  del remove  esc deselect  q quit"))
	b.WriteString("\n\n")

	if img, ok := m.selected(); ok {
		b.WriteString(fmt.Sprintf("Selected: %s (%d) at %.0f, %.0f scale %.2f x %.2f",
			img.Name, img.ID, img.Left, img.Top, img.ScaleX, img.ScaleY))
		if state.Badge.Visible && state.Badge.ImageID == img.ID {
			b.WriteString("  ")
			b.WriteString(styleBadge.Render(state.Badge.Text))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(infopanel.Styled(m.sess.Report()))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(styleStatus.Render(m.status))
		b.WriteString("\n")
	}
	return b.String()
}
