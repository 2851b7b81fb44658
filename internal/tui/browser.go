package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/quadlab/internal/convergence"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

// Browser pages through the passes of a run, one rule at a time.
type Browser struct {
	title  string
	passes []*convergence.Pass
	pass   int
	row    int

	width  int
	height int
}

func NewBrowser(title string, passes []*convergence.Pass) Browser {
	return Browser{title: title, passes: passes, width: 100, height: 24}
}

func (b Browser) Pass() int { return b.pass }

func (b Browser) Row() int { return b.row }

func (b Browser) Init() tea.Cmd { return nil }

func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
	}
	return b, nil
}

func (b Browser) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return b, tea.Quit
	case "right", "l", "tab":
		if len(b.passes) > 0 {
			b.pass = (b.pass + 1) % len(b.passes)
			b.row = 0
		}
	case "left", "h", "shift+tab":
		if len(b.passes) > 0 {
			b.pass = (b.pass - 1 + len(b.passes)) % len(b.passes)
			b.row = 0
		}
	case "down", "j":
		if len(b.passes) > 0 && b.row < len(b.passes[b.pass].Rows)-1 {
			b.row++
		}
	case "up", "k":
		if b.row > 0 {
			b.row--
		}
	}
	return b, nil
}

func (b Browser) View() string {
	var sb strings.Builder
	sb.WriteString(cyan.Bold(true).Render(b.title))
	sb.WriteString("\n")
	sb.WriteString(dim.Render(strings.Repeat("─", min(b.width, 72))))
	sb.WriteString("\n")

	if len(b.passes) == 0 {
		sb.WriteString(dim.Render("no passes"))
		sb.WriteString("\n")
		return sb.String()
	}

	tabs := make([]string, len(b.passes))
	for i, p := range b.passes {
		if i == b.pass {
			tabs[i] = magenta.Bold(true).Render("[" + p.Rule + "]")
		} else {
			tabs[i] = dim.Render(" " + p.Rule + " ")
		}
	}
	sb.WriteString(strings.Join(tabs, " "))
	sb.WriteString("\n\n")

	sb.WriteString(white.Bold(true).Render(fmt.Sprintf("%6s %14s %14s %14s %10s", "n", "diff1", "h2+temp", "diff2-temp", "log2(K)")))
	sb.WriteString("\n")
	p := b.passes[b.pass]
	for i, r := range p.Rows {
		line := fmt.Sprintf("%6d %14.6e %14.10f %14.6e %10.4f", r.N, r.Diff1, r.Extrapolated, r.Residual, r.Order)
		switch {
		case i == b.row:
			sb.WriteString(green.Render("> " + line))
		case !r.Finite():
			sb.WriteString(yellow.Render("  " + line))
		default:
			sb.WriteString(dim.Render("  " + line))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(dim.Render("←/→ rule  ↑/↓ row  q quit"))
	sb.WriteString("\n")
	return sb.String()
}

// Run starts the browser on the alternate screen.
func Run(title string, passes []*convergence.Pass) error {
	_, err := tea.NewProgram(NewBrowser(title, passes), tea.WithAltScreen()).Run()
	return err
}
