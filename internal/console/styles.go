package console

import "github.com/charmbracelet/lipgloss"

// Styles contains the lipgloss styles of the status lines
type Styles struct {
	Detected lipgloss.Style
	Finished lipgloss.Style
	Failed   lipgloss.Style
	Warning  lipgloss.Style
	Muted    lipgloss.Style
	Heading  lipgloss.Style
}

// DefaultStyles returns the styles bound to renderer, which decides whether
// the output supports colors at all.
func DefaultStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Detected: r.NewStyle().Foreground(lipgloss.Color("42")),
		Finished: r.NewStyle().Foreground(lipgloss.Color("39")),
		Failed:   r.NewStyle().Foreground(lipgloss.Color("196")),
		Warning:  r.NewStyle().Foreground(lipgloss.Color("214")),
		Muted:    r.NewStyle().Foreground(lipgloss.Color("245")),
		Heading:  r.NewStyle().Bold(true),
	}
}
