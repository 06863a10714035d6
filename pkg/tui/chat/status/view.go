package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/killallgit/scrollback/pkg/scroll"
	"github.com/killallgit/scrollback/pkg/tui/theme"
)

func (m StatusModel) View() string {
	if m.width == 0 {
		return ""
	}

	var components []string

	if m.conversation != "" {
		components = append(components, lipgloss.NewStyle().Foreground(theme.ColorBase07).Bold(true).Render("#"+m.conversation))
	}

	components = append(components, lipgloss.NewStyle().Foreground(theme.ColorBase05).
		Render(fmt.Sprintf("%s %s", humanize.Comma(int64(m.total)), plural(m.total, "message"))))

	if m.mode == scroll.ModeLive {
		components = append(components, lipgloss.NewStyle().Foreground(theme.ColorGreen).Render("● live"))
	} else {
		label := "reviewing"
		if m.newBelow > 0 {
			label = fmt.Sprintf("%d new %s below", m.newBelow, plural(m.newBelow, "message"))
		}
		components = append(components, lipgloss.NewStyle().Foreground(theme.ColorOrange).Render(label))
	}

	if m.loading {
		components = append(components, m.spinner.View()+lipgloss.NewStyle().Foreground(theme.ColorYellow).Render("loading history"))
	}

	if m.err != nil {
		components = append(components, lipgloss.NewStyle().Foreground(theme.ColorError).Render("history: "+m.err.Error()))
	}

	separator := lipgloss.NewStyle().Foreground(theme.ColorBase03).Render(" | ")
	statusLine := strings.Join(components, separator)

	return lipgloss.NewStyle().
		Width(m.width).
		Background(theme.ColorBase01).
		Padding(0, 1).
		Render(statusLine)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
