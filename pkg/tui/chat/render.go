package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/killallgit/scrollback/pkg/chat"
	"github.com/killallgit/scrollback/pkg/scroll"
	"github.com/mattn/go-runewidth"
)

// renderAnnotation lays out messages as bubbles: mine on the right, theirs
// on the left. Runs are separated by a blank line and closed by a meta line
// with the time and delivery state.
func (m *Model) renderAnnotation(ann *scroll.Annotation) string {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	if ann == nil || ann.Len() == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, m.styles.Timestamp.Render("no messages yet"))
	}

	var rendered []string
	for _, am := range ann.Messages {
		if am.IsFirstOfRun && am.Index > 0 {
			rendered = append(rendered, "")
		}

		align := lipgloss.Left
		if am.FromMe {
			align = lipgloss.Right
		}

		bubble := m.styles.Bubble(am.FromMe).Width(bubbleWidth(messageText(am.Message), width))
		rendered = append(rendered, lipgloss.PlaceHorizontal(width, align, bubble.Render(messageText(am.Message))))

		if am.IsLastOfRun {
			rendered = append(rendered, lipgloss.PlaceHorizontal(width, align, m.metaLine(am.Message)))
		}
	}

	return strings.Join(rendered, "\n")
}

// bubbleWidth fits short messages snugly and wraps long ones at two thirds
// of the viewport
func bubbleWidth(text string, width int) int {
	limit := max(10, width*2/3)

	natural := 0
	for _, line := range strings.Split(text, "\n") {
		natural = max(natural, runewidth.StringWidth(line))
	}
	return min(natural+2, limit) // padding
}

func messageText(msg chat.Message) string {
	if msg.Media != "" && msg.Media != chat.MediaText {
		label := "[" + string(msg.Media) + "]"
		if msg.Content != "" {
			return label + " " + msg.Content
		}
		return label
	}
	return msg.Content
}

func (m *Model) metaLine(msg chat.Message) string {
	var when string
	if !msg.CreatedAt.IsZero() {
		when = humanize.RelTime(msg.CreatedAt, m.now(), "ago", "from now")
	}
	meta := m.styles.Timestamp.Render(when)
	if !msg.FromMe {
		return meta
	}

	switch msg.Status {
	case chat.StatusRead:
		return meta + " " + m.styles.Read.Render("✓✓")
	case chat.StatusDelivered:
		return meta + " " + m.styles.Timestamp.Render("✓✓")
	case chat.StatusSent:
		return meta + " " + m.styles.Timestamp.Render("✓")
	case chat.StatusFailed:
		return meta + " " + m.styles.Failed.Render("! not sent")
	default:
		return meta + " " + m.styles.Timestamp.Render("…")
	}
}

// setContent renders the annotation into the viewport. When older history
// was prepended the offset moves by the added height, so the rows on screen
// stay put.
func (m *Model) setContent(ann *scroll.Annotation) {
	prev := m.annotation
	before := m.viewport.TotalLineCount()
	offset := m.viewport.YOffset

	m.annotation = ann
	m.viewport.SetContent(m.renderAnnotation(ann))

	if prepended(prev, ann) {
		m.viewport.SetYOffset(offset + m.viewport.TotalLineCount() - before)
	}
}

// prepended reports whether next extends prev at the top with the same
// newest message
func prepended(prev, next *scroll.Annotation) bool {
	if prev == nil || next == nil || prev.Len() == 0 || next.Len() <= prev.Len() {
		return false
	}
	return prev.Messages[0].ID != next.Messages[0].ID &&
		prev.Messages[prev.Len()-1].ID == next.Messages[next.Len()-1].ID
}
