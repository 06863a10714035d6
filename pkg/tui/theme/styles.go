package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Base16 color palette with orange, brown, yellow, and pink tones
// Based on Autumn theme with warm earth tones
var (
	// Base colors (backgrounds and text)
	ColorBase00 = lipgloss.Color("#1a1816") // Dark background
	ColorBase01 = lipgloss.Color("#282420") // Lighter background
	ColorBase02 = lipgloss.Color("#36302a") // Selection background
	ColorBase03 = lipgloss.Color("#5c5044") // Comments, invisibles
	ColorBase05 = lipgloss.Color("#ab937b") // Default foreground
	ColorBase07 = lipgloss.Color("#f5d7b9") // Lightest foreground

	ColorRed    = lipgloss.Color("#d95f5f")
	ColorOrange = lipgloss.Color("#eb8755")
	ColorYellow = lipgloss.Color("#f5b761")
	ColorGreen  = lipgloss.Color("#93b56b")
	ColorBlue   = lipgloss.Color("#6b93b5")

	ColorBorder = ColorBase03
	ColorFocus  = ColorOrange
	ColorMuted  = ColorBase03
	ColorError  = ColorRed
)

// Styles defines the Lipgloss styles of the message viewer
type Styles struct {
	Header lipgloss.Style
	Footer lipgloss.Style

	// Bubbles
	MyBubble    lipgloss.Style
	TheirBubble lipgloss.Style

	// Meta line under the last message of a run
	Timestamp lipgloss.Style
	Read      lipgloss.Style
	Failed    lipgloss.Style

	JumpToBottom lipgloss.Style
	Loading      lipgloss.Style
	Error        lipgloss.Style
}

// DefaultStyles returns the default Lipgloss styles
func DefaultStyles() *Styles {
	bubble := lipgloss.NewStyle().Padding(0, 1)

	return &Styles{
		Header: lipgloss.NewStyle().
			Background(ColorBase01).
			Foreground(ColorBase07).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Background(ColorBase00).
			Foreground(ColorMuted).
			Padding(0, 1),

		MyBubble: bubble.
			Background(ColorBlue).
			Foreground(ColorBase00),

		TheirBubble: bubble.
			Background(ColorBase02).
			Foreground(ColorBase07),

		Timestamp: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true),

		Read: lipgloss.NewStyle().
			Foreground(ColorGreen),

		Failed: lipgloss.NewStyle().
			Foreground(ColorError),

		JumpToBottom: lipgloss.NewStyle().
			Background(ColorFocus).
			Foreground(ColorBase00).
			Bold(true).
			Padding(0, 1),

		Loading: lipgloss.NewStyle().
			Foreground(ColorYellow).
			Italic(true),

		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),
	}
}

// Bubble returns the bubble style for the given sender
func (s *Styles) Bubble(fromMe bool) lipgloss.Style {
	if fromMe {
		return s.MyBubble
	}
	return s.TheirBubble
}
