package tui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	brandStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	nameStyle     = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	tagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	likedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	savedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	unreadStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	liveBadge     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#E53935")).Padding(0, 1)
	selfBubble    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#5B8DEF")).Padding(0, 1)
	peerBubble    = lipgloss.NewStyle().Foreground(lipgloss.Color("#DDDDDD")).Background(lipgloss.Color("#333333")).Padding(0, 1)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444444")).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("#5B8DEF")).Padding(0, 1)
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.HiddenBorder()).Padding(0, 1)
)

var tagPattern = regexp.MustCompile(`[#@]\w+`)

// highlightCaption colours #tags and @mentions.
func highlightCaption(caption string) string {
	return tagPattern.ReplaceAllStringFunc(caption, func(tag string) string {
		return tagStyle.Render(tag)
	})
}

var printer = message.NewPrinter(language.English)

// formatCount groups digits: 1342 -> "1,342".
func formatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// progressBar draws a width-wide bar filled to progress (0..1).
func progressBar(progress float64, width int) string {
	if width <= 0 {
		return ""
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	filled := int(progress * float64(width))
	return strings.Repeat("━", filled) + mutedStyle.Render(strings.Repeat("─", width-filled))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
