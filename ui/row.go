package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"panelfiles/protocols"
)

var (
	rowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238"))
	iconStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	flashStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	relativeLimit = 48 * time.Hour
)

func entryIcon(e protocols.FileEntry) string {
	switch {
	case e.IsDir:
		return "▸"
	case e.IsSymlink:
		return "↪"
	default:
		return "·"
	}
}

// formatSize is only shown for files.
func formatSize(e protocols.FileEntry) string {
	if !e.IsFile() {
		return ""
	}
	return humanize.IBytes(uint64(e.Size))
}

// formatModified shows times more than two days away as a date and closer
// ones relative to now.
func formatModified(t, now time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = -d
	}
	if d > relativeLimit {
		return t.Format("Jan ") + humanize.Ordinal(t.Day()) + t.Format(", 2006 3:04PM")
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func renderRow(e protocols.FileEntry, selected, atCursor bool, now time.Time, width int) string {
	check := "[ ]"
	if selected {
		check = "[x]"
	}
	nameWidth := width - 44
	if nameWidth < 16 {
		nameWidth = 16
	}
	name := e.Name
	if len([]rune(name)) > nameWidth {
		name = string([]rune(name)[:nameWidth-1]) + "…"
	}
	line := fmt.Sprintf("%s %s %-*s %10s  %-24s",
		check, iconStyle.Render(entryIcon(e)), nameWidth, name, formatSize(e), formatModified(e.ModTime, now))
	if atCursor {
		return cursorStyle.Render(line)
	}
	return rowStyle.Render(line)
}
