package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"panelfiles/resolver"
)

var (
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
	modalTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	buttonStyle     = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("235")).
			Background(lipgloss.Color("62")).
			Bold(true)
)

const moveDescription = "Enter the new name and directory of this file or folder, relative to the current directory."

// renameModal is the rename/move dialog for a fixed set of names.
type renameModal struct {
	files      []string
	move       bool
	input      textinput.Model
	spinner    spinner.Model
	submitting bool
	invalid    string
}

func newRenameModal(files []string, move bool) *renameModal {
	in := textinput.New()
	in.Prompt = "› "
	in.CharLimit = 255
	in.Width = 48
	if len(files) == 1 {
		in.SetValue(files[0])
	}
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &renameModal{
		files:   append([]string(nil), files...),
		move:    move,
		input:   in,
		spinner: sp,
	}
}

func (m *renameModal) action() string {
	if m.move {
		return "Move"
	}
	return "Rename"
}

// dismissable reports whether esc may close the dialog.
func (m *renameModal) dismissable() bool {
	return !m.submitting
}

func (m *renameModal) view(rootLabel, directory string) string {
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render(m.action()))
	b.WriteString("\n\nFile Name\n")
	b.WriteString(m.input.View())
	if m.move {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(moveDescription))
	}
	if m.invalid != "" {
		b.WriteString("\n")
		b.WriteString(flashStyle.Render(m.invalid))
	}
	if m.move {
		b.WriteString("\n\n")
		b.WriteString(headerStyle.Render("New location:"))
		b.WriteString(" ")
		b.WriteString(dimStyle.Render(resolver.DisplayPath(rootLabel, directory, m.input.Value())))
	}
	b.WriteString("\n\n")
	if m.submitting {
		b.WriteString(m.spinner.View() + " working...")
	} else {
		b.WriteString(buttonStyle.Render(m.action()) + dimStyle.Render("  enter   esc: cancel"))
	}
	return modalStyle.Render(b.String())
}
