// Package ui is the terminal file browser: a listing of one directory with
// per-row selection, and the rename/move dialog driven by core.Coordinator.
package ui

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"panelfiles/core"
	"panelfiles/logging"
	"panelfiles/protocols"
	"panelfiles/resolver"
)

const loadTimeout = 30 * time.Second

// RefreshedMsg tells the model the listing was reloaded outside the UI.
type RefreshedMsg struct{}

type loadedMsg struct {
	dir string
	err error
}

type settledMsg struct {
	result    core.Result
	dismissed bool
}

type Options struct {
	RootLabel string
	// OnNavigate runs after the current directory changes.
	OnNavigate func(dir string)
	// Now is the clock used for relative times.
	Now func() time.Time
}

type Model struct {
	listing   *core.Listing
	selection *core.Selection
	coord     *core.Coordinator
	flashes   *Flashes
	opts      Options

	cursor int
	modal  *renameModal
	width  int
	height int
}

func New(listing *core.Listing, selection *core.Selection, coord *core.Coordinator, flashes *Flashes, opts Options) *Model {
	if opts.RootLabel == "" {
		opts.RootLabel = resolver.DefaultRootLabel
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Model{
		listing:   listing,
		selection: selection,
		coord:     coord,
		flashes:   flashes,
		opts:      opts,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle("panelfiles"), m.load())
}

func (m *Model) load() tea.Cmd {
	listing := m.listing
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return loadedMsg{dir: listing.Directory(), err: listing.Reload(ctx)}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case loadedMsg:
		if msg.err != nil && msg.dir == m.listing.Directory() {
			m.flashes.AddError(core.FlashKey, msg.err)
		}
		m.clampCursor()
		return m, nil

	case RefreshedMsg:
		m.clampCursor()
		return m, nil

	case settledMsg:
		if msg.dismissed {
			m.modal = nil
		} else if m.modal != nil {
			m.modal.submitting = false
			m.modal.input.Focus()
		}
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		if m.modal == nil || !m.modal.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.modal.spinner, cmd = m.modal.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.modal != nil {
			return m.updateModal(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.listing.Entries()
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(entries)-1 {
			m.cursor++
		}
	case " ", "space":
		if e, ok := m.current(entries); ok {
			m.selection.Toggle(e.Name, !m.selection.Has(e.Name))
		}
	case "enter", "l", "right":
		if e, ok := m.current(entries); ok && e.IsDir {
			return m, m.navigate(resolver.Child(m.listing.Directory(), e.Name))
		}
	case "backspace", "h", "left":
		dir := m.listing.Directory()
		if dir != "/" {
			return m, m.navigate(resolver.CleanDirectory(resolver.Join(dir, "..")))
		}
	case "r", "m":
		files := m.selection.Names()
		if len(files) == 0 {
			if e, ok := m.current(entries); ok {
				files = []string{e.Name}
			}
		}
		if len(files) > 0 {
			m.modal = newRenameModal(files, msg.String() == "m")
		}
	case "ctrl+r":
		return m, m.load()
	}
	return m, nil
}

func (m *Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.modal.dismissable() {
			m.modal = nil
		}
		return m, nil
	case "enter":
		if m.modal.submitting {
			return m, nil
		}
		return m, m.submit()
	}

	if m.modal.submitting {
		return m, nil
	}
	var cmd tea.Cmd
	m.modal.input, cmd = m.modal.input.Update(msg)
	m.modal.invalid = ""
	return m, cmd
}

// submit applies the optimistic patch right away and settles the request in
// a command.
func (m *Model) submit() tea.Cmd {
	name := m.modal.input.Value()
	if strings.TrimSpace(name) == "" {
		m.modal.invalid = "A file name is required."
		return nil
	}

	var dismissed atomic.Bool
	sub, err := m.coord.Begin(core.Request{
		Directory: m.listing.Directory(),
		Selected:  m.modal.files,
		Target:    name,
		MoveMode:  m.modal.move,
		Dismiss:   func() { dismissed.Store(true) },
	})
	if errors.Is(err, core.ErrSubmitting) {
		return nil
	}
	if err != nil {
		m.flashes.AddError(core.FlashKey, err)
		return nil
	}

	m.modal.submitting = true
	m.modal.input.Blur()
	m.clampCursor()

	settle := func() tea.Msg {
		res := sub.Settle(context.Background())
		return settledMsg{result: res, dismissed: dismissed.Load()}
	}
	return tea.Batch(settle, m.modal.spinner.Tick)
}

func (m *Model) navigate(dir string) tea.Cmd {
	logging.Debug("navigate", logging.String("directory", dir))
	m.listing.SetDirectory(dir)
	m.selection.Clear()
	m.cursor = 0
	if m.opts.OnNavigate != nil {
		m.opts.OnNavigate(dir)
	}
	return m.load()
}

func (m *Model) current(entries []protocols.FileEntry) (protocols.FileEntry, bool) {
	if m.cursor < 0 || m.cursor >= len(entries) {
		return protocols.FileEntry{}, false
	}
	return entries[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.listing.Entries())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) View() string {
	dir := m.listing.Directory()
	now := m.opts.Now()

	var b strings.Builder
	b.WriteString(headerStyle.Render(resolver.DisplayPath(m.opts.RootLabel, dir, "")))
	b.WriteString("\n")
	for _, msg := range m.flashes.Messages(core.FlashKey) {
		b.WriteString(flashStyle.Render(msg))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	entries := m.listing.Entries()
	if len(entries) == 0 {
		b.WriteString(dimStyle.Render("This directory is empty."))
		b.WriteString("\n")
	}
	for i, e := range entries {
		b.WriteString(renderRow(e, m.selection.Has(e.Name), i == m.cursor, now, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("space: select  enter: open  backspace: up  r: rename  m: move  ctrl+r: refresh  q: quit"))

	if m.modal != nil {
		modal := m.modal.view(m.opts.RootLabel, dir)
		if m.width > 0 {
			modal = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, modal)
		}
		b.WriteString("\n\n")
		b.WriteString(modal)
	}
	return b.String()
}
