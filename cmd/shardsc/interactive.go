package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/fragcolor-xyz/shardswgsl"
	"github.com/fragcolor-xyz/shardswgsl/wgsl"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#666666"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// listWidth is the width of the item list column.
const listWidth = 36

type browserModel struct {
	err      error
	filename string
	opts     shardswgsl.Options
	items    []browserItem
	selected int
	view     viewport.Model
	ready    bool
}

// browserItem is one entry of the list: an extracted function or the entry
// point body.
type browserItem struct {
	label  string
	source string
}

type compiledMsg struct {
	err   error
	items []browserItem
}

func newBrowserModel(filename string, opts shardswgsl.Options) *browserModel {
	return &browserModel{filename: filename, opts: opts}
}

func (m *browserModel) Init() tea.Cmd {
	return m.compile
}

func (m *browserModel) compile() tea.Msg {
	f, err := openInput(m.filename)
	if err != nil {
		return compiledMsg{err: err}
	}
	defer f.Close()

	program, err := shardswgsl.Decode(f)
	if err != nil {
		return compiledMsg{err: err}
	}
	result, err := shardswgsl.Translate(program, m.opts)
	if err != nil {
		return compiledMsg{err: err}
	}

	name := m.opts.EntryPoint
	if name == "" {
		name = program.EntryPoint
	}
	writerOpts := wgsl.WriterOptions{EntryPoint: name, Bindings: m.opts.Bindings}
	headers := wgsl.WriteHeaders(result, writerOpts)

	items := make([]browserItem, 0, len(result.Functions)+1)
	items = append(items, browserItem{
		label:  "fn " + name + "()",
		source: shardswgsl.Emit(result, name, m.opts),
	})
	for i, fn := range result.Functions {
		src := fn.Signature()
		if i < len(headers) {
			src = headers[i]
		}
		items = append(items, browserItem{label: fn.Signature(), source: src})
	}
	return compiledMsg{items: items}
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.showSelected()
			}
			return m, nil

		case "down", "j":
			if m.selected < len(m.items)-1 {
				m.selected++
				m.showSelected()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		width := msg.Width - listWidth - 4
		height := msg.Height - 5
		if width < 20 {
			width = 20
		}
		if height < 5 {
			height = 5
		}
		if !m.ready {
			m.view = viewport.New(width, height)
			m.ready = true
		} else {
			m.view.Width = width
			m.view.Height = height
		}
		m.showSelected()

	case compiledMsg:
		m.err = msg.err
		m.items = msg.items
		m.showSelected()
		return m, nil
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m *browserModel) showSelected() {
	if !m.ready || m.selected >= len(m.items) {
		return
	}
	m.view.SetContent(m.items[m.selected].source)
	m.view.GotoTop()
}

func (m *browserModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if len(m.items) == 0 || !m.ready {
		return "Compiling program..."
	}

	var list strings.Builder
	for i, item := range m.items {
		label := item.label
		if len(label) > listWidth-2 {
			label = label[:listWidth-5] + "..."
		}
		if i == m.selected {
			list.WriteString(selectedStyle.Render("> " + label))
		} else {
			list.WriteString("  " + funcStyle.Render(label))
		}
		list.WriteString("\n")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("shardsc"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(listWidth).Render(list.String()),
		paneStyle.Render(m.view.View()),
	))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • pgup/pgdn scroll • q quit"))
	return b.String()
}

func runInteractive(filename string, opts shardswgsl.Options) error {
	// zap's development logger writes to stderr, which would tear the
	// alternate screen.
	opts.Logger = nil
	wgsl.SetLogger(zap.NewNop())
	if !isTerminal(os.Stdout) {
		return fmt.Errorf("interactive mode needs a terminal")
	}
	p := tea.NewProgram(newBrowserModel(filename, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
