package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ghostdevv/npm-alt/pkg/integrations/npm"
	"github.com/ghostdevv/npm-alt/pkg/search"
)

const searchPageSize = 15

// searchModel is the bubbletea model for interactive registry search.
//
// Every keystroke starts a new query and cancels the previous in-flight
// one; a stale response is additionally dropped by sequence number, so
// results never regress to an older query.
type searchModel struct {
	ctx      context.Context
	searches *search.Service

	input  string
	cursor int
	choice string

	seq     int
	cancel  context.CancelFunc
	loading bool
	err     error

	total int
	items []npm.SearchObject
}

type searchResultMsg struct {
	seq    int
	result *search.Result
	err    error
}

func newSearchModel(ctx context.Context, searches *search.Service) searchModel {
	return searchModel{ctx: ctx, searches: searches}
}

func (m searchModel) Init() tea.Cmd {
	return nil
}

func (m searchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.stop()
			return m, tea.Quit

		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
			return m, nil

		case "enter":
			if m.cursor < len(m.items) {
				m.choice = m.items[m.cursor].Package.Name
			}
			m.stop()
			return m, tea.Quit

		case "backspace":
			if m.input != "" {
				m.input = m.input[:len(m.input)-1]
				return m.requery()
			}
			return m, nil

		default:
			if msg.Type == tea.KeyRunes {
				m.input += string(msg.Runes)
				return m.requery()
			}
			return m, nil
		}

	case searchResultMsg:
		// Responses from superseded queries are dropped.
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.result != nil {
			m.total = msg.result.Total
			m.items = msg.result.Items
			if m.cursor >= len(m.items) {
				m.cursor = 0
			}
		}
		return m, nil
	}

	return m, nil
}

// requery cancels the in-flight query and starts one for the current input.
func (m searchModel) requery() (searchModel, tea.Cmd) {
	m.stop()
	m.seq++
	m.cursor = 0

	if m.input == "" {
		m.loading = false
		m.total = 0
		m.items = nil
		return m, nil
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.loading = true

	seq, query := m.seq, m.input
	return m, func() tea.Msg {
		result, err := m.searches.Search(ctx, query, 0, searchPageSize)
		return searchResultMsg{seq: seq, result: result, err: err}
	}
}

func (m *searchModel) stop() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m searchModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Search npm"))
	b.WriteString("\n")
	b.WriteString(styleDim.Render("type to search  ↑/↓ navigate  ⏎ select  esc quit"))
	b.WriteString("\n\n")

	b.WriteString(styleLabel.Render("> "))
	b.WriteString(styleValue.Render(m.input))
	b.WriteString("█\n\n")

	switch {
	case m.err != nil:
		b.WriteString(styleNotice.Render("search failed: " + m.err.Error()))
		b.WriteString("\n")
	case m.loading:
		b.WriteString(styleDim.Render("searching..."))
		b.WriteString("\n")
	case m.input != "":
		b.WriteString(styleDim.Render(fmt.Sprintf("%d results", m.total)))
		b.WriteString("\n")
	}

	for i, obj := range m.items {
		cursor := "  "
		style := styleValue
		if i == m.cursor {
			cursor = "▸ "
			style = styleTitle
		}
		line := fmt.Sprintf("%s%s %s",
			cursor,
			style.Render(fmt.Sprintf("%-36s", obj.Package.Name+"@"+obj.Package.Version)),
			styleDim.Render(truncate(obj.Package.Description, 50)),
		)
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
