// Package tui implements the interactive search interface.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
	"github.com/docdex-labs/docdex-cli/internal/core/ports/driving"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	metaStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	snippetStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// searchDoneMsg carries the outcome of an asynchronous search.
type searchDoneMsg struct {
	query   string
	results []domain.SearchResult
	err     error
}

// Model is the Bubble Tea model for the search interface.
type Model struct {
	ctx      context.Context
	search   driving.SearchService
	input    textinput.Model
	viewport viewport.Model
	results  []domain.SearchResult
	status   string
	cursor   int
	ready    bool
}

// New creates the search interface model.
func New(ctx context.Context, search driving.SearchService) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a query and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		ctx:      ctx,
		search:   search,
		input:    ti,
		viewport: vp,
		status:   "Ready. Type to search, Esc to quit.",
	}
}

// Init starts the text input cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header, status, query frame, spacer
		vh := msg.Height - reserved - rh
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = msg.Width
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderResults())
		return m, nil

	case searchDoneMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("Error: " + msg.err.Error())
			m.results = nil
		} else {
			m.status = statusStyle.Render(fmt.Sprintf("%d results for %q", len(msg.results), msg.query))
			m.results = msg.results
			m.cursor = 0
		}
		m.viewport.SetContent(m.renderResults())
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if q := strings.TrimSpace(m.input.Value()); q != "" {
				m.status = "Searching..."
				return m, m.runSearch(q)
			}
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderResults())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderResults())
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the interface layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("docdex search")
	results := resultBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	return header + "\n" + results + "\n" + input + "\n" + m.status
}

// runSearch issues the query off the update loop.
func (m Model) runSearch(q string) tea.Cmd {
	ctx := m.ctx
	search := m.search
	return func() tea.Msg {
		results, err := search.Search(ctx, domain.Query{
			Text:      q,
			Highlight: true,
			Limit:     10,
		})
		return searchDoneMsg{query: q, results: results, err: err}
	}
}

func (m Model) renderResults() string {
	if len(m.results) == 0 {
		return "No results yet."
	}

	var b strings.Builder
	for i := range m.results {
		doc := m.results[i].Document

		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		line := fmt.Sprintf("%s%s", marker, doc.FileName)
		if m.results[i].Score != nil {
			line += fmt.Sprintf("  (%.2f)", *m.results[i].Score)
		}
		if i == m.cursor {
			line = headerStyle.Render(line)
		}
		b.WriteString(line + "\n")
		b.WriteString(metaStyle.Render(fmt.Sprintf("  %s · %s", doc.FilePath, doc.FileType)) + "\n")

		if i == m.cursor {
			for _, h := range m.results[i].Highlights {
				b.WriteString(snippetStyle.Render("  ..."+h+"...") + "\n")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
