package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
)

type stubSearchService struct {
	results   []domain.SearchResult
	err       error
	lastQuery domain.Query
}

func (s *stubSearchService) Search(_ context.Context, q domain.Query) ([]domain.SearchResult, error) {
	s.lastQuery = q
	return s.results, s.err
}

func newTestModel(search *stubSearchService) Model {
	return New(context.Background(), search)
}

// typeQuery feeds the runes of q into the model one key at a time.
func typeQuery(m Model, q string) Model {
	for _, r := range q {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	return m
}

func TestNew(t *testing.T) {
	m := newTestModel(&stubSearchService{})

	assert.False(t, m.ready)
	assert.Contains(t, m.status, "Ready")
}

func TestModel_Update_WindowSize(t *testing.T) {
	m := newTestModel(&stubSearchService{})

	updated, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.True(t, m.ready)
	assert.Equal(t, 80, m.viewport.Width)
	assert.Greater(t, m.viewport.Height, 0)
}

func TestModel_Update_TypingUpdatesInput(t *testing.T) {
	m := newTestModel(&stubSearchService{})

	m = typeQuery(m, "budget")

	assert.Equal(t, "budget", m.input.Value())
}

func TestModel_Update_EnterRunsSearch(t *testing.T) {
	score := 0.9
	search := &stubSearchService{results: []domain.SearchResult{
		{
			Document: domain.Document{
				FileName: "report.csv",
				FilePath: "/docs/report.csv",
				FileType: domain.FileTypeCSV,
			},
			Score:      &score,
			Highlights: []string{"budget line"},
		},
	}}
	m := newTestModel(search)
	m = typeQuery(m, "budget")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, "Searching...", m.status)

	msg := cmd()
	done, ok := msg.(searchDoneMsg)
	require.True(t, ok)
	assert.Equal(t, "budget", done.query)
	assert.Equal(t, "budget", search.lastQuery.Text)
	assert.True(t, search.lastQuery.Highlight)

	updated, _ = m.Update(done)
	m = updated.(Model)

	require.Len(t, m.results, 1)
	assert.Equal(t, 0, m.cursor)
	assert.Contains(t, m.status, "1 results")
}

func TestModel_Update_EnterWithEmptyQuery(t *testing.T) {
	m := newTestModel(&stubSearchService{})
	m = typeQuery(m, "   ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestModel_Update_SearchError(t *testing.T) {
	m := newTestModel(&stubSearchService{})
	m.results = []domain.SearchResult{{}}

	updated, _ := m.Update(searchDoneMsg{query: "x", err: errors.New("cluster down")})
	m = updated.(Model)

	assert.Empty(t, m.results)
	assert.Contains(t, m.status, "cluster down")
}

func TestModel_Update_CursorNavigation(t *testing.T) {
	m := newTestModel(&stubSearchService{})
	m.results = []domain.SearchResult{
		{Document: domain.Document{FileName: "a.csv"}},
		{Document: domain.Document{FileName: "b.csv"}},
		{Document: domain.Document{FileName: "c.csv"}},
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	assert.Equal(t, 1, m.cursor)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	assert.Equal(t, 2, m.cursor)

	// Wraps past the last result.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	assert.Equal(t, 0, m.cursor)

	// And back up.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(Model)
	assert.Equal(t, 2, m.cursor)
}

func TestModel_Update_Quit(t *testing.T) {
	m := newTestModel(&stubSearchService{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_View(t *testing.T) {
	m := newTestModel(&stubSearchService{})

	assert.Equal(t, "Loading...", m.View())

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	view := m.View()
	assert.Contains(t, view, "docdex search")
	assert.Contains(t, view, m.status)
}

func TestModel_RenderResults(t *testing.T) {
	score := 1.25
	m := newTestModel(&stubSearchService{})

	assert.Equal(t, "No results yet.", m.renderResults())

	m.results = []domain.SearchResult{
		{
			Document:   domain.Document{FileName: "a.pdf", FilePath: "/docs/a.pdf", FileType: domain.FileTypePDF},
			Score:      &score,
			Highlights: []string{"first match"},
		},
		{
			Document: domain.Document{FileName: "b.csv", FilePath: "/docs/b.csv", FileType: domain.FileTypeCSV},
		},
	}

	out := m.renderResults()
	assert.Contains(t, out, "> a.pdf")
	assert.Contains(t, out, "(1.25)")
	assert.Contains(t, out, "first match")
	assert.Contains(t, out, "  b.csv")
}
