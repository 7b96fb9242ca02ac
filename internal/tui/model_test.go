package tui

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/bookform"
	"github.com/mrlokans/bookshelf/internal/booksapi"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/testbackend"
)

var sampleBooks = []entities.BookInput{
	{Title: "Dune", Author: "Frank Herbert", PublishedDate: "1965-08-01", ISBN: "9780441172719", Pages: "412"},
	{Title: "Neuromancer", Author: "William Gibson", PublishedDate: "1984-07-01", ISBN: "9780441569595", Pages: "271"},
	{Title: "Solaris", Author: "Stanislaw Lem", PublishedDate: "1961-01-01", ISBN: "9780156027601", Pages: "204"},
}

func setupModel(t *testing.T, opts bookform.Options, seed ...entities.BookInput) (Model, *testbackend.Server) {
	t.Helper()
	server, err := testbackend.New(testbackend.Options{
		DBPath:    filepath.Join(t.TempDir(), "books.db"),
		Paginated: true,
		KeyField:  entities.KeyFieldISBN,
	})
	require.NoError(t, err)
	t.Cleanup(server.Close)
	require.NoError(t, server.Seed(seed...))

	client, err := booksapi.NewClient(booksapi.Options{BaseURL: server.URL, HTTPClient: server.Client()})
	require.NoError(t, err)

	opts.KeyField = entities.KeyFieldISBN
	opts.Paginated = true
	return NewModel(context.Background(), client, opts), server
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

// finish runs a controller operation command and feeds its result back.
func finish(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	_, ok := msg.(opDoneMsg)
	require.True(t, ok, "expected an operation result, got %T", msg)
	m, _ = update(t, m, msg)
	return m
}

func load(t *testing.T, m Model) Model {
	t.Helper()
	cmd := m.run(opLoad, m.ctrl.Load)
	return finish(t, m, cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeFields(t *testing.T, m Model, values ...string) Model {
	t.Helper()
	for _, value := range values {
		m, _ = update(t, m, runes(value))
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	return m
}

func TestModel_LoadShowsFirstPage(t *testing.T) {
	m, _ := setupModel(t, bookform.Options{PerPage: 2}, sampleBooks...)
	m = load(t, m)

	assert.Equal(t, 1, m.state.CurrentPage)
	assert.Equal(t, 2, m.state.TotalPages)

	out := m.View()
	assert.Contains(t, out, "Dune by Frank Herbert")
	assert.Contains(t, out, "Neuromancer by William Gibson")
	assert.NotContains(t, out, "Solaris")
	assert.Contains(t, out, "Pages:")
	assert.Contains(t, out, "Add Book")
}

func TestModel_EmptyList(t *testing.T) {
	m, _ := setupModel(t, bookform.Options{})
	m = load(t, m)

	assert.Contains(t, m.View(), "No books found")
}

func TestModel_PageNavigation(t *testing.T) {
	m, server := setupModel(t, bookform.Options{PerPage: 2}, sampleBooks...)
	m = load(t, m)
	server.ResetRequests()

	m, cmd := update(t, m, runes("n"))
	m = finish(t, m, cmd)
	assert.Equal(t, 2, m.state.CurrentPage)
	assert.Contains(t, m.View(), "Solaris by Stanislaw Lem")

	_, cmd = update(t, m, runes("n"))
	assert.Nil(t, cmd, "no page after the last one")

	m, cmd = update(t, m, runes("1"))
	m = finish(t, m, cmd)
	assert.Equal(t, 1, m.state.CurrentPage)

	_, cmd = update(t, m, runes("9"))
	assert.Nil(t, cmd)

	require.Len(t, server.Requests(), 2)
	assert.Equal(t, "GET /books?page=2&per_page=2", server.Requests()[0].String())
	assert.Equal(t, "GET /books?page=1&per_page=2", server.Requests()[1].String())
}

func TestModel_CursorStaysInRange(t *testing.T) {
	m, _ := setupModel(t, bookform.Options{PerPage: 5}, sampleBooks...)
	m = load(t, m)

	for i := 0; i < 5; i++ {
		m, _ = update(t, m, runes("j"))
	}
	assert.Equal(t, 2, m.cursor)
	assert.Equal(t, "9780156027601", m.selectedKey())

	for i := 0; i < 5; i++ {
		m, _ = update(t, m, runes("k"))
	}
	assert.Equal(t, 0, m.cursor)
}

func TestModel_AddBook(t *testing.T) {
	m, server := setupModel(t, bookform.Options{PerPage: 5}, sampleBooks[:1]...)
	m = load(t, m)

	m, _ = update(t, m, runes("a"))
	require.Equal(t, focusForm, m.focus)

	m = typeFields(t, m, "Hyperion", "Dan Simmons", "1989-05-26", "9780553283686", "482")
	assert.Equal(t, "Hyperion", m.ctrl.Snapshot().Form.Title)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = finish(t, m, cmd)

	assert.Equal(t, int64(2), server.Count())
	assert.Equal(t, focusList, m.focus)
	assert.Empty(t, m.inputs[fieldTitle].Value())
	assert.Contains(t, m.View(), "Hyperion by Dan Simmons")
}

func TestModel_AddBookFailureKeepsInputs(t *testing.T) {
	m, server := setupModel(t, bookform.Options{PerPage: 5})
	m = load(t, m)
	server.FailNext(http.MethodPost, http.StatusBadRequest, gin.H{"error": "Invalid request", "message": "ISBN already exists"})

	m, _ = update(t, m, runes("a"))
	m = typeFields(t, m, "Hyperion", "Dan Simmons", "1989-05-26", "9780553283686", "482")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = finish(t, m, cmd)

	assert.Equal(t, int64(0), server.Count())
	assert.Equal(t, "Hyperion", m.inputs[fieldTitle].Value())
	assert.Contains(t, m.View(), "Error: ISBN already exists")
}

func TestModel_EditBook(t *testing.T) {
	m, _ := setupModel(t, bookform.Options{PerPage: 5}, sampleBooks...)
	m = load(t, m)

	m, _ = update(t, m, runes("j"))
	m, cmd := update(t, m, runes("e"))
	m = finish(t, m, cmd)

	require.Equal(t, focusForm, m.focus)
	assert.Equal(t, "Neuromancer", m.inputs[fieldTitle].Value())
	assert.Equal(t, "9780441569595", m.formKey)
	out := m.View()
	assert.Contains(t, out, "Edit Book")
	assert.Contains(t, out, "Cancel")

	m, _ = update(t, m, runes(" Revised"))
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = finish(t, m, cmd)

	assert.Equal(t, "Neuromancer Revised", m.state.Books[1].Title)
	assert.Contains(t, m.View(), "Add Book")
}

func TestModel_CancelEdit(t *testing.T) {
	m, _ := setupModel(t, bookform.Options{PerPage: 5}, sampleBooks...)
	m = load(t, m)

	m, cmd := update(t, m, runes("e"))
	m = finish(t, m, cmd)
	require.True(t, m.form().Editing())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, focusList, m.focus)
	assert.False(t, m.form().Editing())
	assert.Empty(t, m.inputs[fieldTitle].Value())
	assert.Equal(t, bookform.FormState{}, m.ctrl.Snapshot().Form)
}

func TestModel_DeleteConfirmed(t *testing.T) {
	m, server := setupModel(t, bookform.Options{PerPage: 5, ConfirmDelete: true}, sampleBooks...)
	m = load(t, m)

	m, cmd := update(t, m, runes("d"))
	require.NotNil(t, cmd)
	results := make(chan tea.Msg, 1)
	go func() { results <- cmd() }()

	m, _ = update(t, m, waitForConfirm(m.confirmations)())
	assert.Contains(t, m.View(), bookform.DeletePrompt)

	m, _ = update(t, m, runes("y"))
	assert.Nil(t, m.pendingConfirm)

	select {
	case msg := <-results:
		m, _ = update(t, m, msg)
	case <-time.After(5 * time.Second):
		t.Fatal("delete did not finish")
	}

	assert.Equal(t, int64(2), server.Count())
	assert.NotContains(t, m.View(), "Dune by Frank Herbert")
}

func TestModel_DeleteDeclined(t *testing.T) {
	m, server := setupModel(t, bookform.Options{PerPage: 5, ConfirmDelete: true}, sampleBooks...)
	m = load(t, m)
	server.ResetRequests()

	m, cmd := update(t, m, runes("d"))
	results := make(chan tea.Msg, 1)
	go func() { results <- cmd() }()

	m, _ = update(t, m, waitForConfirm(m.confirmations)())
	m, _ = update(t, m, runes("n"))

	select {
	case msg := <-results:
		m, _ = update(t, m, msg)
	case <-time.After(5 * time.Second):
		t.Fatal("delete did not finish")
	}

	assert.Equal(t, int64(3), server.Count())
	assert.Empty(t, server.Requests())
	assert.Contains(t, m.View(), "Dune by Frank Herbert")
}

func TestModel_AlertMode(t *testing.T) {
	m, server := setupModel(t, bookform.Options{PerPage: 5, ErrorMode: bookform.ErrorModeAlert}, sampleBooks...)
	m = load(t, m)
	server.FailNext(http.MethodGet, http.StatusInternalServerError, gin.H{"error": "Internal error"})

	m, cmd := update(t, m, runes("r"))
	m = finish(t, m, cmd)

	m, _ = update(t, m, waitForAlert(m.alerts)())
	out := m.View()
	assert.Contains(t, out, "Failed to load books")
	assert.NotContains(t, out, "Dune by Frank Herbert")

	m, cmd = update(t, m, runes("q"))
	assert.Nil(t, cmd, "the first key only dismisses the alert")
	assert.Contains(t, m.View(), "Dune by Frank Herbert")
}

func TestModel_FocusToggle(t *testing.T) {
	m, _ := setupModel(t, bookform.Options{})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusForm, m.focus)
	assert.True(t, m.inputs[fieldTitle].Focused())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusList, m.focus)
	assert.False(t, m.inputs[fieldTitle].Focused())
}

func TestModel_Quit(t *testing.T) {
	m, _ := setupModel(t, bookform.Options{})

	_, cmd := update(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, runes("q"))
	assert.Equal(t, "q", m.inputs[fieldTitle].Value(), "q types into the form")

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
