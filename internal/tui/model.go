package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrlokans/bookshelf/internal/bookform"
	"github.com/mrlokans/bookshelf/internal/view"
)

type focus int

const (
	focusList focus = iota
	focusForm
)

// Form inputs, in tab order.
const (
	fieldTitle = iota
	fieldAuthor
	fieldPublishedDate
	fieldISBN
	fieldPages
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldTitle:         "Title",
	fieldAuthor:        "Author",
	fieldPublishedDate: "Published date",
	fieldISBN:          "ISBN",
	fieldPages:         "Pages",
}

var fieldPlaceholders = [fieldCount]string{
	fieldTitle:         "Book title",
	fieldAuthor:        "Author name",
	fieldPublishedDate: "YYYY-MM-DD",
	fieldISBN:          "978...",
	fieldPages:         "0",
}

type operation string

const (
	opLoad    operation = "load"
	opList    operation = "list"
	opEdit    operation = "edit"
	opSubmit  operation = "submit"
	opDelete  operation = "delete"
	opRefresh operation = "refresh"
)

// resetsForm reports whether a successful op leaves the controller form
// different from what the inputs hold.
func (op operation) resetsForm() bool {
	return op == opEdit || op == opSubmit || op == opDelete
}

// opDoneMsg carries the controller state after an operation finished.
type opDoneMsg struct {
	op    operation
	ok    bool
	state bookform.State
}

// Model is the bubbletea model for the book list and form.
type Model struct {
	ctx  context.Context
	ctrl *bookform.Controller

	confirmations <-chan confirmRequest
	alerts        <-chan string

	keys   KeyMap
	styles styles

	state   bookform.State
	cursor  int
	focus   focus
	inputs  [fieldCount]textinput.Model
	field   int
	formKey string

	pendingConfirm *confirmRequest
	alert          string
	busy           int

	width  int
	height int
}

// NewModel builds the UI over backend. The confirmer and alerter of opts
// are replaced by ones that prompt inside the UI.
func NewModel(ctx context.Context, backend bookform.Backend, opts bookform.Options) Model {
	confirmer := newPromptConfirmer()
	alerter := newChannelAlerter()
	opts.Confirmer = confirmer
	opts.Alerter = alerter
	return newModel(ctx, bookform.NewController(backend, opts), confirmer.requests, alerter.alerts)
}

func newModel(ctx context.Context, ctrl *bookform.Controller, confirmations <-chan confirmRequest, alerts <-chan string) Model {
	m := Model{
		ctx:           ctx,
		ctrl:          ctrl,
		confirmations: confirmations,
		alerts:        alerts,
		keys:          DefaultKeyMap,
		styles:        newStyles(DefaultTheme),
		state:         ctrl.Snapshot(),
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = fieldPlaceholders[i]
		ti.CharLimit = 256
		ti.Width = 40
		m.inputs[i] = ti
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.run(opLoad, m.ctrl.Load)}
	if m.confirmations != nil {
		cmds = append(cmds, waitForConfirm(m.confirmations))
	}
	if m.alerts != nil {
		cmds = append(cmds, waitForAlert(m.alerts))
	}
	return tea.Batch(cmds...)
}

// run executes fn off the UI loop and reports the resulting state.
func (m *Model) run(op operation, fn func(context.Context) bool) tea.Cmd {
	m.busy++
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		ok := fn(ctx)
		return opDoneMsg{op: op, ok: ok, state: ctrl.Snapshot()}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case opDoneMsg:
		if m.busy > 0 {
			m.busy--
		}
		m.state = msg.state
		m.clampCursor()
		if msg.ok && msg.op.resetsForm() {
			m.loadForm(msg.state.Form)
			if msg.op == opEdit {
				cmd := m.focusForm()
				return m, cmd
			}
			m.focusList()
		}
		return m, nil

	case confirmRequestMsg:
		request := msg.request
		m.pendingConfirm = &request
		return m, nil

	case alertMsg:
		m.alert = msg.message
		return m, waitForAlert(m.alerts)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == focusForm {
		cmd := m.updateInput(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		m.declinePending()
		return m, tea.Quit
	}

	if m.alert != "" {
		m.alert = ""
		return m, nil
	}

	if m.pendingConfirm != nil {
		switch {
		case key.Matches(msg, m.keys.Yes):
			return m.answer(true)
		case key.Matches(msg, m.keys.No):
			return m.answer(false)
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.FocusToggle) {
		if m.focus == focusList {
			cmd := m.focusForm()
			return m, cmd
		}
		m.focusList()
		return m, nil
	}

	if m.focus == focusForm {
		return m.handleFormKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.state.Books)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		selected := m.selectedKey()
		cmd := m.run(opEdit, func(ctx context.Context) bool {
			return m.ctrl.Edit(ctx, selected)
		})
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		selected := m.selectedKey()
		cmd := m.run(opDelete, func(ctx context.Context) bool {
			return m.ctrl.Delete(ctx, selected)
		})
		return m, cmd

	case key.Matches(msg, m.keys.NextPage):
		return m.gotoPage(m.page() + 1)

	case key.Matches(msg, m.keys.PrevPage):
		return m.gotoPage(m.page() - 1)

	case key.Matches(msg, m.keys.Refresh):
		cmd := m.run(opRefresh, m.ctrl.Refresh)
		return m, cmd

	case key.Matches(msg, m.keys.New):
		m.ctrl.Cancel()
		m.loadForm(bookform.FormState{})
		cmd := m.focusForm()
		return m, cmd
	}

	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		if n, err := strconv.Atoi(string(msg.Runes)); err == nil && n > 0 {
			return m.gotoPage(n)
		}
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.syncForm()
		cmd := m.run(opSubmit, m.ctrl.Submit)
		return m, cmd

	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.Cancel()
		m.loadForm(bookform.FormState{})
		m.focusList()
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		cmd := m.focusField((m.field + 1) % fieldCount)
		return m, cmd

	case key.Matches(msg, m.keys.PrevField):
		cmd := m.focusField((m.field + fieldCount - 1) % fieldCount)
		return m, cmd
	}
	cmd := m.updateInput(msg)
	m.syncForm()
	return m, cmd
}

func (m *Model) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.inputs[m.field], cmd = m.inputs[m.field].Update(msg)
	return cmd
}

func (m Model) answer(yes bool) (tea.Model, tea.Cmd) {
	m.pendingConfirm.reply <- yes
	m.pendingConfirm = nil
	return m, waitForConfirm(m.confirmations)
}

func (m *Model) declinePending() {
	if m.pendingConfirm != nil {
		m.pendingConfirm.reply <- false
		m.pendingConfirm = nil
	}
}

func (m Model) gotoPage(page int) (tea.Model, tea.Cmd) {
	if !m.ctrl.Paginated() || page < 1 || page > m.state.TotalPages {
		return m, nil
	}
	m.cursor = 0
	cmd := m.run(opList, func(ctx context.Context) bool {
		return m.ctrl.ListPage(ctx, page)
	})
	return m, cmd
}

// page is the page the backend last reported, falling back to the
// requested one.
func (m Model) page() int {
	if m.state.CurrentPage > 0 {
		return m.state.CurrentPage
	}
	return m.state.SelectedPage
}

func (m Model) selectedKey() string {
	if m.cursor < 0 || m.cursor >= len(m.state.Books) {
		return ""
	}
	return m.state.Books[m.cursor].Key(m.ctrl.KeyField())
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.state.Books) {
		m.cursor = len(m.state.Books) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) focusForm() tea.Cmd {
	m.focus = focusForm
	return m.focusField(m.field)
}

func (m *Model) focusList() {
	m.focus = focusList
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *Model) focusField(field int) tea.Cmd {
	m.field = field
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == field {
			cmd = m.inputs[i].Focus()
			continue
		}
		m.inputs[i].Blur()
	}
	return cmd
}

func (m *Model) loadForm(form bookform.FormState) {
	m.formKey = form.Key
	m.inputs[fieldTitle].SetValue(form.Title)
	m.inputs[fieldAuthor].SetValue(form.Author)
	m.inputs[fieldPublishedDate].SetValue(form.PublishedDate)
	m.inputs[fieldISBN].SetValue(form.ISBN)
	m.inputs[fieldPages].SetValue(form.Pages)
	for i := range m.inputs {
		m.inputs[i].CursorEnd()
	}
}

// syncForm pushes the input values to the controller.
func (m *Model) syncForm() {
	m.ctrl.SetForm(m.form())
}

func (m Model) form() bookform.FormState {
	return bookform.FormState{
		Key:           m.formKey,
		Title:         m.inputs[fieldTitle].Value(),
		Author:        m.inputs[fieldAuthor].Value(),
		PublishedDate: m.inputs[fieldPublishedDate].Value(),
		ISBN:          m.inputs[fieldISBN].Value(),
		Pages:         m.inputs[fieldPages].Value(),
	}
}

func (m Model) View() string {
	if m.alert != "" {
		return m.viewAlert()
	}

	list := m.viewList()
	form := m.viewForm()
	if m.focus == focusForm {
		form = m.styles.focusPane.Render(form)
		list = m.styles.pane.Render(list)
	} else {
		list = m.styles.focusPane.Render(list)
		form = m.styles.pane.Render(form)
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, " ", form))
	b.WriteString("\n")

	if m.state.Error.Visible {
		b.WriteString(m.styles.errorLine.Render("Error: " + m.state.Error.Message))
		b.WriteString("\n")
	}
	if m.pendingConfirm != nil {
		b.WriteString(m.styles.header.Render(m.pendingConfirm.prompt + " (y/n)"))
		b.WriteString("\n")
	}
	b.WriteString(m.viewHelp())
	return b.String()
}

func (m Model) viewList() string {
	var b strings.Builder
	b.WriteString(m.styles.header.Render("Books"))
	if m.busy > 0 {
		b.WriteString(m.styles.faint.Render("  loading..."))
	}
	b.WriteString("\n\n")

	rows := view.Rows(m.state.Books, m.ctrl.KeyField())
	if len(rows) == 0 {
		if m.state.Loaded {
			b.WriteString(m.styles.faint.Render("No books found"))
		} else {
			b.WriteString(m.styles.faint.Render("Loading books..."))
		}
		b.WriteString("\n")
	}
	for i, row := range rows {
		line := row.Text()
		if i == m.cursor && m.focus == focusList {
			b.WriteString(m.styles.selected.Render("> " + line))
		} else {
			b.WriteString(m.styles.row.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if buttons := view.Pagination(m.state.TotalPages, m.state.CurrentPage); len(buttons) > 0 {
		b.WriteString("\n")
		parts := make([]string, 0, len(buttons))
		for _, button := range buttons {
			label := strconv.Itoa(button.Page)
			if button.Active {
				parts = append(parts, m.styles.activePage.Render(label))
			} else {
				parts = append(parts, m.styles.page.Render(label))
			}
		}
		b.WriteString("Pages: " + strings.Join(parts, " "))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewForm() string {
	form := m.form()

	var b strings.Builder
	b.WriteString(m.styles.header.Render(form.Label()))
	b.WriteString("\n\n")
	identifier := m.styles.faint.Render("(new)")
	if form.Editing() {
		identifier = form.Key
	}
	b.WriteString(m.styles.label.Render("Identifier"))
	b.WriteString(identifier)
	b.WriteString("\n")
	for i := range m.inputs {
		b.WriteString(m.styles.label.Render(fieldLabels[i]))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	actions := "[enter] Save"
	if form.CancelVisible() {
		actions += "   [esc] Cancel"
	}
	b.WriteString(m.styles.faint.Render(actions))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewAlert() string {
	box := m.styles.modal.Render(m.styles.errorLine.Render(m.alert) + "\n\n" + m.styles.help.Render("press any key"))
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

func (m Model) viewHelp() string {
	var bindings []key.Binding
	if m.focus == focusForm {
		bindings = []key.Binding{m.keys.Submit, m.keys.Cancel, m.keys.NextField, m.keys.FocusToggle, m.keys.ForceQuit}
	} else {
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Edit, m.keys.Delete, m.keys.New, m.keys.NextPage, m.keys.PrevPage, m.keys.Refresh, m.keys.FocusToggle, m.keys.Quit}
	}
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" {
			continue
		}
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return m.styles.help.Render(strings.Join(parts, " • "))
}
