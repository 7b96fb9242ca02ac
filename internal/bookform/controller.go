package bookform

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/mrlokans/bookshelf/internal/booksapi"
	"github.com/mrlokans/bookshelf/internal/entities"
)

const (
	DefaultPerPage = 5

	DeletePrompt = "Are you sure you want to delete this book?"

	alertListFailed   = "Failed to load books"
	alertGetFailed    = "Failed to load book"
	alertCreateFailed = "Failed to add book"
	alertUpdateFailed = "Failed to update book"
	alertDeleteFailed = "Failed to delete book"

	messageNetwork    = "Could not reach the server"
	messageMalformed  = "Unexpected response from server"
	messageMissingKey = "No book selected"
)

// Backend is the remote collection the controller keeps the view in sync with.
type Backend interface {
	List(ctx context.Context, page, perPage int) (*entities.ListPage, error)
	ListAll(ctx context.Context) ([]entities.Book, error)
	Get(ctx context.Context, key string) (*entities.Book, error)
	Create(ctx context.Context, input entities.BookInput) (*entities.Book, error)
	Update(ctx context.Context, key string, input entities.BookInput) (*entities.Book, error)
	Delete(ctx context.Context, key string) error
}

// Options configures a Controller.
type Options struct {
	KeyField  entities.KeyField
	PerPage   int
	Paginated bool
	// ConfirmDelete asks Confirmer before every delete. A nil Confirmer
	// with ConfirmDelete set declines every delete.
	ConfirmDelete bool
	ErrorMode     ErrorMode
	Confirmer     Confirmer
	Alerter       Alerter
	Logger        *slog.Logger
}

// Controller keeps a single create/edit form and a paginated list view
// consistent with the backend. The backend is the only source of truth:
// after every successful mutation the selected page is fetched again.
//
// Methods are safe to call from multiple goroutines. State is never locked
// across network I/O, so overlapping requests are possible; list responses
// older than the newest issued list request are dropped.
type Controller struct {
	backend   Backend
	keyField  entities.KeyField
	perPage   int
	paginated bool
	confirm   bool
	errorMode ErrorMode
	confirmer Confirmer
	alerter   Alerter
	logger    *slog.Logger

	mu      sync.Mutex
	state   State
	listGen uint64
}

// NewController creates a controller over backend. Zero-valued options
// fall back to isbn keys, five books per page and the error surface.
func NewController(backend Backend, opts Options) *Controller {
	keyField := opts.KeyField
	if !keyField.Valid() {
		keyField = entities.KeyFieldISBN
	}
	perPage := opts.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	errorMode := opts.ErrorMode
	if !errorMode.Valid() {
		errorMode = ErrorModeSurface
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Controller{
		backend:   backend,
		keyField:  keyField,
		perPage:   perPage,
		paginated: opts.Paginated,
		confirm:   opts.ConfirmDelete,
		errorMode: errorMode,
		confirmer: opts.Confirmer,
		alerter:   opts.Alerter,
		logger:    logger,
		state:     State{SelectedPage: 1},
	}
}

// KeyField is the record key used for edit, update and delete.
func (c *Controller) KeyField() entities.KeyField {
	return c.keyField
}

// Paginated reports whether the backend is asked for pages.
func (c *Controller) Paginated() bool {
	return c.paginated
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// SetForm replaces the form contents with what the user typed.
func (c *Controller) SetForm(form FormState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Form = form
}

// Cancel resets the form to create mode regardless of its prior state.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Form = FormState{}
}

// Load fetches the first page.
func (c *Controller) Load(ctx context.Context) bool {
	return c.ListPage(ctx, 1)
}

// Refresh fetches the currently selected page again.
func (c *Controller) Refresh(ctx context.Context) bool {
	c.mu.Lock()
	page := c.state.SelectedPage
	c.mu.Unlock()
	return c.ListPage(ctx, page)
}

// ListPage fetches a page and, on success, replaces the list and pagination
// and clears the error surface. On failure the displayed list is kept.
// In unpaginated mode the whole collection is fetched and page is ignored.
func (c *Controller) ListPage(ctx context.Context, page int) bool {
	c.mu.Lock()
	c.listGen++
	gen := c.listGen
	c.mu.Unlock()

	var (
		result *entities.ListPage
		err    error
	)
	if c.paginated {
		result, err = c.backend.List(ctx, page, c.perPage)
	} else {
		var books []entities.Book
		books, err = c.backend.ListAll(ctx)
		if err == nil {
			result = &entities.ListPage{Books: books}
		}
	}

	c.mu.Lock()
	if gen != c.listGen {
		c.mu.Unlock()
		c.logger.Debug("dropping stale list response", "page", page, "generation", gen)
		return false
	}

	if err != nil {
		alert := c.reportLocked(err, alertListFailed, "list", "page", page)
		c.mu.Unlock()
		c.alert(alert)
		return false
	}

	c.state.Books = result.Books
	c.state.CurrentPage = result.CurrentPage
	c.state.TotalPages = result.TotalPages
	if c.paginated {
		c.state.SelectedPage = page
	}
	c.state.Loaded = true
	c.clearErrorLocked()
	c.mu.Unlock()
	return true
}

// Edit fetches the record addressed by key and loads it into the form.
// On failure the form is left as it was.
func (c *Controller) Edit(ctx context.Context, key string) bool {
	if key == "" {
		c.report(errors.New(messageMissingKey), alertGetFailed, "get")
		return false
	}

	book, err := c.backend.Get(ctx, key)
	if err != nil {
		c.report(err, alertGetFailed, "get", "key", key)
		return false
	}

	form := formFromBook(*book, c.keyField)
	if form.Key == "" {
		// The backend omitted the key field; keep addressing the record
		// by the key the user picked.
		form.Key = key
	}

	c.mu.Lock()
	c.state.Form = form
	c.mu.Unlock()
	return true
}

// Submit routes the current form to create or update and executes it.
func (c *Controller) Submit(ctx context.Context) bool {
	c.mu.Lock()
	submission := Decide(c.state.Form, c.keyField)
	c.mu.Unlock()

	return c.Execute(ctx, submission)
}

// Execute runs an already decided submission. On success the form is reset,
// the error surface cleared and the selected page fetched again. On failure
// the form keeps its values and the backend's message is shown.
func (c *Controller) Execute(ctx context.Context, submission Submission) bool {
	var err error
	alert := alertCreateFailed
	switch submission.Kind {
	case SubmitUpdate:
		alert = alertUpdateFailed
		_, err = c.backend.Update(ctx, submission.Key, submission.Data)
	default:
		_, err = c.backend.Create(ctx, submission.Data)
	}
	if err != nil {
		c.report(err, alert, submission.Kind.String(), "key", submission.Key)
		return false
	}

	c.logger.Info("book saved", "operation", submission.Kind.String(), "key", submission.Key, "title", submission.Data.Title)
	c.afterMutation(ctx)
	return true
}

// Delete removes the record addressed by key, asking for confirmation first
// when enabled. A declined confirmation sends nothing. On success the same
// page number is fetched again, even if it no longer exists.
func (c *Controller) Delete(ctx context.Context, key string) bool {
	if key == "" {
		c.report(errors.New(messageMissingKey), alertDeleteFailed, "delete")
		return false
	}

	if c.confirm {
		if c.confirmer == nil || !c.confirmer.Confirm(ctx, DeletePrompt) {
			c.logger.Debug("delete declined", "key", key)
			return false
		}
	}

	if err := c.backend.Delete(ctx, key); err != nil {
		c.report(err, alertDeleteFailed, "delete", "key", key)
		return false
	}

	c.logger.Info("book deleted", "key", key)
	c.afterMutation(ctx)
	return true
}

func (c *Controller) afterMutation(ctx context.Context) {
	c.mu.Lock()
	c.state.Form = FormState{}
	c.clearErrorLocked()
	page := c.state.SelectedPage
	c.mu.Unlock()

	c.ListPage(ctx, page)
}

func (c *Controller) report(err error, alert, operation string, attrs ...any) {
	c.mu.Lock()
	pending := c.reportLocked(err, alert, operation, attrs...)
	c.mu.Unlock()
	c.alert(pending)
}

// reportLocked records a failure and returns the alert text to show once
// the lock is released, or "" when the error surface was used.
func (c *Controller) reportLocked(err error, alert, operation string, attrs ...any) string {
	attrs = append(attrs, "operation", operation, "error", err)

	var decodeErr *booksapi.DecodeError
	if errors.As(err, &decodeErr) {
		c.logger.Error("malformed response from books API", attrs...)
	} else {
		c.logger.Warn("books operation failed", attrs...)
	}

	if c.errorMode == ErrorModeAlert {
		return alert
	}

	c.state.Error = ErrorSurface{Visible: true, Message: UserMessage(err)}
	return ""
}

func (c *Controller) alert(message string) {
	if message != "" && c.alerter != nil {
		c.alerter.Alert(message)
	}
}

func (c *Controller) clearErrorLocked() {
	c.state.Error = ErrorSurface{}
}

// UserMessage turns an operation error into the text shown to the user.
// Backend failures show the backend's own message.
func UserMessage(err error) string {
	var (
		apiErr       *booksapi.APIError
		transportErr *booksapi.TransportError
		decodeErr    *booksapi.DecodeError
	)
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.As(err, &transportErr):
		return messageNetwork
	case errors.As(err, &decodeErr):
		return messageMalformed
	default:
		return err.Error()
	}
}
