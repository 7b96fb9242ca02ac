package bookform

import "github.com/mrlokans/bookshelf/internal/entities"

const (
	LabelCreate = "Add Book"
	LabelEdit   = "Edit Book"
)

// FormState mirrors the fields of at most one book being created or edited.
// Key is empty while creating and holds the record key while editing.
type FormState struct {
	Key           string
	Title         string
	Author        string
	PublishedDate string
	ISBN          string
	Pages         string
}

// Editing reports whether the form holds an existing record.
func (f FormState) Editing() bool {
	return f.Key != ""
}

// Label is the heading shown above the form.
func (f FormState) Label() string {
	if f.Editing() {
		return LabelEdit
	}
	return LabelCreate
}

// CancelVisible reports whether the cancel-edit control is shown.
func (f FormState) CancelVisible() bool {
	return f.Editing()
}

// Input returns the request body exactly as typed.
func (f FormState) Input() entities.BookInput {
	return entities.BookInput{
		Title:         f.Title,
		Author:        f.Author,
		PublishedDate: f.PublishedDate,
		ISBN:          f.ISBN,
		Pages:         f.Pages,
	}
}

// formFromBook fills every form field from a fetched record.
func formFromBook(book entities.Book, field entities.KeyField) FormState {
	input := book.Input()
	return FormState{
		Key:           book.Key(field),
		Title:         input.Title,
		Author:        input.Author,
		PublishedDate: input.PublishedDate,
		ISBN:          input.ISBN,
		Pages:         input.Pages,
	}
}

// ErrorSurface is the single place operation failures are shown.
type ErrorSurface struct {
	Visible bool
	Message string
}

// State is everything the front ends render. The list and pagination are
// the last successfully fetched page; the controller never edits them locally.
type State struct {
	Form  FormState
	Books []entities.Book
	// SelectedPage is the page the user last asked for. It is what gets
	// re-fetched after a mutation.
	SelectedPage int
	CurrentPage  int
	TotalPages   int
	Error        ErrorSurface
	// Loaded is false until the first list fetch succeeds.
	Loaded bool
}

func (s State) clone() State {
	out := s
	if s.Books != nil {
		out.Books = make([]entities.Book, len(s.Books))
		copy(out.Books, s.Books)
	}
	return out
}
