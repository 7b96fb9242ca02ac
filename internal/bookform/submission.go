package bookform

import "github.com/mrlokans/bookshelf/internal/entities"

// SubmissionKind tells create and update apart.
type SubmissionKind int

const (
	SubmitCreate SubmissionKind = iota
	SubmitUpdate
)

func (k SubmissionKind) String() string {
	if k == SubmitUpdate {
		return "update"
	}
	return "create"
}

// Submission is the operation a form submit resolves to. Key is only set
// for updates.
type Submission struct {
	Kind SubmissionKind
	Key  string
	Data entities.BookInput
}

// Create builds a create submission.
func Create(data entities.BookInput) Submission {
	return Submission{Kind: SubmitCreate, Data: data}
}

// Update builds an update submission for the record addressed by key.
func Update(key string, data entities.BookInput) Submission {
	return Submission{Kind: SubmitUpdate, Key: key, Data: data}
}

// Decide routes a form submit purely from the form contents. A non-empty
// identifier means update; when records are keyed by ISBN the ISBN must
// be non-empty as well. No server round-trip is made, so a stale
// identifier still routes to update and fails there.
func Decide(form FormState, field entities.KeyField) Submission {
	if form.Key == "" {
		return Create(form.Input())
	}
	if field == entities.KeyFieldISBN && form.ISBN == "" {
		return Create(form.Input())
	}
	return Update(form.Key, form.Input())
}
