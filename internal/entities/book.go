package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// KeyField selects which Book field addresses a single record in backend requests.
type KeyField string

const (
	KeyFieldID   KeyField = "id"   // Backend-assigned identifier
	KeyFieldISBN KeyField = "isbn" // User-supplied ISBN
)

// Valid reports whether the key field is one the client knows how to use.
func (k KeyField) Valid() bool {
	return k == KeyFieldID || k == KeyFieldISBN
}

// BookID is the opaque identifier the backend assigns on creation.
// The backend may encode it as a JSON number or a string.
type BookID string

func (id *BookID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = BookID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("book id: %w", err)
	}
	*id = BookID(n.String())
	return nil
}

func (id BookID) String() string {
	return string(id)
}

// Book is a transient, non-authoritative copy of a backend record.
type Book struct {
	ID            BookID `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	PublishedDate string `json:"published_date"`
	ISBN          string `json:"isbn"`
	Pages         int    `json:"pages"`
}

// Key returns the value of the given key field for this book.
func (b Book) Key(field KeyField) string {
	if field == KeyFieldISBN {
		return b.ISBN
	}
	return b.ID.String()
}

// Input converts the record back to the shape the form edits.
func (b Book) Input() BookInput {
	pages := ""
	if b.Pages != 0 {
		pages = strconv.Itoa(b.Pages)
	}
	return BookInput{
		Title:         b.Title,
		Author:        b.Author,
		PublishedDate: b.PublishedDate,
		ISBN:          b.ISBN,
		Pages:         pages,
	}
}

// BookInput is the body of create and update requests. Every field is
// forwarded exactly as typed; validation belongs to the backend.
type BookInput struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	PublishedDate string `json:"published_date"`
	ISBN          string `json:"isbn"`
	Pages         string `json:"pages"`
}

// ListPage is one page of the remote collection. CurrentPage and
// TotalPages come from the backend and are never computed locally;
// both are zero when the backend does not paginate.
type ListPage struct {
	Books       []Book `json:"books"`
	CurrentPage int    `json:"current_page"`
	TotalPages  int    `json:"total_pages"`
}
