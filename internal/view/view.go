// Package view turns controller state into render-ready rows and
// pagination buttons. Everything here is a pure function of its inputs.
package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/mrlokans/bookshelf/internal/bookform"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// Row is one rendered book with its Edit and Delete controls, both tagged
// with the record key.
type Row struct {
	Title  string
	Author string
	Key    string
}

// Text is the row caption, "<title> by <author>".
func (r Row) Text() string {
	return fmt.Sprintf("%s by %s", r.Title, r.Author)
}

// Rows renders one row per book.
func Rows(books []entities.Book, field entities.KeyField) []Row {
	rows := make([]Row, 0, len(books))
	for _, book := range books {
		rows = append(rows, Row{
			Title:  book.Title,
			Author: book.Author,
			Key:    book.Key(field),
		})
	}
	return rows
}

// PageButton dispatches a fetch of Page when activated.
type PageButton struct {
	Page   int
	Active bool
}

// Pagination renders one button per page from 1 to totalPages. The button
// equal to currentPage is active; none is when currentPage is out of range.
func Pagination(totalPages, currentPage int) []PageButton {
	if totalPages <= 0 {
		return nil
	}
	buttons := make([]PageButton, totalPages)
	for i := range buttons {
		page := i + 1
		buttons[i] = PageButton{Page: page, Active: page == currentPage}
	}
	return buttons
}

// Render writes a plain-text view of the state: the error line, the list
// and the pagination bar.
func Render(w io.Writer, state bookform.State, field entities.KeyField) error {
	var b strings.Builder

	if state.Error.Visible {
		fmt.Fprintf(&b, "Error: %s\n\n", state.Error.Message)
	}

	rows := Rows(state.Books, field)
	if len(rows) == 0 {
		b.WriteString("No books found\n")
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "  [%s] %s\n", row.Key, row.Text())
	}

	if buttons := Pagination(state.TotalPages, state.CurrentPage); len(buttons) > 0 {
		b.WriteString("\nPages:")
		for _, button := range buttons {
			if button.Active {
				fmt.Fprintf(&b, " [%d]", button.Page)
			} else {
				fmt.Fprintf(&b, " %d", button.Page)
			}
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderBook writes every field of a single book, as the edit form would show it.
func RenderBook(w io.Writer, form bookform.FormState) error {
	_, err := fmt.Fprintf(w, "%s\n  Key:            %s\n  Title:          %s\n  Author:         %s\n  Published date: %s\n  ISBN:           %s\n  Pages:          %s\n",
		form.Label(), form.Key, form.Title, form.Author, form.PublishedDate, form.ISBN, form.Pages)
	return err
}
