package booksapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Options{BaseURL: server.URL, HTTPClient: server.Client()})
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "http", baseURL: "http://localhost:5000"},
		{name: "trailing slash", baseURL: "https://books.example.com/"},
		{name: "empty", baseURL: "", wantErr: true},
		{name: "no scheme", baseURL: "localhost:5000", wantErr: true},
		{name: "ftp", baseURL: "ftp://example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(Options{BaseURL: tt.baseURL})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestClient_List(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/books", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("per_page"))
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"books": [{"id": 7, "title": "1984", "author": "George Orwell", "published_date": "1949-06-08", "isbn": "9780451524935", "pages": 328}],
			"total_pages": 3,
			"current_page": 2
		}`)
	})

	page, err := client.List(context.Background(), 2, 5)
	require.NoError(t, err)

	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Books, 1)
	assert.Equal(t, entities.BookID("7"), page.Books[0].ID)
	assert.Equal(t, "1984", page.Books[0].Title)
	assert.Equal(t, 328, page.Books[0].Pages)
}

func TestClient_List_EmptyBooks(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"books": null, "total_pages": 0, "current_page": 1}`)
	})

	page, err := client.List(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.NotNil(t, page.Books)
	assert.Empty(t, page.Books)
}

func TestClient_List_InvalidArguments(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.List(context.Background(), 0, 5)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = client.List(context.Background(), 1, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.False(t, called, "no request should be sent for invalid arguments")
}

func TestClient_ListAll(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = io.WriteString(w, `[{"id": 1, "title": "Moby-Dick", "author": "Herman Melville"}, {"id": "abc", "title": "Dune", "author": "Frank Herbert"}]`)
	})

	books, err := client.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, entities.BookID("1"), books[0].ID)
	assert.Equal(t, entities.BookID("abc"), books[1].ID)
}

func TestClient_Get(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/books/978-0 13", r.URL.Path)
		_, _ = io.WriteString(w, `{"id": 3, "title": "Effective Java", "isbn": "978-0 13"}`)
	})

	book, err := client.Get(context.Background(), "978-0 13")
	require.NoError(t, err)
	assert.Equal(t, "Effective Java", book.Title)
}

func TestClient_Get_EmptyKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	})

	_, err := client.Get(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestClient_Create(t *testing.T) {
	input := entities.BookInput{
		Title:         "Test Book",
		Author:        "Test Author",
		PublishedDate: "2023-01-01",
		ISBN:          "1234567890",
		Pages:         "200",
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "Test Book", got["title"])
		assert.Equal(t, "2023-01-01", got["published_date"])
		assert.Equal(t, "200", got["pages"], "pages is forwarded verbatim")

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id": 1, "message": "Book added successfully!"}`)
	})

	book, err := client.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, entities.BookID("1"), book.ID)
}

func TestClient_Update(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/books/9780451524935", r.URL.Path)
		_, _ = io.WriteString(w, `{"message": "Book updated successfully!"}`)
	})

	_, err := client.Update(context.Background(), "9780451524935", entities.BookInput{Title: "1984"})
	assert.NoError(t, err)
}

func TestClient_Delete(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/books/12", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, client.Delete(context.Background(), "12"))
}

func TestClient_APIErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantCode    string
	}{
		{
			name:        "message and error",
			status:      http.StatusBadRequest,
			body:        `{"error": "Invalid request", "message": "Missing required field: 'title'"}`,
			wantMessage: "Missing required field: 'title'",
			wantCode:    "Invalid request",
		},
		{
			name:        "error only",
			status:      http.StatusNotFound,
			body:        `{"error": "Not found"}`,
			wantMessage: "Not found",
		},
		{
			name:        "not json",
			status:      http.StatusInternalServerError,
			body:        `<html>boom</html>`,
			wantMessage: "HTTP 500",
		},
		{
			name:        "empty body",
			status:      http.StatusConflict,
			body:        ``,
			wantMessage: "HTTP 409",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.Create(context.Background(), entities.BookInput{})
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, tt.wantCode, apiErr.Code)
		})
	}
}

func TestClient_DecodeError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"books": "not a list"}`)
	})

	_, err := client.List(context.Background(), 1, 5)
	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewClient(Options{BaseURL: url})
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "1")
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.MethodGet, transportErr.Method)
	assert.Equal(t, "/books/1", transportErr.Path)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&APIError{StatusCode: http.StatusNotFound}))
	assert.False(t, IsNotFound(&APIError{StatusCode: http.StatusBadRequest}))
	assert.False(t, IsNotFound(errors.New("plain")))
}
