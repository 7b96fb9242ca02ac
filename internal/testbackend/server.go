// Package testbackend runs an in-process stand-in for the /books backend so
// the client can be exercised end to end in tests. It mirrors the observed
// backend: sqlite storage, unique ISBNs, {"error", "message"} failure
// bodies, paginated and unpaginated listing, lookup by id or ISBN.
package testbackend

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/entities"
)

const (
	dateLayout     = "2006-01-02"
	defaultPerPage = 5
)

// bookRecord is the stored row.
type bookRecord struct {
	ID            uint      `gorm:"primaryKey"`
	Title         string    `gorm:"size:100;not null"`
	Author        string    `gorm:"size:100;not null"`
	PublishedDate time.Time `gorm:"not null"`
	ISBN          string    `gorm:"uniqueIndex;size:20;not null"`
	Pages         int       `gorm:"not null"`
}

func (bookRecord) TableName() string {
	return "books"
}

func (r bookRecord) toJSON() gin.H {
	return gin.H{
		"id":             r.ID,
		"title":          r.Title,
		"author":         r.Author,
		"published_date": r.PublishedDate.Format(dateLayout),
		"isbn":           r.ISBN,
		"pages":          r.Pages,
	}
}

// Options configures the stand-in.
type Options struct {
	// DBPath is the sqlite file to store books in.
	DBPath string
	// Paginated switches GET /books between the {books, total_pages,
	// current_page} envelope and a bare array.
	Paginated bool
	// KeyField selects how /books/{key} is resolved.
	KeyField entities.KeyField
}

// Request is one request the stand-in received.
type Request struct {
	Method string
	Path   string
	Query  string
}

func (r Request) String() string {
	if r.Query == "" {
		return r.Method + " " + r.Path
	}
	return r.Method + " " + r.Path + "?" + r.Query
}

type fault struct {
	method string
	status int
	body   gin.H
	raw    string
}

// Server is a running stand-in backend.
type Server struct {
	*httptest.Server

	db   *gorm.DB
	opts Options

	mu       sync.Mutex
	requests []Request
	faults   []fault
}

// New opens the database and starts serving.
func New(opts Options) (*Server, error) {
	if opts.DBPath == "" {
		return nil, errors.New("testbackend: DBPath is required")
	}
	if !opts.KeyField.Valid() {
		opts.KeyField = entities.KeyFieldID
	}

	db, err := gorm.Open(sqlite.Open(opts.DBPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&bookRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s := &Server{db: db, opts: opts}
	s.Server = httptest.NewServer(s.router())
	return s, nil
}

// Close stops the server and closes the database.
func (s *Server) Close() {
	s.Server.Close()
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// Seed stores books directly, bypassing the HTTP layer.
func (s *Server) Seed(books ...entities.BookInput) error {
	for _, input := range books {
		record, err := recordFromInput(input)
		if err != nil {
			return err
		}
		if err := s.db.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to seed %q: %w", input.Title, err)
		}
	}
	return nil
}

// Count returns the number of stored books.
func (s *Server) Count() int64 {
	var count int64
	s.db.Model(&bookRecord{}).Count(&count)
	return count
}

// Requests returns every request received so far, oldest first.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// ResetRequests forgets recorded requests.
func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// FailNext makes the next request with the given method answer status with
// body as JSON. An empty method matches any request.
func (s *Server) FailNext(method string, status int, body gin.H) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, fault{method: method, status: status, body: body})
}

// FailNextRaw is FailNext with a literal, possibly non-JSON, body.
func (s *Server) FailNextRaw(method string, status int, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, fault{method: method, status: status, raw: raw})
}

func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(s.record, s.injectFaults)

	router.GET("/books", s.listBooks)
	router.GET("/books/:key", s.getBook)
	router.POST("/books", s.addBook)
	router.PUT("/books/:key", s.updateBook)
	router.DELETE("/books/:key", s.deleteBook)

	return router
}

func (s *Server) record(c *gin.Context) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.RawQuery,
	})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) injectFaults(c *gin.Context) {
	s.mu.Lock()
	var injected *fault
	for i, f := range s.faults {
		if f.method == "" || f.method == c.Request.Method {
			injected = &f
			s.faults = append(s.faults[:i], s.faults[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if injected == nil {
		c.Next()
		return
	}
	if injected.body != nil {
		c.AbortWithStatusJSON(injected.status, injected.body)
		return
	}
	c.Data(injected.status, "text/plain; charset=utf-8", []byte(injected.raw))
	c.Abort()
}

func (s *Server) listBooks(c *gin.Context) {
	if !s.opts.Paginated {
		var records []bookRecord
		if err := s.db.Order("id").Find(&records).Error; err != nil {
			internalError(c, err)
			return
		}
		books := make([]gin.H, 0, len(records))
		for _, r := range records {
			books = append(books, r.toJSON())
		}
		c.JSON(http.StatusOK, books)
		return
	}

	page, err := positiveQuery(c, "page", 1)
	if err != nil {
		invalidRequest(c, err.Error())
		return
	}
	perPage, err := positiveQuery(c, "per_page", defaultPerPage)
	if err != nil {
		invalidRequest(c, err.Error())
		return
	}

	var total int64
	if err := s.db.Model(&bookRecord{}).Count(&total).Error; err != nil {
		internalError(c, err)
		return
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	// Pages past the end are a 404, except page 1 of an empty collection.
	if page > 1 && page > totalPages {
		notFound(c)
		return
	}

	var records []bookRecord
	if err := s.db.Order("id").Offset((page - 1) * perPage).Limit(perPage).Find(&records).Error; err != nil {
		internalError(c, err)
		return
	}
	books := make([]gin.H, 0, len(records))
	for _, r := range records {
		books = append(books, r.toJSON())
	}

	c.JSON(http.StatusOK, gin.H{
		"books":        books,
		"total_pages":  totalPages,
		"current_page": page,
	})
}

func (s *Server) getBook(c *gin.Context) {
	record, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, record.toJSON())
}

func (s *Server) addBook(c *gin.Context) {
	record, ok := bindRecord(c)
	if !ok {
		return
	}
	if s.isbnTaken(record.ISBN, 0) {
		invalidRequest(c, "A book with this ISBN already exists")
		return
	}
	if err := s.db.Create(&record).Error; err != nil {
		internalError(c, err)
		return
	}
	body := record.toJSON()
	body["message"] = "Book added successfully!"
	c.JSON(http.StatusCreated, body)
}

func (s *Server) updateBook(c *gin.Context) {
	existing, ok := s.lookup(c)
	if !ok {
		return
	}
	record, ok := bindRecord(c)
	if !ok {
		return
	}
	if s.isbnTaken(record.ISBN, existing.ID) {
		invalidRequest(c, "A book with this ISBN already exists")
		return
	}
	record.ID = existing.ID
	if err := s.db.Save(&record).Error; err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book updated successfully!"})
}

func (s *Server) deleteBook(c *gin.Context) {
	record, ok := s.lookup(c)
	if !ok {
		return
	}
	if err := s.db.Delete(&bookRecord{}, record.ID).Error; err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully!"})
}

func (s *Server) lookup(c *gin.Context) (bookRecord, bool) {
	key := c.Param("key")
	var record bookRecord
	var err error
	if s.opts.KeyField == entities.KeyFieldISBN {
		err = s.db.Where("isbn = ?", key).First(&record).Error
	} else {
		id, convErr := strconv.ParseUint(key, 10, 32)
		if convErr != nil {
			notFound(c)
			return record, false
		}
		err = s.db.First(&record, uint(id)).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(c)
		return record, false
	}
	if err != nil {
		internalError(c, err)
		return record, false
	}
	return record, true
}

func (s *Server) isbnTaken(isbn string, exceptID uint) bool {
	var count int64
	s.db.Model(&bookRecord{}).Where("isbn = ? AND id <> ?", isbn, exceptID).Count(&count)
	return count > 0
}

var requiredFields = []string{"title", "author", "published_date", "isbn", "pages"}

func bindRecord(c *gin.Context) (bookRecord, bool) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		invalidRequest(c, "Request body must be a JSON object")
		return bookRecord{}, false
	}
	for _, field := range requiredFields {
		value, ok := body[field]
		if !ok || value == nil || value == "" {
			invalidRequest(c, fmt.Sprintf("Missing required field: '%s'", field))
			return bookRecord{}, false
		}
	}

	input := entities.BookInput{
		Title:         fmt.Sprint(body["title"]),
		Author:        fmt.Sprint(body["author"]),
		PublishedDate: fmt.Sprint(body["published_date"]),
		ISBN:          fmt.Sprint(body["isbn"]),
		Pages:         fmt.Sprint(body["pages"]),
	}
	record, err := recordFromInput(input)
	if err != nil {
		invalidRequest(c, err.Error())
		return bookRecord{}, false
	}
	return record, true
}

func recordFromInput(input entities.BookInput) (bookRecord, error) {
	published, err := time.Parse(dateLayout, input.PublishedDate)
	if err != nil {
		return bookRecord{}, errors.New("Invalid value for field: 'published_date'")
	}
	pages, err := strconv.Atoi(input.Pages)
	if err != nil || pages <= 0 {
		return bookRecord{}, errors.New("Invalid value for field: 'pages'")
	}
	return bookRecord{
		Title:         input.Title,
		Author:        input.Author,
		PublishedDate: published,
		ISBN:          input.ISBN,
		Pages:         pages,
	}, nil
}

func positiveQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, fmt.Errorf("Invalid value for parameter: '%s'", name)
	}
	return value, nil
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}

func invalidRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "message": message})
}

func internalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "message": err.Error()})
}
