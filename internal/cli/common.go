package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/mrlokans/bookshelf/internal/bookform"
	"github.com/mrlokans/bookshelf/internal/booksapi"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/logging"
)

// base holds what every subcommand shares: configuration, the connection
// flags and the standard streams.
type base struct {
	cfg *config.Config

	BaseURL  string
	KeyField string
	Verbose  bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	alerts []string
}

func newBase(cfg *config.Config) base {
	return base{
		cfg:    cfg,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (b *base) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&b.BaseURL, "url", b.cfg.API.BaseURL, "Base URL of the books backend")
	fs.StringVar(&b.KeyField, "key-field", string(b.cfg.Form.KeyField), "Record key used to address books: id or isbn")
	fs.BoolVarP(&b.Verbose, "verbose", "v", false, "Log requests to stderr")
}

// newFlagSet creates a flag set whose usage text goes to the command's stderr.
func (b *base) newFlagSet(name, usage string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(b.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(b.Stderr, "Usage: %s %s\n\nOptions:\n", os.Args[0], usage)
		fs.PrintDefaults()
	}
	b.addFlags(fs)
	return fs
}

// resolve applies the flag overrides on top of the loaded configuration.
func (b *base) resolve() error {
	b.cfg.API.BaseURL = b.BaseURL
	b.cfg.Form.KeyField = entities.KeyField(b.KeyField)
	return b.cfg.Validate()
}

func (b *base) logger() *slog.Logger {
	if b.Verbose {
		return logging.New(b.Stderr, "debug")
	}
	return logging.New(b.Stderr, "error")
}

// controller builds a controller for one CLI invocation. Alerts are
// printed to stderr and remembered so the command can fail with them.
func (b *base) controller(opts bookform.Options) (*bookform.Controller, error) {
	if err := b.resolve(); err != nil {
		return nil, err
	}

	logger := b.logger()
	client, err := booksapi.NewClient(booksapi.Options{
		BaseURL: b.cfg.API.BaseURL,
		Timeout: b.cfg.API.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	opts.Logger = logger
	opts.Alerter = bookform.AlertFunc(func(message string) {
		b.alerts = append(b.alerts, message)
		fmt.Fprintln(b.Stderr, message)
	})
	return bookform.NewController(client, opts), nil
}

// failure explains why the last controller operation did not succeed.
func (b *base) failure(ctrl *bookform.Controller) error {
	if state := ctrl.Snapshot(); state.Error.Visible {
		return errors.New(state.Error.Message)
	}
	if len(b.alerts) > 0 {
		return errors.New(b.alerts[len(b.alerts)-1])
	}
	return errors.New("operation failed")
}

// bookFlags are the form inputs shared by add and edit.
type bookFlags struct {
	Title         string
	Author        string
	PublishedDate string
	ISBN          string
	Pages         string
}

func (f *bookFlags) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Title, "title", "", "Book title")
	fs.StringVar(&f.Author, "author", "", "Book author")
	fs.StringVar(&f.PublishedDate, "published-date", "", "Publication date, e.g. 1949-06-08")
	fs.StringVar(&f.ISBN, "isbn", "", "ISBN")
	fs.StringVar(&f.Pages, "pages", "", "Page count")
}

// overlay copies every flag the user actually set onto form.
func (f *bookFlags) overlay(fs *pflag.FlagSet, form bookform.FormState) bookform.FormState {
	if fs.Changed("title") {
		form.Title = f.Title
	}
	if fs.Changed("author") {
		form.Author = f.Author
	}
	if fs.Changed("published-date") {
		form.PublishedDate = f.PublishedDate
	}
	if fs.Changed("isbn") {
		form.ISBN = f.ISBN
	}
	if fs.Changed("pages") {
		form.Pages = f.Pages
	}
	return form
}
