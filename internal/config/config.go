package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mrlokans/bookshelf/internal/bookform"
	"github.com/mrlokans/bookshelf/internal/entities"
)

type (
	Config struct {
		API
		Form
		Log
	}

	API struct {
		BaseURL string
		Timeout time.Duration
	}
	Form struct {
		KeyField      entities.KeyField
		PerPage       int
		Paginated     bool
		ConfirmDelete bool
		ErrorMode     bookform.ErrorMode
	}
	Log struct {
		Level string
		File  string // TUI only writes logs here
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("books_api_url", DefaultBaseURL)
	v.SetDefault("books_api_timeout", "10s")
	v.SetDefault("books_key_field", string(entities.KeyFieldISBN))
	v.SetDefault("books_per_page", bookform.DefaultPerPage)
	v.SetDefault("books_paginated", true)
	v.SetDefault("books_confirm_delete", true)
	v.SetDefault("books_error_mode", string(bookform.ErrorModeSurface))
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")

	return &Config{
		API: API{
			BaseURL: v.GetString("BOOKS_API_URL"),
			Timeout: v.GetDuration("BOOKS_API_TIMEOUT"),
		},
		Form: Form{
			KeyField:      entities.KeyField(strings.ToLower(v.GetString("BOOKS_KEY_FIELD"))),
			PerPage:       v.GetInt("BOOKS_PER_PAGE"),
			Paginated:     v.GetBool("BOOKS_PAGINATED"),
			ConfirmDelete: v.GetBool("BOOKS_CONFIRM_DELETE"),
			ErrorMode:     bookform.ErrorMode(strings.ToLower(v.GetString("BOOKS_ERROR_MODE"))),
		},
		Log: Log{
			Level: v.GetString("LOG_LEVEL"),
			File:  v.GetString("LOG_FILE"),
		},
	}
}

// Validate rejects settings the client cannot work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("books API URL is not set")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("books API timeout must be positive, got %s", c.API.Timeout)
	}
	if !c.Form.KeyField.Valid() {
		return fmt.Errorf("unknown key field %q (expected %q or %q)", c.Form.KeyField, entities.KeyFieldID, entities.KeyFieldISBN)
	}
	if c.Form.PerPage < 1 {
		return fmt.Errorf("books per page must be at least 1, got %d", c.Form.PerPage)
	}
	if !c.Form.ErrorMode.Valid() {
		return fmt.Errorf("unknown error mode %q (expected %q or %q)", c.Form.ErrorMode, bookform.ErrorModeSurface, bookform.ErrorModeAlert)
	}
	return nil
}

// ControllerOptions maps the form settings onto controller options.
// Confirmer, Alerter and Logger are left for the front end to fill in.
func (c *Config) ControllerOptions() bookform.Options {
	return bookform.Options{
		KeyField:      c.Form.KeyField,
		PerPage:       c.Form.PerPage,
		Paginated:     c.Form.Paginated,
		ConfirmDelete: c.Form.ConfirmDelete,
		ErrorMode:     c.Form.ErrorMode,
	}
}
