package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/bookform"
	"github.com/mrlokans/bookshelf/internal/entities"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, entities.KeyFieldISBN, cfg.Form.KeyField)
	assert.Equal(t, 5, cfg.Form.PerPage)
	assert.True(t, cfg.Form.Paginated)
	assert.True(t, cfg.Form.ConfirmDelete)
	assert.Equal(t, bookform.ErrorModeSurface, cfg.Form.ErrorMode)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig_Environment(t *testing.T) {
	t.Setenv("BOOKS_API_URL", "http://books.internal:8080")
	t.Setenv("BOOKS_API_TIMEOUT", "3s")
	t.Setenv("BOOKS_KEY_FIELD", "ID")
	t.Setenv("BOOKS_PER_PAGE", "20")
	t.Setenv("BOOKS_PAGINATED", "false")
	t.Setenv("BOOKS_CONFIRM_DELETE", "false")
	t.Setenv("BOOKS_ERROR_MODE", "alert")

	cfg := NewConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://books.internal:8080", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, entities.KeyFieldID, cfg.Form.KeyField)
	assert.Equal(t, 20, cfg.Form.PerPage)
	assert.False(t, cfg.Form.Paginated)
	assert.False(t, cfg.Form.ConfirmDelete)
	assert.Equal(t, bookform.ErrorModeAlert, cfg.Form.ErrorMode)

	opts := cfg.ControllerOptions()
	assert.Equal(t, entities.KeyFieldID, opts.KeyField)
	assert.Equal(t, 20, opts.PerPage)
	assert.Equal(t, bookform.ErrorModeAlert, opts.ErrorMode)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty url", mutate: func(c *Config) { c.API.BaseURL = "" }},
		{name: "zero timeout", mutate: func(c *Config) { c.API.Timeout = 0 }},
		{name: "unknown key field", mutate: func(c *Config) { c.Form.KeyField = "title" }},
		{name: "zero per page", mutate: func(c *Config) { c.Form.PerPage = 0 }},
		{name: "unknown error mode", mutate: func(c *Config) { c.Form.ErrorMode = "popup" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
