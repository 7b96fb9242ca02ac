package config

const (
	// DefaultBaseURL is where the books backend listens in local development
	DefaultBaseURL = "http://127.0.0.1:5000"
)
