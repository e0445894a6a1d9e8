package auth

import "time"

// Config drives authentication of the query endpoints.
type Config struct {
	Enabled      bool
	Secret       string
	APIKeyHashes []string
}

// Claims describes an authenticated caller.
type Claims struct {
	Subject   string
	Method    string
	ExpiresAt time.Time
}

// Authentication methods reported in Claims.Method.
const (
	MethodToken  = "token"
	MethodAPIKey = "api_key"
)
