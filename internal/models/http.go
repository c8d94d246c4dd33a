// Package models defines the request and response data structures used
// for communication between the client and the URL shortener service.
package models

import "time"

// CreateRequest represents a request to shorten a URL.
type CreateRequest struct {
	// LongURL is the absolute URL to be shortened.
	LongURL string `json:"long_url"`
}

// URLResponse is the public view of a stored URL record.
type URLResponse struct {
	ShortCode string `json:"short_code"`

	// ShortURL is computed per response from the configured base URL.
	ShortURL string `json:"short_url"`

	LongURL   string     `json:"long_url"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ErrorResponse carries a human readable failure reason.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
