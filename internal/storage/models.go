package storage

import "time"

// URLRecord is a short code and the long URL it points to.
// Backend-specific identifiers never leave the backend.
type URLRecord struct {
	ShortCode string     `json:"short_code" bson:"short_code"`
	LongURL   string     `json:"long_url" bson:"long_url"`
	Active    bool       `json:"active" bson:"active"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}
