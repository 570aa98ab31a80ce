// package models defines the data model for the spotkit client
package models

import (
	"time"
)

// Model defines the base interface for persisted records.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Image is a cover art or profile picture in one size.
type Image struct {
	URL    string `json:"url"`
	Height *int   `json:"height"`
	Width  *int   `json:"width"`
}

// Followers is the follower count of an artist, playlist or user.
type Followers struct {
	Href  *string `json:"href"`
	Total uint32  `json:"total"`
}

// Copyright is a copyright statement of an album or show.
type Copyright struct {
	Text string `json:"text"`
	Type string `json:"type"` // C (copyright) or P (performance)
}

// Restrictions explains why content is unavailable.
type Restrictions struct {
	Reason string `json:"reason"`
}
