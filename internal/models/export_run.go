package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/spotkit/internal/shared"
)

// ExportRun records one bulk export of a paginated resource to a file.
type ExportRun struct {
	RunID      string    `json:"id"`
	Sequence   int       `json:"sequence"`
	Kind       string    `json:"kind"` // album-tracks, artist-albums, saved-tracks, ...
	ResourceID string    `json:"resource_id"`
	ItemCount  int       `json:"item_count"`
	FilePath   string    `json:"file_path"`
	Error      string    `json:"error,omitempty"`
	Created    time.Time `json:"created_at"`
}

func (r *ExportRun) ID() string           { return r.RunID }
func (r *ExportRun) CreatedAt() time.Time { return r.Created }

// Validate requires an id and a kind; failed runs may lack a file.
func (r *ExportRun) Validate() error {
	if r.RunID == "" {
		return fmt.Errorf("%w: export run id is required", shared.ErrInvalidInput)
	}
	if r.Kind == "" {
		return fmt.Errorf("%w: export run kind is required", shared.ErrInvalidInput)
	}
	if r.ItemCount < 0 {
		return fmt.Errorf("%w: item count must not be negative", shared.ErrInvalidInput)
	}
	return nil
}

// Failed reports whether the run ended with an error.
func (r *ExportRun) Failed() bool {
	return r.Error != ""
}
