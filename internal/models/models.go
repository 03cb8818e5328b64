package models

import (
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the data access operations for an append-only model.
type Repository[T Model] interface {
	Create(model T) error          // Create inserts a new model into the database
	Get(id string) (T, error)      // Get retrieves a model by its ID
	Recent(limit int) ([]T, error) // Recent returns up to limit models, newest first
}
