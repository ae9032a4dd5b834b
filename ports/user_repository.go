package ports

import (
	"context"

	"mrportal/models"
)

// UserRepository defines the interface for user data operations.
// Lookups of unknown emails return a NOT_FOUND AppError.
type UserRepository interface {
	// GetByEmail retrieves a user by normalized email
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// List returns every user ordered by email
	List(ctx context.Context) ([]*models.User, error)

	// Create inserts a user; a taken email yields a CONFLICT AppError
	Create(ctx context.Context, user *models.User) error

	// Update applies the non-nil fields of update
	Update(ctx context.Context, email string, update models.UserUpdate) error

	// Delete removes a user
	Delete(ctx context.Context, email string) error
}

// ClientRepository gives read access to the report clients.
type ClientRepository interface {
	List(ctx context.Context) ([]models.Client, error)
	GetByID(ctx context.Context, id string) (*models.Client, error)
}
