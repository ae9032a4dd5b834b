package db

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"mrportal/internal/errors"
	"mrportal/models"
	"mrportal/ports"

	"github.com/jmoiron/sqlx"
)

const userColumns = `email, nome, senha_hash, role, COALESCE(totp_secret, '') AS totp_secret, created_at`

// UserRepository implements ports.UserRepository with sqlx
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) ports.UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind(`SELECT `+userColumns+` FROM users WHERE email = ?`), email)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("user " + email)
	}
	if err != nil {
		return nil, dbError(err, "get user")
	}
	return &user, nil
}

// List returns all users
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	users := []*models.User{}
	if err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY email`); err != nil {
		return nil, dbError(err, "list users")
	}
	return users, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO users (email, nome, senha_hash, role, totp_secret, created_at)
		VALUES (:email, :nome, :senha_hash, :role, :totp_secret, :created_at)
	`, user)
	if isUniqueViolation(err) {
		return errors.Conflict("user " + user.Email + " already exists")
	}
	if err != nil {
		return dbError(err, "create user")
	}
	return nil
}

// Update sets the non-nil fields of update
func (r *UserRepository) Update(ctx context.Context, email string, update models.UserUpdate) error {
	if update.IsEmpty() {
		return nil
	}

	var (
		sets []string
		args []interface{}
	)
	add := func(column string, value *string) {
		if value != nil {
			sets = append(sets, column+" = ?")
			args = append(args, *value)
		}
	}
	add("nome", update.Nome)
	add("senha_hash", update.SenhaHash)
	add("role", update.Role)
	add("totp_secret", update.TOTPSecret)
	args = append(args, email)

	query := r.db.Rebind(`UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE email = ?`)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return dbError(err, "update user")
	}
	return requireAffected(res, "user "+email)
}

// Delete removes a user
func (r *UserRepository) Delete(ctx context.Context, email string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM users WHERE email = ?`), email)
	if err != nil {
		return dbError(err, "delete user")
	}
	return requireAffected(res, "user "+email)
}

func requireAffected(res sql.Result, resource string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return dbError(err, "read affected rows")
	}
	if n == 0 {
		return errors.NotFound(resource)
	}
	return nil
}

// ClientRepository implements ports.ClientRepository with sqlx
type ClientRepository struct {
	db *sqlx.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *sqlx.DB) ports.ClientRepository {
	return &ClientRepository{db: db}
}

// List returns all clients
func (r *ClientRepository) List(ctx context.Context) ([]models.Client, error) {
	clients := []models.Client{}
	if err := r.db.SelectContext(ctx, &clients, `SELECT id, nome, COALESCE(logo_path, '') AS logo_path FROM clients ORDER BY nome`); err != nil {
		return nil, dbError(err, "list clients")
	}
	return clients, nil
}

// GetByID retrieves a client
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	var client models.Client
	err := r.db.GetContext(ctx, &client,
		r.db.Rebind(`SELECT id, nome, COALESCE(logo_path, '') AS logo_path FROM clients WHERE id = ?`), id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("client " + id)
	}
	if err != nil {
		return nil, dbError(err, "get client")
	}
	return &client, nil
}
