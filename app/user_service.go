package app

import (
	"context"
	"strings"

	"mrportal/internal"
	"mrportal/internal/auth"
	"mrportal/internal/errors"
	"mrportal/models"
	"mrportal/ports"
)

// CreateUserRequest is the payload of a new user.
type CreateUserRequest struct {
	Email string `json:"email"`
	Nome  string `json:"nome"`
	Senha string `json:"senha"`
	Role  string `json:"role"`
}

// UpdateUserRequest changes the non-empty fields of a user.
type UpdateUserRequest struct {
	Nome  string `json:"nome"`
	Senha string `json:"senha"`
	Role  string `json:"role"`
}

// CreatedUser is returned once, with the TOTP secret the user must enrol.
type CreatedUser struct {
	User       *models.User `json:"user"`
	TOTPSecret string       `json:"totp_secret"`
	TOTPURL    string       `json:"totp_url"`
}

// UserService manages portal users.
type UserService struct {
	users  ports.UserRepository
	logger *internal.Logger
}

// NewUserService creates the service.
func NewUserService(users ports.UserRepository) *UserService {
	return &UserService{users: users, logger: internal.DefaultLogger.With("Users")}
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.GetCode(err) == errors.CodeNotFound {
		return nil, errors.New(errors.CodeNotFound, MsgUserNotFound)
	}
	return user, err
}

// Create adds a user with a hashed password and a fresh TOTP secret.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*CreatedUser, error) {
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Nome) == "" || req.Senha == "" || strings.TrimSpace(req.Role) == "" {
		return nil, errors.InvalidInput(MsgIncompleteData)
	}
	email, err := auth.NormalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Senha)
	if err != nil {
		return nil, err
	}
	secret, url, err := auth.GenerateTOTPSecret(email)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:      email,
		Nome:       strings.TrimSpace(req.Nome),
		SenhaHash:  hash,
		Role:       strings.TrimSpace(req.Role),
		TOTPSecret: secret,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.GetCode(err) == errors.CodeConflict {
			return nil, errors.New(errors.CodeConflict, "Email já existe")
		}
		return nil, err
	}

	s.logger.Info("created user %s with role %s", user.Email, user.Role)
	return &CreatedUser{User: user, TOTPSecret: secret, TOTPURL: url}, nil
}

// Update changes name, password or role. Empty fields are kept.
func (s *UserService) Update(ctx context.Context, email string, req UpdateUserRequest) error {
	update := models.UserUpdate{}
	if nome := strings.TrimSpace(req.Nome); nome != "" {
		update.Nome = &nome
	}
	if role := strings.TrimSpace(req.Role); role != "" {
		update.Role = &role
	}
	if req.Senha != "" {
		hash, err := auth.HashPassword(req.Senha)
		if err != nil {
			return err
		}
		update.SenhaHash = &hash
	}
	if update.IsEmpty() {
		return errors.InvalidInput(MsgIncompleteData)
	}

	err := s.users.Update(ctx, strings.ToLower(strings.TrimSpace(email)), update)
	if errors.GetCode(err) == errors.CodeNotFound {
		return errors.New(errors.CodeNotFound, MsgUserNotFound)
	}
	return err
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, email string) error {
	err := s.users.Delete(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.GetCode(err) == errors.CodeNotFound {
		return errors.New(errors.CodeNotFound, MsgUserNotFound)
	}
	if err == nil {
		s.logger.Info("deleted user %s", email)
	}
	return err
}
