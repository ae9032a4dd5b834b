package app

import (
	"context"
	"strings"
	"time"

	"mrportal/internal"
	"mrportal/internal/auth"
	"mrportal/internal/errors"
	"mrportal/models"
	"mrportal/ports"

	"github.com/google/uuid"
)

// Messages returned by the authentication flow.
const (
	MsgInvalidCredentials = "Credenciais inválidas"
	MsgResetInstructions  = "Se o email existir, você receberá instruções"
	MsgUserNotFound       = "Usuário não encontrado"
	MsgInvalidTOTP        = "Código TOTP inválido"
	MsgIncompleteData     = "Dados incompletos"
)

// LoginResult is a successful login.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AuthService logs users in and resets passwords with a TOTP code.
type AuthService struct {
	users  ports.UserRepository
	tokens *auth.TokenManager
	logger *internal.Logger
	now    func() time.Time
}

// NewAuthService creates the service.
func NewAuthService(users ports.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: internal.DefaultLogger.With("Auth"),
		now:    time.Now,
	}
}

// Login checks email and password and issues a token. Unknown emails and
// wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, email, senha string) (*LoginResult, error) {
	if strings.TrimSpace(email) == "" || senha == "" {
		return nil, errors.InvalidInput("Email e senha são obrigatórios")
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.GetCode(err) == errors.CodeNotFound {
		return nil, errors.Unauthorized(MsgInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(user.SenhaHash, senha) {
		s.logger.Info("failed login for %s", user.Email)
		return nil, errors.Unauthorized(MsgInvalidCredentials)
	}

	token, err := s.tokens.Issue(user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user %s logged in", user.Email)
	return &LoginResult{Token: token, User: user}, nil
}

// ForgotPassword reports whether the reset must be confirmed with a TOTP
// code. The message is the same for unknown emails, but requiresTOTP is only
// true for known users, so the answer does disclose account existence.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, bool, error) {
	if strings.TrimSpace(email) == "" {
		return "", false, errors.InvalidInput("Email é obrigatório")
	}
	_, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	switch {
	case errors.GetCode(err) == errors.CodeNotFound:
		return MsgResetInstructions, false, nil
	case err != nil:
		return "", false, err
	}
	return "Use o código do seu aplicativo autenticador para redefinir a senha", true, nil
}

// ResetPassword replaces the password when the TOTP code matches.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(code) == "" || newPassword == "" {
		return errors.InvalidInput(MsgIncompleteData)
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.GetCode(err) == errors.CodeNotFound {
		return errors.New(errors.CodeNotFound, MsgUserNotFound)
	}
	if err != nil {
		return err
	}
	if user.TOTPSecret == "" || !auth.ValidateTOTP(code, user.TOTPSecret, s.now()) {
		return errors.InvalidInput(MsgInvalidTOTP)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.Update(ctx, user.Email, models.UserUpdate{SenhaHash: &hash}); err != nil {
		return err
	}
	s.logger.Info("password reset for %s (audit %s)", user.Email, uuid.NewString())
	return nil
}

// Authenticate parses a bearer token.
func (s *AuthService) Authenticate(token string) (*auth.Claims, error) {
	return s.tokens.Parse(token)
}
