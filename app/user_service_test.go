package app

import (
	"context"
	"testing"

	"mrportal/internal/auth"
	"mrportal/internal/errors"
	"mrportal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	users := &MockUserRepository{}
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "joao@mr.com.br"
	})).Return(nil).Once()
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "ana@mr.com.br"
	})).Return(errors.Conflict("user already exists")).Once()
	svc := NewUserService(users)

	created, err := svc.Create(context.Background(), CreateUserRequest{
		Email: " Joao@MR.com.br ",
		Nome:  " João ",
		Senha: "senha-forte",
		Role:  "analista",
	})
	require.NoError(t, err)
	assert.Equal(t, "joao@mr.com.br", created.User.Email)
	assert.Equal(t, "João", created.User.Nome)
	assert.NotEmpty(t, created.TOTPSecret)
	assert.Equal(t, created.TOTPSecret, created.User.TOTPSecret)
	assert.Contains(t, created.TOTPURL, "otpauth://totp/")
	assert.True(t, auth.CheckPassword(created.User.SenhaHash, "senha-forte"))

	_, err = svc.Create(context.Background(), CreateUserRequest{Email: "ana@mr.com.br", Nome: "Ana", Senha: "x", Role: "analista"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeConflict, errors.GetCode(err))
	assert.Equal(t, "Email já existe", errors.Message(err))

	tests := []struct {
		name string
		req  CreateUserRequest
	}{
		{"missing role", CreateUserRequest{Email: "a@b.co", Nome: "A", Senha: "x"}},
		{"missing password", CreateUserRequest{Email: "a@b.co", Nome: "A", Role: "analista"}},
		{"malformed email", CreateUserRequest{Email: "sem-arroba", Nome: "A", Senha: "x", Role: "analista"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
		})
	}
	users.AssertExpectations(t)
}

func TestUpdateUser(t *testing.T) {
	users := &MockUserRepository{}
	users.On("Update", mock.Anything, "ana@mr.com.br", mock.MatchedBy(func(u models.UserUpdate) bool {
		return u.Nome != nil && *u.Nome == "Ana Maria" && u.Role == nil && u.SenhaHash != nil
	})).Return(nil).Once()
	users.On("Update", mock.Anything, "ninguem@mr.com.br", mock.Anything).Return(errors.NotFound("user"))
	svc := NewUserService(users)

	require.NoError(t, svc.Update(context.Background(), "ANA@mr.com.br", UpdateUserRequest{Nome: "Ana Maria", Senha: "nova"}))

	err := svc.Update(context.Background(), "ninguem@mr.com.br", UpdateUserRequest{Role: "analista"})
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	assert.Equal(t, MsgUserNotFound, errors.Message(err))

	err = svc.Update(context.Background(), "ana@mr.com.br", UpdateUserRequest{Nome: "  "})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	users.AssertExpectations(t)
}

func TestDeleteAndGetUser(t *testing.T) {
	users := &MockUserRepository{}
	users.On("Delete", mock.Anything, "ana@mr.com.br").Return(nil)
	users.On("Delete", mock.Anything, "ninguem@mr.com.br").Return(errors.NotFound("user"))
	users.On("GetByEmail", mock.Anything, "ninguem@mr.com.br").Return(nil, errors.NotFound("user"))
	svc := NewUserService(users)

	require.NoError(t, svc.Delete(context.Background(), "ana@mr.com.br"))
	assert.Equal(t, MsgUserNotFound, errors.Message(svc.Delete(context.Background(), "ninguem@mr.com.br")))

	_, err := svc.Get(context.Background(), "ninguem@mr.com.br")
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}
