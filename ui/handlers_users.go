package ui

import (
	"net/http"

	"mrportal/app"
	"mrportal/internal/errors"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.services.Users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (s *Server) handleGetUser(c *gin.Context) {
	user, err := s.services.Users.Get(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) handleCreateUser(c *gin.Context) {
	var req app.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput(app.MsgIncompleteData))
		return
	}

	created, err := s.services.Users.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":     "Usuário criado com sucesso",
		"user":        created.User,
		"totp_secret": created.TOTPSecret,
		"totp_url":    created.TOTPURL,
	})
}

func (s *Server) handleUpdateUser(c *gin.Context) {
	var req app.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput(app.MsgIncompleteData))
		return
	}

	if err := s.services.Users.Update(c.Request.Context(), c.Param("email"), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Usuário atualizado com sucesso"})
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	if err := s.services.Users.Delete(c.Request.Context(), c.Param("email")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Usuário removido com sucesso"})
}
