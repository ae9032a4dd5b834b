package ui

import (
	"net/http"

	"mrportal/app"
	"mrportal/internal/errors"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email e senha são obrigatórios"})
		return
	}

	result, err := s.services.Auth.Login(c.Request.Context(), req.Email, req.Senha)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": result.Token,
		"user": gin.H{
			"email": result.User.Email,
			"nome":  result.User.Nome,
			"role":  result.User.Role,
		},
	})
}

func (s *Server) handleForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("Email é obrigatório"))
		return
	}

	message, requiresTOTP, err := s.services.Auth.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	response := gin.H{"message": message}
	if requiresTOTP {
		response["requires_totp"] = true
	}
	c.JSON(http.StatusOK, response)
}

func (s *Server) handleResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email"`
		TOTPCode    string `json:"totp_code"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput(app.MsgIncompleteData))
		return
	}

	if err := s.services.Auth.ResetPassword(c.Request.Context(), req.Email, req.TOTPCode, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Senha alterada com sucesso"})
}
