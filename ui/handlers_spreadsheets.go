package ui

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"mrportal/app"
	"mrportal/internal/errors"

	"github.com/gin-gonic/gin"
)

// uploadFromForm reads the multipart fields shared by both upload routes.
// Bodies over MaxUploadBytes are rejected. The caller closes the returned file.
func (s *Server) uploadFromForm(c *gin.Context, targetField string) (app.UploadRequest, func(), error) {
	limit := s.options.MaxUploadBytes
	if limit > 0 {
		if c.Request.ContentLength > limit {
			return app.UploadRequest{}, nil, tooLarge(limit)
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return app.UploadRequest{}, nil, tooLarge(limit)
		}
		return app.UploadRequest{}, nil, errors.InvalidInput("Nenhum arquivo enviado")
	}
	file, err := header.Open()
	if err != nil {
		return app.UploadRequest{}, nil, errors.Wrap(err, "failed to open upload")
	}
	req := app.UploadRequest{
		Target:       c.PostForm(targetField),
		Filename:     header.Filename,
		Content:      file,
		SheetName:    c.PostForm("sheet_name"),
		StatusColumn: c.PostForm("status_column"),
	}
	return req, func() { file.Close() }, nil
}

func tooLarge(limit int64) error {
	return errors.PayloadTooLarge(fmt.Sprintf("Arquivo excede o limite de %d MB", limit>>20))
}

func (s *Server) handleUploadRegional(c *gin.Context) {
	req, done, err := s.uploadFromForm(c, "regional")
	if err != nil {
		respondError(c, err)
		return
	}
	defer done()

	result, err := s.services.Spreadsheets.UploadRegional(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Planilha enviada com sucesso",
		"regional":  result.Target,
		"file_name": result.FileName,
		"file_path": result.FilePath,
		"replaced":  result.Replaced,
	})
}

func (s *Server) handleListRegional(c *gin.Context) {
	files, err := s.services.Spreadsheets.ListRegional(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"spreadsheets": files})
}

func (s *Server) handleGetRegional(c *gin.Context) {
	file, err := s.services.Spreadsheets.GetRegional(c.Request.Context(), c.Param("regional"))
	if err != nil {
		if errors.GetCode(err) == errors.CodeNotFound {
			err = errors.New(errors.CodeNotFound, "Planilha não encontrada para regional "+c.Param("regional"))
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, file)
}

func (s *Server) handleDeleteRegional(c *gin.Context) {
	if err := s.services.Spreadsheets.DeleteRegional(c.Request.Context(), c.Param("regional")); err != nil {
		if errors.GetCode(err) == errors.CodeNotFound {
			err = errors.New(errors.CodeNotFound, "Planilha não encontrada para regional "+c.Param("regional"))
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Planilha removida com sucesso"})
}
