package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"mrportal/adapters/excel"
	"mrportal/internal"
	"mrportal/internal/errors"
	"mrportal/models"
	"mrportal/ports"

	"github.com/google/uuid"
)

// regionalPattern is the shape of a regional code; it becomes part of a file name.
var regionalPattern = regexp.MustCompile(`^[A-Z0-9_-]+$`)

// UploadRequest is one uploaded spreadsheet file.
type UploadRequest struct {
	// Target is the regional code or the ENEL spreadsheet name.
	Target       string
	Filename     string
	Content      io.Reader
	SheetName    string
	StatusColumn string
}

// UploadResult describes where an upload was stored.
type UploadResult struct {
	Target   string `json:"target"`
	FileName string `json:"file_name"`
	FilePath string `json:"file_path"`
	Replaced bool   `json:"replaced"`
}

// SpreadsheetService stores uploaded spreadsheets on disk and records them
// in the database. A new upload for the same target replaces the old file.
type SpreadsheetService struct {
	dir       string
	regionals ports.SpreadsheetRepository
	enel      ports.EnelSpreadsheetRepository
	logger    *internal.Logger
}

// NewSpreadsheetService creates a service that writes files under dir.
func NewSpreadsheetService(dir string, regionals ports.SpreadsheetRepository, enel ports.EnelSpreadsheetRepository) *SpreadsheetService {
	return &SpreadsheetService{
		dir:       dir,
		regionals: regionals,
		enel:      enel,
		logger:    internal.DefaultLogger.With("Spreadsheets"),
	}
}

func validateUpload(req UploadRequest) (string, error) {
	if strings.TrimSpace(req.Filename) == "" {
		return "", errors.InvalidInput("Nenhum arquivo selecionado")
	}
	if !excel.IsAllowedFile(req.Filename) {
		return "", errors.InvalidInput("Formato não suportado. Use: " + strings.Join(excel.AllowedExtensions, ", "))
	}
	filename := SecureFilename(req.Filename)
	if filename == "" || !excel.IsAllowedFile(filename) {
		return "", errors.InvalidInput("Nome de arquivo inválido")
	}
	return filename, nil
}

// UploadRegional stores the spreadsheet of a regional (CE, SP, RJ, ...).
func (s *SpreadsheetService) UploadRegional(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	regional := strings.ToUpper(strings.TrimSpace(req.Target))
	if regional == "" {
		return nil, errors.InvalidInput(`Parâmetro "regional" é obrigatório`)
	}
	if !regionalPattern.MatchString(regional) {
		return nil, errors.InvalidInput("Regional inválida: use apenas letras, números, '-' ou '_'")
	}
	filename, err := validateUpload(req)
	if err != nil {
		return nil, err
	}

	path, err := s.save(storedName(regional, filename), req.Content)
	if err != nil {
		return nil, err
	}

	var previous string
	if existing, err := s.regionals.Get(ctx, regional); err == nil {
		previous = existing.FilePath
	} else if errors.GetCode(err) != errors.CodeNotFound {
		return nil, err
	}

	statusColumn := strings.TrimSpace(req.StatusColumn)
	if statusColumn == "" {
		statusColumn = DefaultStatusColumn
	}
	record := &models.SpreadsheetFile{
		Regional:     regional,
		FilePath:     path,
		FileName:     filename,
		SheetName:    models.OptionalString(strings.TrimSpace(req.SheetName)),
		StatusColumn: models.OptionalString(statusColumn),
	}
	if err := s.regionals.Upsert(ctx, record); err != nil {
		return nil, err
	}
	s.removeReplaced(previous, path)

	s.logger.Info("stored spreadsheet %s for regional %s", path, regional)
	return &UploadResult{Target: regional, FileName: filename, FilePath: path, Replaced: previous != ""}, nil
}

// UploadEnel stores one of the named ENEL spreadsheets.
func (s *SpreadsheetService) UploadEnel(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	name := strings.TrimSpace(req.Target)
	if name == "" {
		return nil, errors.InvalidInput(`Parâmetro "spreadsheet_name" é obrigatório`)
	}
	if !IsRequiredSpreadsheet(name) {
		return nil, errors.InvalidInput("Nome de planilha inválido. Deve ser um dos: " + strings.Join(RequiredSpreadsheets, ", "))
	}
	filename, err := validateUpload(req)
	if err != nil {
		return nil, err
	}

	path, err := s.save(storedName("ENEL_"+enelFileID(name), filename), req.Content)
	if err != nil {
		return nil, err
	}

	var previous string
	if existing, err := s.enel.Get(ctx, name); err == nil {
		previous = existing.FilePath
	} else if errors.GetCode(err) != errors.CodeNotFound {
		return nil, err
	}

	record := &models.EnelSpreadsheet{
		SpreadsheetName: name,
		FilePath:        path,
		FileName:        filename,
		SheetName:       models.OptionalString(strings.TrimSpace(req.SheetName)),
		StatusColumn:    models.OptionalString(strings.TrimSpace(req.StatusColumn)),
	}
	if err := s.enel.Upsert(ctx, record); err != nil {
		return nil, err
	}
	s.removeReplaced(previous, path)

	s.logger.Info("stored ENEL spreadsheet %s as %s", name, path)
	return &UploadResult{Target: name, FileName: filename, FilePath: path, Replaced: previous != ""}, nil
}

// save writes content to a temporary file and renames it into place so a
// failed upload never leaves a truncated spreadsheet behind.
func (s *SpreadsheetService) save(name string, content io.Reader) (string, error) {
	if content == nil {
		return "", errors.InvalidInput("Nenhum arquivo enviado")
	}
	final := filepath.Join(s.dir, name)
	if rel, err := filepath.Rel(s.dir, final); err != nil || rel != filepath.Base(final) {
		return "", errors.InvalidInput("Nome de arquivo inválido")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create spreadsheets directory")
	}

	tmp := filepath.Join(s.dir, ".upload-"+uuid.NewString())
	f, err := os.Create(tmp)
	if err != nil {
		return "", errors.Wrap(err, "failed to create upload file")
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", errors.Wrap(err, "failed to write upload")
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", errors.Wrap(err, "failed to write upload")
	}

	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return "", errors.Wrap(err, "failed to store upload")
	}
	return final, nil
}

func (s *SpreadsheetService) removeReplaced(previous, current string) {
	if previous == "" || previous == current {
		return
	}
	if err := os.Remove(previous); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove replaced file %s: %v", previous, err)
	}
}

// ListRegional returns every regional upload.
func (s *SpreadsheetService) ListRegional(ctx context.Context) ([]models.SpreadsheetFile, error) {
	return s.regionals.List(ctx)
}

// GetRegional returns the upload of one regional.
func (s *SpreadsheetService) GetRegional(ctx context.Context, regional string) (*models.SpreadsheetFile, error) {
	return s.regionals.Get(ctx, strings.ToUpper(strings.TrimSpace(regional)))
}

// DeleteRegional removes the record and the stored file of a regional.
func (s *SpreadsheetService) DeleteRegional(ctx context.Context, regional string) error {
	regional = strings.ToUpper(strings.TrimSpace(regional))
	existing, err := s.regionals.Get(ctx, regional)
	if err != nil {
		return err
	}
	if err := s.regionals.Delete(ctx, regional); err != nil {
		return err
	}
	s.removeReplaced(existing.FilePath, "")
	return nil
}

// ListEnel returns every required ENEL spreadsheet with its upload state,
// in catalogue order.
func (s *SpreadsheetService) ListEnel(ctx context.Context) ([]models.EnelSpreadsheetStatus, error) {
	uploaded, err := s.enel.List(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]models.EnelSpreadsheet, len(uploaded))
	for _, sheet := range uploaded {
		byName[sheet.SpreadsheetName] = sheet
	}

	statuses := make([]models.EnelSpreadsheetStatus, 0, len(RequiredSpreadsheets))
	for _, name := range RequiredSpreadsheets {
		status := models.EnelSpreadsheetStatus{SpreadsheetName: name}
		if sheet, ok := byName[name]; ok {
			fileName := sheet.FileName
			uploadedAt := sheet.UploadedAt
			status.FileName = &fileName
			status.SheetName = sheet.SheetName
			status.StatusColumn = sheet.StatusColumn
			status.UploadedAt = &uploadedAt
			status.IsUploaded = true
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// GetEnel returns the upload record of an ENEL spreadsheet.
func (s *SpreadsheetService) GetEnel(ctx context.Context, name string) (*models.EnelSpreadsheet, error) {
	sheet, err := s.enel.Get(ctx, name)
	if errors.GetCode(err) == errors.CodeNotFound {
		return nil, errors.New(errors.CodeNotFound, fmt.Sprintf("Planilha não encontrada: %s", name))
	}
	return sheet, err
}
