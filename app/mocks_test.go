package app

import (
	"context"

	"mrportal/domain/tabular"
	"mrportal/models"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*models.User)
	return users, args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, email string, update models.UserUpdate) error {
	return m.Called(ctx, email, update).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) List(ctx context.Context) ([]models.Client, error) {
	args := m.Called(ctx)
	clients, _ := args.Get(0).([]models.Client)
	return clients, args.Error(1)
}

func (m *MockClientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	args := m.Called(ctx, id)
	client, _ := args.Get(0).(*models.Client)
	return client, args.Error(1)
}

type MockSpreadsheetRepository struct {
	mock.Mock
}

func (m *MockSpreadsheetRepository) Get(ctx context.Context, regional string) (*models.SpreadsheetFile, error) {
	args := m.Called(ctx, regional)
	file, _ := args.Get(0).(*models.SpreadsheetFile)
	return file, args.Error(1)
}

func (m *MockSpreadsheetRepository) List(ctx context.Context) ([]models.SpreadsheetFile, error) {
	args := m.Called(ctx)
	files, _ := args.Get(0).([]models.SpreadsheetFile)
	return files, args.Error(1)
}

func (m *MockSpreadsheetRepository) Upsert(ctx context.Context, file *models.SpreadsheetFile) error {
	return m.Called(ctx, file).Error(0)
}

func (m *MockSpreadsheetRepository) Delete(ctx context.Context, regional string) error {
	return m.Called(ctx, regional).Error(0)
}

type MockEnelRepository struct {
	mock.Mock
}

func (m *MockEnelRepository) Get(ctx context.Context, name string) (*models.EnelSpreadsheet, error) {
	args := m.Called(ctx, name)
	sheet, _ := args.Get(0).(*models.EnelSpreadsheet)
	return sheet, args.Error(1)
}

func (m *MockEnelRepository) List(ctx context.Context) ([]models.EnelSpreadsheet, error) {
	args := m.Called(ctx)
	sheets, _ := args.Get(0).([]models.EnelSpreadsheet)
	return sheets, args.Error(1)
}

func (m *MockEnelRepository) Upsert(ctx context.Context, sheet *models.EnelSpreadsheet) error {
	return m.Called(ctx, sheet).Error(0)
}

type MockFileReader struct {
	mock.Mock
}

func (m *MockFileReader) ReadFile(path, sheetName string) (*tabular.Dataset, error) {
	args := m.Called(path, sheetName)
	ds, _ := args.Get(0).(*tabular.Dataset)
	return ds, args.Error(1)
}

type MockSheetSource struct {
	mock.Mock
}

func (m *MockSheetSource) FetchSheet(ctx context.Context, spreadsheetID, sheetName string) (*tabular.Dataset, error) {
	args := m.Called(ctx, spreadsheetID, sheetName)
	ds, _ := args.Get(0).(*tabular.Dataset)
	return ds, args.Error(1)
}

// mapLocator resolves assets from a fixed table.
type mapLocator map[string]string

func (l mapLocator) Locate(name string) (string, bool) {
	path, ok := l[name]
	return path, ok
}
