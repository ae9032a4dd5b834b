package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mrportal/adapters/db"
	"mrportal/adapters/excel"
	"mrportal/app"
	"mrportal/internal/auth"
	"mrportal/internal/migration"
	"mrportal/internal/report"
	"mrportal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server *Server
	users  *app.UserService
	admin  string
	viewer string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithOptions(t, Options{CORSEnabled: true, CORSOrigins: []string{"http://localhost:5173"}})
}

func newTestEnvWithOptions(t *testing.T, options Options) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	root := t.TempDir()

	conn, err := db.Open(db.DriverSQLite, filepath.Join(root, "portal.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, migration.NewRunner().Run(context.Background(), conn))

	userRepo := db.NewUserRepository(conn)
	clientRepo := db.NewClientRepository(conn)
	enelRepo := db.NewEnelSpreadsheetRepository(conn)
	regionalRepo := db.NewSpreadsheetRepository(conn)
	reader := excel.FileReader{}

	tokens := auth.NewTokenManager("test-secret", "mrportal-test", time.Hour)
	enel := app.NewEnelDataService(enelRepo, reader)
	reportConfig := &models.ReportConfig{DefaultYears: []int{2024, 2025}}

	services := Services{
		Auth:         app.NewAuthService(userRepo, tokens),
		Users:        app.NewUserService(userRepo),
		Clients:      clientRepo,
		Spreadsheets: app.NewSpreadsheetService(filepath.Join(root, "planilhas"), regionalRepo, enelRepo),
		Enel:         enel,
		Regional: app.NewRegionalService(func() (*models.ReportConfig, error) {
			return reportConfig, nil
		}, regionalRepo, reader, nil),
		Reports: app.NewReportService(clientRepo, enel, report.NewDirLocator(filepath.Join(root, "images"))),
	}
	server := NewServer(services, options)

	env := &testEnv{server: server, users: services.Users}
	env.admin = env.createAndLogin(t, "admin@mr.com.br", models.RoleDevMaster)
	env.viewer = env.createAndLogin(t, "leitor@mr.com.br", "analista")
	return env
}

func (e *testEnv) createAndLogin(t *testing.T, email, role string) string {
	t.Helper()
	_, err := e.users.Create(context.Background(), app.CreateUserRequest{Email: email, Nome: "Teste", Senha: "senha123", Role: role})
	require.NoError(t, err)

	rec := e.do(t, http.MethodPost, "/api/auth/login", "", jsonBody(t, map[string]string{"email": email, "senha": "senha123"}), "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) upload(t *testing.T, path, token string, fields map[string]string, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return e.do(t, http.MethodPost, path, token, body, w.FormDataContentType())
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp.Error
}

func TestHealthAndRequestID(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/health", "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/clients", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAuthentication(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		status int
		err    string
	}{
		{"missing token", http.MethodGet, "/api/clients", "", nil, http.StatusUnauthorized, "Token não fornecido"},
		{"bad token", http.MethodGet, "/api/clients", "nao-e-um-jwt", nil, http.StatusUnauthorized, "Token inválido ou expirado"},
		{"wrong role", http.MethodGet, "/api/users", env.viewer, nil, http.StatusForbidden, "Acesso negado. Role insuficiente."},
		{"wrong password", http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@mr.com.br", "senha": "x"}, http.StatusUnauthorized, "Credenciais inválidas"},
		{"missing password", http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@mr.com.br"}, http.StatusBadRequest, "Email e senha são obrigatórios"},
		{"reset with bad code", http.MethodPost, "/api/auth/reset-password", "", map[string]string{"email": "admin@mr.com.br", "totp_code": "abcdef", "new_password": "y"}, http.StatusBadRequest, "Código TOTP inválido"},
		{"reset unknown user", http.MethodPost, "/api/auth/reset-password", "", map[string]string{"email": "x@mr.com.br", "totp_code": "123456", "new_password": "y"}, http.StatusNotFound, "Usuário não encontrado"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body *bytes.Buffer
			contentType := ""
			if tt.body != nil {
				body = jsonBody(t, tt.body)
				contentType = "application/json"
			}
			rec := env.do(t, tt.method, tt.path, tt.token, body, contentType)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.err, errorOf(t, rec))
		})
	}

	rec := env.do(t, http.MethodPost, "/api/auth/forgot-password", "", jsonBody(t, map[string]string{"email": "ninguem@mr.com.br"}), "application/json")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), app.MsgResetInstructions)
}

func TestUserManagement(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/users", env.admin, jsonBody(t, app.CreateUserRequest{
		Email: "Novo@MR.com.br", Nome: "Novo", Senha: "abc123", Role: "analista",
	}), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Message    string `json:"message"`
		TOTPSecret string `json:"totp_secret"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Usuário criado com sucesso", created.Message)
	assert.NotEmpty(t, created.TOTPSecret)

	rec = env.do(t, http.MethodPost, "/api/users", env.admin, jsonBody(t, app.CreateUserRequest{
		Email: "novo@mr.com.br", Nome: "Outro", Senha: "x", Role: "analista",
	}), "application/json")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Email já existe", errorOf(t, rec))

	rec = env.do(t, http.MethodPut, "/api/users/novo@mr.com.br", env.admin, jsonBody(t, map[string]string{"nome": "Novo Nome"}), "application/json")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/users", env.admin, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Novo Nome")
	assert.NotContains(t, rec.Body.String(), "senha_hash")
	assert.NotContains(t, rec.Body.String(), created.TOTPSecret)

	rec = env.do(t, http.MethodDelete, "/api/users/novo@mr.com.br", env.admin, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/users/novo@mr.com.br", env.admin, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Usuário não encontrado", errorOf(t, rec))
}

const alvarasCSV = "Status,ano Acionamento,Macroprocesso,Microprocesso\n" +
	"Concluído,2024,Legalização,Alvará\n" +
	"Cancelado,2025,Legalização,Alvará\n" +
	"Em análise,2025,Regularização,\n"

func TestEnelSpreadsheetFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/enel-spreadsheets/data/"+url.PathEscape(app.SheetAlvarasCE), env.viewer, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, errorOf(t, rec), "ainda não foi enviada")

	rec = env.upload(t, "/api/enel-spreadsheets/upload", env.viewer, map[string]string{"spreadsheet_name": "Desconhecida"}, "a.csv", alvarasCSV)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.upload(t, "/api/enel-spreadsheets/upload", env.viewer, map[string]string{"spreadsheet_name": app.SheetAlvarasCE}, "alvarás ceará.csv", alvarasCSV)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Planilha enviada com sucesso")

	rec = env.do(t, http.MethodGet, "/api/enel-spreadsheets/data/"+url.PathEscape(app.SheetAlvarasCE)+"?years=2024,2025", env.viewer, nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var data struct {
		TotalDemandado struct {
			Total int `json:"total"`
		} `json:"total_demandado"`
		Cancelados struct {
			Total int `json:"total"`
		} `json:"cancelados"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Equal(t, 3, data.TotalDemandado.Total)
	assert.Equal(t, 1, data.Cancelados.Total)

	rec = env.do(t, http.MethodGet, "/api/enel-spreadsheets/data/"+url.PathEscape(app.SheetAlvarasCE)+"?status_column=Situacao", env.viewer, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"warning"`)

	rec = env.do(t, http.MethodGet, "/api/enel-spreadsheets/data/"+url.PathEscape(app.SheetAlvarasCE)+"?years=abc", env.viewer, nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/enel-spreadsheets/processes/"+url.PathEscape(app.SheetAlvarasCE), env.viewer, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Não informado")

	rec = env.do(t, http.MethodGet, "/api/enel-spreadsheets/list", env.viewer, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_uploaded":true`)

	rec = env.do(t, http.MethodGet, "/api/enel-spreadsheets/info/"+url.PathEscape(app.SheetCTEEP), env.viewer, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Planilha não encontrada: "+app.SheetCTEEP, errorOf(t, rec))

	rec = env.do(t, http.MethodGet, "/api/enel-spreadsheets/required", env.viewer, nil, "")
	assert.Contains(t, rec.Body.String(), "required_spreadsheets")
}

func TestRegionalSpreadsheets(t *testing.T) {
	env := newTestEnv(t)

	rec := env.upload(t, "/api/spreadsheets/upload", env.viewer, map[string]string{"regional": "ce"}, "base.pdf", "x")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.upload(t, "/api/spreadsheets/upload", env.viewer, map[string]string{"regional": "ce"}, "", "")
	assert.Equal(t, "Nenhum arquivo enviado", errorOf(t, rec))

	csv := "Relatório Status detalhado,Acionados em 2024,Acionados em 2025,TOTAL,Percentual\nConcluído,3,4,7,100%\n"
	rec = env.upload(t, "/api/spreadsheets/upload", env.viewer, map[string]string{"regional": "ce"}, "base.csv", csv)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/reports/enel/data/CE", env.viewer, nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"source":"upload"`)

	rec = env.do(t, http.MethodGet, "/api/reports/enel/data/MG", env.viewer, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Configuração não encontrada para regional MG", errorOf(t, rec))

	rec = env.do(t, http.MethodGet, "/api/spreadsheets/list", env.viewer, nil, "")
	assert.Contains(t, rec.Body.String(), "CE_base.csv")

	rec = env.do(t, http.MethodDelete, "/api/spreadsheets/CE", env.viewer, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/spreadsheets/CE", env.viewer, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadSizeLimit(t *testing.T) {
	env := newTestEnvWithOptions(t, Options{MaxUploadBytes: 1 << 20})

	big := strings.Repeat("Concluído,2024\n", 100_000)
	rec := env.upload(t, "/api/spreadsheets/upload", env.viewer, map[string]string{"regional": "CE"}, "base.csv", "Status,Ano\n"+big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "Arquivo excede o limite de 1 MB", errorOf(t, rec))

	rec = env.upload(t, "/api/enel-spreadsheets/upload", env.viewer, map[string]string{"spreadsheet_name": app.SheetCTEEP}, "base.csv", "Status,Ano\n"+big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = env.upload(t, "/api/spreadsheets/upload", env.viewer, map[string]string{"regional": "CE"}, "base.csv", "Status,Ano\nConcluído,2024\n")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.upload(t, "/api/spreadsheets/upload", env.viewer, map[string]string{"regional": "../fora"}, "base.csv", "Status\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReports(t *testing.T) {
	env := newTestEnv(t)
	rec := env.upload(t, "/api/enel-spreadsheets/upload", env.viewer, map[string]string{"spreadsheet_name": app.SheetAlvarasCE}, "alvaras.csv", alvarasCSV)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/clients", env.viewer, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"enel"`)

	rec = env.do(t, http.MethodGet, "/api/reports/enel?years=2024,2025", env.viewer, nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "table_data")

	rec = env.do(t, http.MethodGet, "/api/reports/desconhecido", env.viewer, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	comments := url.QueryEscape(`[{"page":"Visão Geral - Alvarás de Funcionamento","text":"**Destaque** do mês"}]`)
	query := "?report_month=3&report_year=2025&report_year_start=2024&report_year_end=2025&comments=" + comments

	rec = env.do(t, http.MethodGet, "/api/reports/enel/pdf"+query+"&format=html", env.viewer, nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, rec.Body.String(), "<strong>Destaque</strong>")
	assert.Contains(t, rec.Body.String(), "Abril")

	rec = env.do(t, http.MethodGet, "/api/reports/enel/pdf"+query, env.viewer, nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="relatorio-enel-2025-04.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = env.do(t, http.MethodGet, "/api/reports/enel/pdf?preview=true&report_month=99", env.viewer, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Disposition"), "inline;"))
}
