package ui

import (
	"context"
	"net/http"
	"time"

	"mrportal/app"
	"mrportal/internal"
	"mrportal/models"
	"mrportal/ports"
	"mrportal/ui/middleware"

	"github.com/gin-gonic/gin"
)

var logger = internal.DefaultLogger.With("API")

// Services are the application services the API exposes.
type Services struct {
	Auth         *app.AuthService
	Users        *app.UserService
	Clients      ports.ClientRepository
	Spreadsheets *app.SpreadsheetService
	Enel         *app.EnelDataService
	Regional     *app.RegionalService
	Reports      *app.ReportService
}

// Options tune the HTTP layer.
type Options struct {
	CORSEnabled bool
	CORSOrigins []string
	// MaxUploadBytes rejects upload bodies larger than this with 413.
	// Zero disables the limit.
	MaxUploadBytes int64
}

// Server is the portal JSON API.
type Server struct {
	router   *gin.Engine
	services Services
	options  Options
	now      func() time.Time
}

// NewServer builds the router with every route registered.
func NewServer(services Services, options Options) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())
	if options.CORSEnabled {
		router.Use(middleware.CORS(options.CORSOrigins))
	}

	s := &Server{
		router:   router,
		services: services,
		options:  options,
		now:      time.Now,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	api.GET("/health", s.handleHealth)

	authRoutes := api.Group("/auth")
	authRoutes.POST("/login", s.handleLogin)
	authRoutes.POST("/forgot-password", s.handleForgotPassword)
	authRoutes.POST("/reset-password", s.handleResetPassword)

	protected := api.Group("", middleware.RequireAuth(s.services.Auth))

	users := protected.Group("/users", middleware.RequireRole(models.RoleDevMaster))
	users.GET("", s.handleListUsers)
	users.POST("", s.handleCreateUser)
	users.GET("/:email", s.handleGetUser)
	users.PUT("/:email", s.handleUpdateUser)
	users.DELETE("/:email", s.handleDeleteUser)

	protected.GET("/clients", s.handleListClients)
	protected.GET("/reports/:client_id", s.handleReportOverview)
	protected.GET("/reports/:client_id/data/:regional", s.handleRegionalData)
	protected.GET("/reports/:client_id/pdf", s.handleReportPDF)

	sheets := protected.Group("/spreadsheets")
	sheets.POST("/upload", s.handleUploadRegional)
	sheets.GET("/list", s.handleListRegional)
	sheets.GET("/:regional", s.handleGetRegional)
	sheets.DELETE("/:regional", s.handleDeleteRegional)

	enel := protected.Group("/enel-spreadsheets")
	enel.POST("/upload", s.handleUploadEnel)
	enel.GET("/list", s.handleListEnel)
	enel.GET("/required", s.handleRequiredEnel)
	enel.GET("/info/:name", s.handleEnelInfo)
	enel.GET("/data/:name", s.handleEnelData)
	enel.GET("/processes/:name", s.handleEnelProcesses)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": s.now().UTC().Format(time.RFC3339)})
}
