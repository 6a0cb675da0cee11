// Package httpapi exposes the local REST interface consumed by the admin
// panel and the totem kiosk. It is UI glue around the core: every handler
// loads through the store, calls a core operation and renders the result.
package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/treebjjjapan/manager-dojo-marques/config"
	"github.com/treebjjjapan/manager-dojo-marques/internal/checkin"
	"github.com/treebjjjapan/manager-dojo-marques/internal/store"
	"github.com/treebjjjapan/manager-dojo-marques/internal/syncdata"
	"github.com/treebjjjapan/manager-dojo-marques/pkg/logger"
)

// Server is the local HTTP API server.
type Server struct {
	echo   *echo.Echo
	cfg    *config.Config
	store  *store.Store
	engine *checkin.Engine
	codec  *syncdata.Codec
	log    *logger.Logger
}

// Dependencies contains everything the handlers need.
type Dependencies struct {
	Config *config.Config
	Store  *store.Store
	Engine *checkin.Engine
	Codec  *syncdata.Codec
	Logger *logger.Logger
}

// customValidator plugs go-playground/validator into echo's binding.
type customValidator struct {
	validate *validator.Validate
}

func (v *customValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// NewServer wires the echo instance, middleware and routes.
func NewServer(deps Dependencies) *Server {
	log := deps.Logger
	if log == nil {
		log = logger.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &customValidator{validate: validator.New()}

	s := &Server{
		echo:   e,
		cfg:    deps.Config,
		store:  deps.Store,
		engine: deps.Engine,
		codec:  deps.Codec,
		log:    log.With(logger.Component("httpapi")),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(s.requestLogger())

	s.routes()
	return s
}

// routes registers every endpoint.
func (s *Server) routes() {
	s.echo.GET("/healthz", s.health)
	s.echo.POST("/api/login", s.login)

	api := s.echo.Group("/api", s.requireSession())

	api.POST("/logout", s.logout)
	api.GET("/me", s.me)

	api.GET("/students", s.listStudents)
	api.POST("/students", s.createStudent)
	api.PUT("/students/:id", s.updateStudent)
	api.DELETE("/students/:id", s.deleteStudent)
	api.POST("/students/:id/promote", s.promoteStudent)

	api.GET("/fees", s.listFees)
	api.POST("/fees", s.createFee)
	api.POST("/fees/:id/pay", s.payFee)

	api.GET("/attendance", s.listAttendance)
	api.POST("/attendance", s.recordAttendance)

	api.POST("/checkin", s.totemCheckin)

	api.GET("/settings", s.getSettings)
	api.PUT("/settings", s.putSettings)

	api.POST("/sync/export", s.exportSnapshot)
	api.GET("/sync/export.png", s.exportSnapshotQR)
	api.POST("/sync/import", s.importSnapshot)

	api.GET("/dashboard", s.dashboard)
}

// Start blocks serving until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.HTTP.Host, s.cfg.HTTP.Port)
	s.log.Info("http server listening", logger.String("addr", addr))

	s.echo.Server.ReadTimeout = s.cfg.HTTP.ReadTimeout
	s.echo.Server.WriteTimeout = s.cfg.HTTP.WriteTimeout
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the root handler, used by the tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// health answers liveness probes.
func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.cfg.App.Version,
	})
}

// requestLogger logs one line per request through the structured logger.
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.log.Info("request",
				logger.String("method", v.Method),
				logger.String("uri", v.URI),
				logger.Int("status", v.Status),
				logger.Latency(v.Latency))
			return nil
		},
	})
}

// errJSON renders the uniform error payload.
func errJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]any{"error": msg})
}
