// @title dragonwatch API
// @version 1.0
// @description Status API of the OneDragon watchdog

// @BasePath /

package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	cfgstore "github.com/dragonwatch/dragonwatch/config/store"
	"github.com/dragonwatch/dragonwatch/http/errorhandler"
	"github.com/dragonwatch/dragonwatch/http/handler"
	"github.com/dragonwatch/dragonwatch/http/handler/api"
	httplog "github.com/dragonwatch/dragonwatch/http/log"
	mwlog "github.com/dragonwatch/dragonwatch/http/middleware/log"
	"github.com/dragonwatch/dragonwatch/http/validator"
	"github.com/dragonwatch/dragonwatch/log"
	"github.com/dragonwatch/dragonwatch/prometheus"
	"github.com/dragonwatch/dragonwatch/psutil"
	"github.com/dragonwatch/dragonwatch/report"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger" // echo-swagger middleware

	// Expose the API docs
	_ "github.com/dragonwatch/dragonwatch/docs"
)

type Config struct {
	Logger     log.Logger
	LogBuffer  log.BufferWriter
	Prometheus prometheus.Reader
	Reporter   report.Reporter
	Notifier   api.ReportNotifier
	Watchdog   api.StatusReader
	Probe      psutil.Util
	Processes  []string
	Config     cfgstore.Store
	ID         string
	Name       string
	CreatedAt  time.Time
}

type Server interface {
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

type server struct {
	logger log.Logger

	handler struct {
		about  *api.AboutHandler
		status *handler.StatusHandler
	}

	metrics bool

	v1handler struct {
		log      *api.LogHandler
		report   *api.ReportHandler
		process  *api.ProcessHandler
		watchdog *api.WatchdogHandler
		config   *api.ConfigHandler
	}

	middleware struct {
		log echo.MiddlewareFunc
	}

	router *echo.Echo
}

// NewServer returns the router of the status API. A reporter is required,
// the routes of all other components are only added if they are provided.
func NewServer(config Config) (Server, error) {
	if config.Reporter == nil {
		return nil, fmt.Errorf("no reporter provided")
	}

	s := &server{
		logger: config.Logger,
	}

	if s.logger == nil {
		s.logger = log.New("HTTP")
	}

	if config.CreatedAt.IsZero() {
		config.CreatedAt = time.Now()
	}

	s.handler.about = api.NewAbout(config.ID, config.Name, config.CreatedAt, config.Processes)
	s.handler.status = handler.NewStatus(config.Prometheus)
	s.metrics = config.Prometheus != nil

	s.v1handler.log = api.NewLog(config.LogBuffer)
	s.v1handler.report = api.NewReport(config.Reporter, config.Notifier)
	s.v1handler.process = api.NewProcess(config.Processes, config.Probe)

	if config.Watchdog != nil {
		s.v1handler.watchdog = api.NewWatchdog(config.Watchdog)
	}

	if config.Config != nil {
		s.v1handler.config = api.NewConfig(config.Config)
	}

	s.middleware.log = mwlog.NewWithConfig(mwlog.Config{
		Logger:    s.logger,
		SkipPaths: []string{"/ping", "/metrics"},
	})

	s.router = echo.New()
	s.router.HTTPErrorHandler = errorhandler.HTTPErrorHandler
	s.router.Validator = validator.New()
	s.router.Use(s.middleware.log)
	s.router.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			rows := strings.Split(string(stack), "\n")
			s.logger.Error().WithField("stack", rows).Log("recovered from a panic")
			return nil
		},
	}))

	s.router.HideBanner = true
	s.router.HidePort = true

	s.router.Logger.SetOutput(httplog.NewWrapper(s.logger))

	s.setRoutes()

	return s, nil
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *server) setRoutes() {
	gzipMiddleware := middleware.GzipWithConfig(middleware.GzipConfig{
		Level:     1,
		MinLength: 1000,
	})

	// API router group
	api := s.router.Group("/api")

	api.GET("", s.handler.about.About)

	// Swagger API documentation router group
	doc := s.router.Group("/api/swagger/*")
	doc.Use(gzipMiddleware)
	doc.GET("", echoSwagger.WrapHandler)

	// Prometheus metrics
	if s.metrics {
		s.router.GET("/metrics", s.handler.status.Metrics)
	}

	// Health check
	s.router.GET("/ping", s.handler.status.Ping)

	v1 := api.Group("/v1")
	v1.Use(gzipMiddleware)

	v1.GET("/log", s.v1handler.log.Log)

	v1.GET("/report", s.v1handler.report.Get)
	v1.POST("/report", s.v1handler.report.Run)

	v1.GET("/process", s.v1handler.process.List)

	if s.v1handler.watchdog != nil {
		v1.GET("/watchdog", s.v1handler.watchdog.Status)
	}

	if s.v1handler.config != nil {
		v1.GET("/config", s.v1handler.config.Get)
		v1.PUT("/config", s.v1handler.config.Set)
		v1.GET("/config/reload", s.v1handler.config.Reload)
	}
}
