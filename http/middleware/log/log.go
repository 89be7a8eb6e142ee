// Package log implements a middleware that logs each request
package log

import (
	"net/http"
	"time"

	"github.com/dragonwatch/dragonwatch/log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Config struct {
	// Skipper defines a function to skip middleware.
	Skipper middleware.Skipper
	Logger  log.Logger

	// SkipPaths are request paths that are never logged, e.g. health checks.
	SkipPaths []string
}

// NewWithConfig returns a middleware for logging HTTP requests. Failed
// requests (status 400 and above) are logged as warning together with
// the error of the handler, all others with debug level.
func NewWithConfig(config Config) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = middleware.DefaultSkipper
	}

	if config.Logger == nil {
		config.Logger = log.New("HTTP")
	}

	skip := make(map[string]struct{}, len(config.SkipPaths))
	for _, path := range config.SkipPaths {
		skip[path] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			if _, ok := skip[req.URL.Path]; ok || config.Skipper(c) {
				return next(c)
			}

			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			res := c.Response()

			path := req.URL.Path
			if len(req.URL.RawQuery) != 0 {
				path += "?" + req.URL.RawQuery
			}

			logger := config.Logger.WithFields(log.Fields{
				"client":      c.RealIP(),
				"method":      req.Method,
				"path":        path,
				"route":       c.Path(),
				"status":      res.Status,
				"status_text": http.StatusText(res.Status),
				"size_bytes":  res.Size,
				"latency_ms":  time.Since(start).Milliseconds(),
				"user_agent":  req.Header.Get("User-Agent"),
			})

			if res.Status < http.StatusBadRequest {
				logger.Debug().Log("")
				return nil
			}

			if err != nil {
				logger = logger.WithError(err)
			}

			logger.Warn().Log("")

			return nil
		}
	}
}
