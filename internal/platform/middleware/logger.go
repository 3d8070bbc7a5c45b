package middleware

import (
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/8agana/photography-mind/internal/platform/appctx"
)

// Logger logs one line per request. Health probes are skipped to keep the
// kubelet from flooding the logs.
func Logger(logger ectologger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			req := c.Request()
			res := c.Response()
			start := time.Now()
			if err = next(c); err != nil {
				c.Error(err)
			}

			if req.URL.Path == "/api/v1/health/live" || req.URL.Path == "/api/v1/health/ready" {
				return nil
			}

			ctx := req.Context()
			entry := logger.WithContext(ctx).WithFields(map[string]interface{}{
				"request_id":    appctx.GetRequestID(ctx),
				"method":        req.Method,
				"route":         c.Path(),
				"uri":           req.RequestURI,
				"status":        res.Status,
				"remote_ip":     c.RealIP(),
				"user_agent":    req.UserAgent(),
				"response_time": time.Since(start),
				"response_size": res.Size,
			})

			switch {
			case res.Status >= 500:
				entry.Error("Request")
			case res.Status >= 400:
				entry.Warn("Request")
			default:
				entry.Info("Request")
			}

			return nil
		}
	}
}
