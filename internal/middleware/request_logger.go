package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = fiber.HeaderXRequestID

// requestIDKey is the Locals key requestid stores the id under.
const requestIDKey = "requestid"

const accessLogFormat = "${locals:requestid} ${status} ${method} ${path} ${latency} ${ip} ${error}\n"

// RequestID reuses the incoming X-Request-ID or generates one, echoes it on the response and
// stores it in Locals.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     RequestIDHeader,
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	})
}

// AccessLog writes one line per request through the global zerolog logger. Errors returned by the
// chain are rendered by the app's error handler first, so the logged status is final.
func AccessLog() fiber.Handler {
	return logger.New(logger.Config{
		Format:        accessLogFormat,
		Output:        accessLogWriter{},
		DisableColors: true,
	})
}

// accessLogWriter forwards fiber access log lines to zerolog.
type accessLogWriter struct{}

func (accessLogWriter) Write(p []byte) (int, error) {
	log.Info().Str("component", "access").Msg(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// RequestContext attaches a zerolog logger tagged with the request id, method and path to the
// user context. It must run after RequestID.
func RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqLogger := log.With().
			Str("request_id", RequestIDFrom(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Logger()
		c.SetUserContext(reqLogger.WithContext(c.UserContext()))
		return c.Next()
	}
}

// RequestIDFrom returns the id stored by RequestID, or an empty string.
func RequestIDFrom(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}

// Logger returns the request scoped logger, or the global one outside RequestContext.
func Logger(c *fiber.Ctx) *zerolog.Logger {
	reqLogger := zerolog.Ctx(c.UserContext())
	if reqLogger.GetLevel() == zerolog.Disabled {
		return &log.Logger
	}
	return reqLogger
}
