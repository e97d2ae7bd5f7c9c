package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/jaramillohillary70-ai/pata-verde-app/internal/apperr"
	"github.com/jaramillohillary70-ai/pata-verde-app/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// respondError writes err as {message, code, error?, errors?} with the status of its code.
func respondError(c *fiber.Ctx, err error) error {
	typed := apperr.As(err)
	if typed == nil {
		typed = apperr.Wrap(apperr.CodeInternal, err, "unexpected error")
	}
	status := apperr.HTTPStatus(typed.Code())

	body := fiber.Map{
		"message": typed.Message(),
		"code":    typed.Code(),
	}
	if details := typed.Details(); details != nil {
		body["errors"] = details
	}
	if cause := typed.Unwrap(); cause != nil {
		body["error"] = cause.Error()
	}

	logger := middleware.Logger(c)
	event := logger.Debug()
	if status >= fiber.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).Str("code", string(typed.Code())).Msg("request failed")

	return c.Status(status).JSON(body)
}

// parseBody decodes the JSON body into dst. The body is treated as JSON whatever the content type
// header says; an empty body leaves dst untouched so field validation reports what is missing.
func parseBody(c *fiber.Ctx, dst any) error {
	body := c.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := c.App().Config().JSONDecoder(body, dst); err != nil {
		return apperr.Wrap(apperr.CodeInvalidInput, err, "Invalid request body")
	}
	return nil
}

// ErrorHandler renders errors that escape a handler, such as unknown routes or recovered panics.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"message": fiberErr.Message,
			"code":    fiberErrorName(fiberErr.Code),
		})
	}
	return respondError(c, err)
}

func fiberErrorName(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	}
	if status >= fiber.StatusInternalServerError {
		return string(apperr.CodeInternal)
	}
	return string(apperr.CodeInvalidInput)
}

// flexibleID accepts an identifier sent either as a JSON number or as a string and keeps its
// textual form for the services to validate. Whole numbers written in float or exponent form
// (1.0, 1e0) are reduced to their integer digits.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*f = ""
	case strings.HasPrefix(raw, `"`):
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*f = flexibleID(text)
	default:
		*f = flexibleID(wholeNumber(json.Number(raw)))
	}
	return nil
}

// wholeNumber returns n as plain integer digits when it holds an integral value, and n unchanged
// otherwise.
func wholeNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	v, err := n.Float64()
	if err != nil || v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return n.String()
	}
	return strconv.FormatInt(int64(v), 10)
}
