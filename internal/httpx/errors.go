package httpx

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/videohub/internal/logging"
)

// APIError is a request-terminal error carrying the HTTP status and a
// user-safe message. Internal causes are logged, never returned to the client.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string { return e.Message }

func NewError(code int, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

var (
	ErrInvalidCredentials = NewError(http.StatusUnauthorized, "wrong credential")
	ErrUnauthorized       = NewError(http.StatusUnauthorized, "unauthorized request")
	ErrForbidden          = NewError(http.StatusForbidden, "forbidden")
	ErrDependency         = NewError(http.StatusBadGateway, "upstream dependency failed")
)

func BadRequest(message string) *APIError {
	return NewError(http.StatusBadRequest, message)
}

func NotFound(message string) *APIError {
	return NewError(http.StatusNotFound, message)
}

func Conflict(message string) *APIError {
	return NewError(http.StatusConflict, message)
}

func Forbidden(message string) *APIError {
	return NewError(http.StatusForbidden, message)
}

func Internal(message string) *APIError {
	return NewError(http.StatusInternalServerError, message)
}

// ErrorHandler maps every error to the shared failure envelope. It replaces
// echo's default handler so raw driver errors never reach the client.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "internal server error"

	var apiErr *APIError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
		message = apiErr.Message
	case errors.As(err, &echoErr):
		code = echoErr.Code
		if s, ok := echoErr.Message.(string); ok {
			message = s
		} else {
			message = http.StatusText(code)
		}
	default:
		logging.FromContext(c.Request().Context()).Error("unhandled error", "error", err)
	}

	if writeErr := Fail(c, code, message); writeErr != nil {
		c.Logger().Error(writeErr)
	}
}
