package apperror

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Response is the JSON body of every error reply.
type Response struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	ErrorID string `json:"error_id"`
}

// HTTPErrorHandler returns an Echo error handler that renders errors as
// Response. Every reply carries a fresh error id; 5xx errors are logged with
// the same id so a client report can be matched to the server log.
func HTTPErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp := Response{
			Error:   ErrInternal.Code,
			Message: ErrInternal.Message,
			Status:  http.StatusInternalServerError,
			ErrorID: uuid.NewString(),
		}

		var appErr *Error
		var he *echo.HTTPError
		if errors.As(err, &appErr) {
			resp.Status = appErr.HTTPStatus
			resp.Error = appErr.Code
			resp.Message = appErr.Message
		} else if errors.As(err, &he) {
			resp.Status = he.Code
			resp.Error = codeForStatus(he.Code)
			if msg, ok := he.Message.(string); ok {
				resp.Message = msg
			} else {
				resp.Message = http.StatusText(he.Code)
			}
		}

		if resp.Status >= 500 {
			log.Error("request error",
				slog.String("error_id", resp.ErrorID),
				slog.Int("status", resp.Status),
				slog.String("path", c.Request().URL.Path),
				slog.String("error", err.Error()),
			)
		}

		if c.Request().Method == http.MethodHead {
			c.NoContent(resp.Status)
		} else {
			c.JSON(resp.Status, resp)
		}
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusRequestEntityTooLarge:
		return "payload_too_large"
	case http.StatusServiceUnavailable:
		return "unavailable"
	default:
		if status >= 500 {
			return "internal_error"
		}
		return "error"
	}
}
