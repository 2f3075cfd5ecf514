package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/okra/internal/app"
	"github.com/alexanderramin/okra/internal/repository"
	"github.com/alexanderramin/okra/internal/service"
)

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.Last().Error())
		}
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "http_request", attrs...)
	}
}

type errorBody struct {
	Error  string       `json:"error"`
	Fields []fieldError `json:"fields,omitempty"`
}

type fieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// statusFor maps service and repository sentinels to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, repository.ErrAmbiguous):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func fieldErrors(err error) []fieldError {
	var list app.ValidationErrors
	if errors.As(err, &list) {
		out := make([]fieldError, 0, len(list))
		for _, e := range list {
			var ve *app.ValidationError
			if errors.As(e, &ve) {
				out = append(out, fieldError{Field: ve.Field, Message: ve.Message})
			} else {
				out = append(out, fieldError{Message: e.Error()})
			}
		}
		return out
	}
	var ve *app.ValidationError
	if errors.As(err, &ve) {
		return []fieldError{{Field: ve.Field, Message: ve.Message}}
	}
	return nil
}

func fail(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	body := errorBody{Error: err.Error(), Fields: fieldErrors(err)}
	if status == http.StatusInternalServerError {
		body.Error = "internal error"
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{Error: err.Error()})
}
