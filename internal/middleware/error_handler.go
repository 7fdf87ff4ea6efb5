package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"github.com/yukikurage/todo-api/internal/services"
	"github.com/yukikurage/todo-api/internal/validation"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// Known errors in match order. An empty message means the error's own text.
var errorMappings = []errorMapping{
	{validation.ErrMalformedBody, http.StatusBadRequest, apierrors.ErrCodeInvalidInput, "Invalid request body"},
	{services.ErrTodoNotFound, http.StatusNotFound, apierrors.ErrCodeNotFound, ""},
	{services.ErrUserNotFound, http.StatusNotFound, apierrors.ErrCodeNotFound, ""},
	{services.ErrEmailTaken, http.StatusConflict, apierrors.ErrCodeAlreadyExists, ""},
	{services.ErrUsernameTaken, http.StatusConflict, apierrors.ErrCodeAlreadyExists, ""},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, apierrors.ErrCodeInvalidCredentials, ""},
	{services.ErrInvalidRefreshToken, http.StatusUnauthorized, apierrors.ErrCodeInvalidToken, ""},
	{services.ErrAIServiceNotConfigured, http.StatusServiceUnavailable, apierrors.ErrCodeServiceUnavailable, ""},
	{services.ErrAINoTodosGenerated, http.StatusUnprocessableEntity, apierrors.ErrCodeOperationFailed, ""},
	{services.ErrAINoValidTodos, http.StatusUnprocessableEntity, apierrors.ErrCodeOperationFailed, ""},
}

// ErrorHandler renders the last error a handler attached with c.Error. In
// production unexpected errors are reported with a generic message.
func ErrorHandler(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, apiErr := toAPIError(err, production)
		if status >= http.StatusInternalServerError {
			zerolog.Ctx(c.Request.Context()).Error().Err(err).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Msg("Request failed")
		}

		apierrors.RespondWithError(c, status, apiErr)
	}
}

func toAPIError(err error, production bool) (int, *apierrors.APIError) {
	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, apierrors.NewAPIErrorWithDetails(apierrors.ErrCodeValidation, verr.Error(), verr.Fields)
	}

	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return http.StatusBadRequest, apiErr
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			message := m.message
			if message == "" {
				message = m.target.Error()
			}
			return m.status, apierrors.NewAPIError(m.code, message)
		}
	}

	if production {
		return http.StatusInternalServerError, apierrors.NewAPIError(apierrors.ErrCodeInternalError, "Internal server error")
	}
	return http.StatusInternalServerError, apierrors.NewAPIError(apierrors.ErrCodeInternalError, err.Error())
}

// Recovery turns a panic into the standard 500 envelope.
func Recovery(production bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		zerolog.Ctx(c.Request.Context()).Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")

		message := "Internal server error"
		if !production {
			if err, ok := recovered.(error); ok {
				message = err.Error()
			} else if s, ok := recovered.(string); ok {
				message = s
			}
		}
		apierrors.InternalError(c, message)
	})
}
