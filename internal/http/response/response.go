package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/runegraph/runegraph-backend/internal/pkg/errors"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondMapped translates the error taxonomy to its HTTP status: validation
// 400, auth 401, admission 429, store/unknown 500.
func RespondMapped(c *gin.Context, err error) {
	switch {
	case pkgerrors.IsValidation(err):
		RespondError(c, http.StatusBadRequest, "validation_error", err)
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, "auth_error", err)
	case pkgerrors.IsAdmissionBlocked(err):
		RespondError(c, http.StatusTooManyRequests, "admission_blocked", err)
	case pkgerrors.IsStore(err):
		RespondError(c, http.StatusInternalServerError, "store_error", err)
	case errors.Is(err, pkgerrors.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
