package ui

import (
	stderrors "errors"
	"net/http"

	"careerpath/domain/core"
	"careerpath/internal/errors"
	"careerpath/internal/normalize"

	"github.com/gin-gonic/gin"
)

// statusFor maps AppError codes, then bare domain errors, to HTTP statuses
func statusFor(err error) (int, string) {
	code := errors.GetCode(err)
	switch code {
	case errors.CodeIncompleteInput:
		return http.StatusUnprocessableEntity, code
	case errors.CodeInvalidInput:
		return http.StatusBadRequest, code
	case errors.CodeNotFound:
		return http.StatusNotFound, code
	case errors.CodeNotReady:
		return http.StatusServiceUnavailable, code
	case errors.CodeModelInvocation, errors.CodeInternalError, errors.CodeDatabaseError, errors.CodeDatasetError:
		return http.StatusInternalServerError, code
	}

	switch {
	case stderrors.Is(err, core.ErrSessionNotFound), stderrors.Is(err, core.ErrPredictionNotFound):
		return http.StatusNotFound, errors.CodeNotFound
	case stderrors.Is(err, core.ErrIncompleteInput):
		return http.StatusUnprocessableEntity, errors.CodeIncompleteInput
	case core.IsInputError(err):
		return http.StatusBadRequest, errors.CodeInvalidInput
	case stderrors.Is(err, core.ErrNotReady):
		return http.StatusServiceUnavailable, errors.CodeNotReady
	default:
		return http.StatusInternalServerError, errors.CodeInternalError
	}
}

func (s *Server) respondError(c *gin.Context, err error) {
	status, code := statusFor(err)
	body := gin.H{"error": err.Error(), "code": code}

	var incomplete *normalize.IncompleteInputError
	if stderrors.As(err, &incomplete) {
		body["missing"] = incomplete.Missing
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("[API] %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, body)
}
