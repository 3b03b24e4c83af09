package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"autoparts-backoffice/internal/dto"
	"autoparts-backoffice/internal/repository"
	"autoparts-backoffice/internal/service"
)

// statusCodeFor traduce los errores de negocio al código HTTP del sobre.
func statusCodeFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrOrderAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidItem),
		errors.Is(err, service.ErrInvalidTotals),
		errors.Is(err, service.ErrMissingActingAdmin),
		errors.Is(err, service.ErrNotDistributor),
		errors.Is(err, service.ErrNotApproved),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrEmptyPatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(statusCodeFor(err), dto.Fail(err.Error()))
}

func ok(c *gin.Context, code int, data any) {
	c.JSON(code, dto.OK(data))
}
