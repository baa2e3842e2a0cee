package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workbench/internal/faults"
)

// StatusFor maps an error to the HTTP status of its fault kind.
func StatusFor(err error) int {
	switch faults.Kind(err) {
	case faults.KindStateForbidden:
		return http.StatusForbidden
	case faults.KindNotFound:
		return http.StatusNotFound
	case faults.KindAssemblyConflict:
		return http.StatusConflict
	case faults.KindValidation:
		return http.StatusUnprocessableEntity
	case faults.KindExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := StatusFor(err)
	c.AbortWithStatusJSON(status, GenericResponse{StatusCode: status, Detail: err.Error()})
}

func abortWithStatus(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, GenericResponse{StatusCode: status, Detail: detail})
}

func ok(detail string) GenericResponse {
	return GenericResponse{StatusCode: http.StatusOK, Detail: detail}
}
