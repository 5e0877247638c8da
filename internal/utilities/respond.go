package utilities

import (
	"github.com/gin-gonic/gin"

	"InterviewDesk-backend/internal/apperr"
)

// RespondError writes a domain error as JSON with the status code mapped
// from its kind (400 validation, 404 not found, 409 conflict, 500 otherwise).
func RespondError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), ErrorResponse{
		Error: err.Error(),
	})
}
