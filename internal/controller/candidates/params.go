package candidates

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func uuidParam(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid candidate id %q", c.Param("id"))
	}
	return id, nil
}
