package handlers

import (
	"strconv"

	apierrors "github.com/apiedpiper/task-api/internal/errors"
	"github.com/gin-gonic/gin"
)

// parseID reads the :id path parameter. IDs that cannot name a stored record
// are treated as missing resources; the helper has already written the 404
// when it returns false.
func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c)
		return 0, false
	}
	return id, true
}
