package errors

import (
	"net/http"

	"github.com/apiedpiper/task-api/internal/dto"
	"github.com/gin-gonic/gin"
)

// Envelope messages. Every error response carries one of these in the
// message field and the detail (or null) in data.
const (
	MsgBadRequest  = "Bad Request"
	MsgNotFound    = "Not Found"
	MsgNoContent   = "No Content"
	MsgServerError = "Server Error"
)

// BadRequest sends a 400 response with the given detail.
func BadRequest(c *gin.Context, detail interface{}) {
	c.JSON(http.StatusBadRequest, dto.Envelope{Message: MsgBadRequest, Data: detail})
}

// NotFound sends a 404 response with null data.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.Envelope{Message: MsgNotFound, Data: nil})
}

// ServerError sends a 500 response with the given detail.
func ServerError(c *gin.Context, detail interface{}) {
	c.JSON(http.StatusInternalServerError, dto.Envelope{Message: MsgServerError, Data: detail})
}
