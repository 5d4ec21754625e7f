package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusCoder is implemented by errors that know which HTTP status they map to
type StatusCoder interface {
	HTTPStatus() int
	Error() string
}

// Error sends a standardized error response
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// Success sends a standardized success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"data": data})
}

// FromError maps a service error to its HTTP status, falling back to 500 for
// unexpected faults so store failures never leak internals to the caller
func FromError(c *gin.Context, err error) {
	if coder, ok := err.(StatusCoder); ok {
		Error(c, coder.HTTPStatus(), coder.Error())
		return
	}
	Error(c, http.StatusInternalServerError, "Internal server error")
}
