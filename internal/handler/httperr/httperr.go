package httperr

import (
	"github.com/gin-gonic/gin"
)

// Response is the error envelope every endpoint returns. Detail carries
// machine-readable fields next to the message (min_quantity, current_total).
type Response struct {
	Status int            `json:"-"`
	Error  string         `json:"error"`
	Detail map[string]any `json:"detail,omitempty"`
}

func New(status int, msg string) Response {
	return Response{Status: status, Error: msg}
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail map[string]any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := New(status, msg)
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
