package handler

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/multiclinicas/clinic-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

// Error records err on the context and aborts; the error middleware renders
// the response body.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// BindError wraps a request binding failure so it surfaces as a 400.
func BindError(c *gin.Context, err error) {
	Error(c, apperrors.BadRequest(err.Error(), err))
}
