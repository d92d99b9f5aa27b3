package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rkapoor/telecare-api/pkg/errors"
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

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// WriteError maps an application error to its HTTP status and renders the
// standard error envelope. Booking conflicts and forbidden actions are
// reported distinctly so a client can tell "pick another slot" from "you
// are not allowed to do this".
func WriteError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch errors.CodeOf(err) {
	case errors.ErrCodeNotFound:
		status, message = http.StatusNotFound, err.Error()
	case errors.ErrCodeBadRequest:
		status, message = http.StatusBadRequest, err.Error()
	case errors.ErrCodeUnauthorized:
		status, message = http.StatusUnauthorized, err.Error()
	case errors.ErrCodeForbidden:
		status, message = http.StatusForbidden, err.Error()
	case errors.ErrCodeSlotUnavailable:
		status, message = http.StatusConflict, err.Error()
	case errors.ErrCodeInvalidTransition:
		status, message = http.StatusUnprocessableEntity, err.Error()
	case errors.ErrCodeConflict:
		status, message = http.StatusConflict, err.Error()
	}

	c.JSON(status, NewErrorResponse(message))
}
