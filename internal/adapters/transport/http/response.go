package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	customErrors "github.com/Miraines/hoops-auth/internal/domain/auth/errors"
)

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Message string     `json:"message,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func respond(c *gin.Context, status int, data any, msg string) {
	c.JSON(status, envelope{Success: true, Data: data, Message: msg})
}

// errorResponse renders err by its domain kind. Internal causes are attached
// to the gin context for the request logger and never sent to the client.
func errorResponse(c *gin.Context, err error) *customErrors.Error {
	kind := customErrors.From(err)
	body := &errorBody{Code: kind.Code, Message: kind.Message}

	var ve *customErrors.ValidationError
	switch {
	case errors.As(err, &ve):
		body.Details = ve.Fields
	case kind == customErrors.ErrInvalidArgument:
		body.Message = err.Error()
	case kind == customErrors.ErrInternal:
		_ = c.Error(err)
	}

	c.JSON(kind.Status, envelope{Error: body})
	return kind
}
