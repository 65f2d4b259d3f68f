package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-user-registration/pkg/apperror"
)

type APIResponse[T any] struct {
	Status    int               `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	RequestID string            `json:"request_id,omitempty"`
	Success   bool              `json:"success"`
	Message   string            `json:"message,omitempty"`
	Data      *T                `json:"data,omitempty"`
	Meta      interface{}       `json:"meta,omitempty"`
	Error     string            `json:"error,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

// Success writes a success envelope and returns it.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      &data,
		Meta:      meta,
	}
	ctx.JSON(status, resp)
	return resp
}

// Error writes an error envelope and returns it.
func Error[T any](ctx *gin.Context, status int, errMsg string, details map[string]string) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Error:     errMsg,
		Details:   details,
	}
	ctx.JSON(status, resp)
	return resp
}

// Abort writes an error envelope and stops the handler chain.
func Abort(ctx *gin.Context, status int, errMsg string) {
	Error[any](ctx, status, errMsg, nil)
	ctx.Abort()
}

// StatusFor maps an application error kind to its HTTP status.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes the envelope for err. Anything that is not an
// *apperror.Error is reported as an opaque internal error.
func FromError(ctx *gin.Context, err error) APIResponse[any] {
	ae, ok := apperror.As(err)
	if !ok {
		return Error[any](ctx, http.StatusInternalServerError, apperror.InternalMessage, nil)
	}
	return Error[any](ctx, StatusFor(ae.Kind), ae.PublicMessage(), ae.Details)
}
