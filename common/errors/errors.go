package errors

import (
	"errors"
	"fmt"
	"net/http"

	"catalog-service/common/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// BadRequest wraps err as a 400 with message.
func BadRequest(message string, err error) *Error {
	return New(http.StatusBadRequest, message, err)
}

// envelope mirrors models.Response with a null result.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Result  interface{} `json:"result"`
}

// ErrorMiddleware renders the last error recorded on the context as a failed
// envelope. Errors that are not *Error are reported as 400 with their own
// message.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		code := http.StatusBadRequest
		var appErr *Error
		if errors.As(err, &appErr) && appErr.Code != 0 {
			code = appErr.Code
		}

		logger.FromGin(c).Warn("Request failed", zap.Int("status", code), zap.Error(err))
		c.AbortWithStatusJSON(code, envelope{Success: false, Message: err.Error()})
	}
}

// Recovery turns a panic into a 400 envelope carrying the panic value.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		msg := fmt.Sprint(recovered)
		if err, ok := recovered.(error); ok {
			msg = err.Error()
		}
		logger.FromGin(c).Error("Recovered from panic", zap.String("panic", msg), zap.Stack("stack"))
		c.AbortWithStatusJSON(http.StatusBadRequest, envelope{Success: false, Message: msg})
	})
}
