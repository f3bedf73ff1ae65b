package middleware

import (
	"fmt"
	"runtime/debug"
	"strings"

	"portfolio-api/internal/logger"
	"portfolio-api/internal/response"

	"github.com/gin-gonic/gin"
)

// ErrorDetail is the data of a 500 envelope outside production. Stack is
// only filled for panics, where it points at the panicking frame.
type ErrorDetail struct {
	Message string   `json:"message"`
	Stack   []string `json:"stack,omitempty"`
}

func errorData(production bool, err error, stack []byte) any {
	if production {
		return nil
	}
	return ErrorDetail{Message: err.Error(), Stack: stackLines(stack)}
}

func stackLines(stack []byte) []string {
	lines := []string{}
	for _, line := range strings.Split(string(stack), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Recovery turns a panic into a 500 envelope and keeps the process alive.
func Recovery(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("%v", rec)
			}
			stack := debug.Stack()

			logger.Error("panic recovered", map[string]any{
				"error":  err.Error(),
				"method": c.Request.Method,
				"path":   c.Request.URL.Path,
				"stack":  string(stack),
			})

			if c.Writer.Written() {
				c.Abort()
				return
			}
			response.Abort(c, response.Error(errorData(production, err, stack)))
		}()

		c.Next()
	}
}

// ErrorBoundary answers 500 for errors pushed with c.Error when no handler
// has written a response.
func ErrorBoundary(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		for _, e := range c.Errors {
			logger.Error("request failed", map[string]any{
				"error":  e.Err.Error(),
				"method": c.Request.Method,
				"path":   c.Request.URL.Path,
			})
		}

		if c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		response.Write(c, response.Error(errorData(production, err, nil)))
	}
}
