// Package handler binds HTTP routes to services.
package handler

import (
	"time"

	"portfolio-api/internal/optional"
	"portfolio-api/internal/response"
	"portfolio-api/internal/result"
	"portfolio-api/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// respond writes the service outcome, or hands err to the error boundary.
func respond(c *gin.Context, res result.Result, err error) {
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Write(c, response.FromResult(res))
}

// bind decodes the body cached by validation.Handle. A decode failure here
// means the rules let through something the DTO cannot hold.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindBodyWith(dst, binding.JSON); err != nil {
		malformed(c)
		return false
	}
	return true
}

func malformed(c *gin.Context) {
	problem := validation.NewProblem([]validation.FieldError{
		{Field: validation.BodyField, Message: "Malformed request body"},
	})
	response.Write(c, response.BadRequest(problem))
}

// parseOptionalTimestamp keeps absence absent and parses a present value.
func parseOptionalTimestamp(v optional.Value[string]) (optional.Value[time.Time], error) {
	s, ok := v.Get()
	if !ok {
		return optional.None[time.Time](), nil
	}
	t, err := validation.ParseTimestamp(s)
	if err != nil {
		return optional.None[time.Time](), err
	}
	return optional.Some(t), nil
}
