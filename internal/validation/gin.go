package validation

import (
	"bytes"
	"io"

	"portfolio-api/internal/response"

	"github.com/gin-gonic/gin"
)

// Handle validates the request against rules. On failure it aborts with a
// 400 envelope; the next handler never runs. The body is cached under
// gin.BodyBytesKey so handlers can bind it again with ShouldBindBodyWith.
func Handle(rules ...Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := readBody(c)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		errs := Validate(Input{Body: body, Param: c.Param}, rules...)
		if len(errs) > 0 {
			response.Abort(c, response.BadRequest(NewProblem(errs)))
			return
		}

		c.Next()
	}
}

func readBody(c *gin.Context) ([]byte, error) {
	if cached, ok := c.Get(gin.BodyBytesKey); ok {
		if b, ok := cached.([]byte); ok {
			return b, nil
		}
	}

	if c.Request.Body == nil {
		return nil, nil
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	c.Set(gin.BodyBytesKey, body)
	return body, nil
}
