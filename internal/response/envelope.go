// Package response defines the JSON envelope every endpoint answers with.
package response

import (
	"encoding/json"
	"net/http"
	"time"

	"portfolio-api/internal/result"

	"github.com/gin-gonic/gin"
)

// TimestampLayout matches ISO-8601 UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

type Envelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
	Timestamp  string `json:"timestamp"`
}

type Option func(*Envelope)

func WithMessage(msg string) Option {
	return func(e *Envelope) {
		if msg != "" {
			e.Message = msg
		}
	}
}

func WithStatus(code int) Option {
	return func(e *Envelope) {
		if code != 0 {
			e.StatusCode = code
		}
	}
}

// now is swapped in tests.
var now = time.Now

func build(success bool, status int, message string, data any, opts []Option) Envelope {
	e := Envelope{
		Success:    success,
		StatusCode: status,
		Message:    message,
		Data:       data,
	}
	for _, opt := range opts {
		opt(&e)
	}
	e.Timestamp = now().UTC().Format(TimestampLayout)
	return e
}

func Success(data any, opts ...Option) Envelope {
	return build(true, http.StatusOK, "Success", data, opts)
}

func Created(data any, opts ...Option) Envelope {
	return build(true, http.StatusCreated, "Created", data, opts)
}

func Accepted(data any, opts ...Option) Envelope {
	return build(true, http.StatusAccepted, "Accepted", data, opts)
}

func BadRequest(data any, opts ...Option) Envelope {
	return build(false, http.StatusBadRequest, "Bad Request", data, opts)
}

func Unauthorized(data any, opts ...Option) Envelope {
	return build(false, http.StatusUnauthorized, "Unauthorized", data, opts)
}

func Forbidden(data any, opts ...Option) Envelope {
	return build(false, http.StatusForbidden, "Forbidden", data, opts)
}

func NotFound(data any, opts ...Option) Envelope {
	return build(false, http.StatusNotFound, "Not Found", data, opts)
}

func Error(data any, opts ...Option) Envelope {
	return build(false, http.StatusInternalServerError, "Internal Server Error", data, opts)
}

// FromResult converts a service outcome into its wire envelope.
func FromResult(r result.Result) Envelope {
	msg := WithMessage(r.Message)

	switch r.Kind {
	case result.KindOK:
		return Success(r.Data, msg)
	case result.KindCreated:
		return Created(r.Data, msg)
	case result.KindAccepted:
		return Accepted(r.Data, msg)
	case result.KindBadRequest:
		return BadRequest(r.Data, msg)
	case result.KindUnauthorized:
		return Unauthorized(r.Data, msg)
	case result.KindForbidden:
		return Forbidden(r.Data, msg)
	case result.KindNotFound:
		return NotFound(r.Data, msg)
	default:
		return Error(r.Data, msg)
	}
}

// Write serializes the envelope using its status code as the HTTP status.
func Write(c *gin.Context, e Envelope) {
	c.JSON(e.StatusCode, e)
}

// Abort writes the envelope and stops the remaining handler chain.
func Abort(c *gin.Context, e Envelope) {
	c.AbortWithStatusJSON(e.StatusCode, e)
}

// WriteHTTP is Write for plain net/http handlers.
func WriteHTTP(w http.ResponseWriter, e Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}
