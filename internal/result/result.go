// Package result is the outcome type returned by services. It carries the
// kind of outcome and its payload; the transport turns it into an envelope.
package result

type Kind int

const (
	KindOK Kind = iota
	KindCreated
	KindAccepted
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindCreated:
		return "created"
	case KindAccepted:
		return "accepted"
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Result is either a success (Ok, Created, Accepted) with Data, or a
// failure kind with optional detail in Data.
type Result struct {
	Kind    Kind
	Message string
	Data    any
}

func (r Result) IsSuccess() bool {
	return r.Kind == KindOK || r.Kind == KindCreated || r.Kind == KindAccepted
}

func Ok(data any, message string) Result {
	return Result{Kind: KindOK, Message: message, Data: data}
}

func Created(data any, message string) Result {
	return Result{Kind: KindCreated, Message: message, Data: data}
}

func Accepted(data any, message string) Result {
	return Result{Kind: KindAccepted, Message: message, Data: data}
}

func NotFound(message string) Result {
	return Result{Kind: KindNotFound, Message: message}
}

func Unauthorized(message string) Result {
	return Result{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) Result {
	return Result{Kind: KindForbidden, Message: message}
}

func BadRequest(detail any, message string) Result {
	return Result{Kind: KindBadRequest, Message: message, Data: detail}
}
