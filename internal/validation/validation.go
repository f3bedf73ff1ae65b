// Package validation checks request shape before any handler runs.
//
// Rules are declared per route as chains over a body field or a path
// parameter. Each failing check contributes one FieldError; the collected
// list is de-duplicated on (field, message) and, when non-empty, the request
// is rejected with a 400 envelope.
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
)

// BodyField is the field name reported by body-wide rules.
const BodyField = "body"

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Input is what rules look at: the raw JSON body and a path parameter lookup.
type Input struct {
	Body  []byte
	Param func(name string) string
}

type Rule interface {
	Check(in Input) []FieldError
}

var validate = validator.New()

type source int

const (
	fromBody source = iota
	fromParam
)

type check struct {
	msg string
	ok  func(v gjson.Result) bool
}

// Chain is an ordered list of checks on one field. Every check runs; a
// value can fail several of them and report each distinct message.
type Chain struct {
	src      source
	field    string
	optional bool
	checks   []check
	items    []check
}

func Body(field string) *Chain {
	return &Chain{src: fromBody, field: field}
}

func Param(name string) *Chain {
	return &Chain{src: fromParam, field: name}
}

// Optional skips the chain when the field is absent. An explicit null is
// present and still checked.
func (c *Chain) Optional() *Chain {
	c.optional = true
	return c
}

func (c *Chain) add(msg string, ok func(v gjson.Result) bool) *Chain {
	c.checks = append(c.checks, check{msg: msg, ok: ok})
	return c
}

func (c *Chain) String(msg string) *Chain {
	return c.add(msg, isString)
}

func (c *Chain) Array(msg string) *Chain {
	return c.add(msg, func(v gjson.Result) bool { return v.IsArray() })
}

// StringItems checks every element of an array value; each offending
// element is reported as field[i]. Non-array values are left to Array.
func (c *Chain) StringItems(msg string) *Chain {
	c.items = append(c.items, check{msg: msg, ok: isString})
	return c
}

func (c *Chain) ISO8601(msg string) *Chain {
	return c.add(msg, func(v gjson.Result) bool {
		return isString(v) && IsISO8601(v.Str)
	})
}

// UTC requires the literal Z designator. An equivalent +00:00 offset fails.
func (c *Chain) UTC(msg string) *Chain {
	return c.add(msg, func(v gjson.Result) bool {
		return isString(v) && len(v.Str) > 0 && v.Str[len(v.Str)-1] == 'Z'
	})
}

// URL accepts http, https and ftp links. A value without a scheme is
// checked as http. Credentials in the authority are rejected.
func (c *Chain) URL(msg string) *Chain {
	return c.add(msg, func(v gjson.Result) bool {
		return isString(v) && IsWebURL(v.Str)
	})
}

func (c *Chain) Email(msg string) *Chain {
	return c.add(msg, formatCheck("email"))
}

func (c *Chain) UUID(msg string) *Chain {
	return c.add(msg, formatCheck("uuid"))
}

func (c *Chain) value(in Input) gjson.Result {
	if c.src == fromParam {
		if in.Param == nil {
			return gjson.Result{}
		}
		p := in.Param(c.field)
		return gjson.Result{Type: gjson.String, Str: p, Raw: strconv.Quote(p)}
	}
	root := gjson.ParseBytes(in.Body)
	if !root.IsObject() {
		return gjson.Result{}
	}
	return root.Get(gjson.Escape(c.field))
}

func (c *Chain) Check(in Input) []FieldError {
	v := c.value(in)
	if c.optional && !v.Exists() {
		return nil
	}

	var errs []FieldError
	for _, ch := range c.checks {
		if !ch.ok(v) {
			errs = append(errs, FieldError{Field: c.field, Message: ch.msg})
		}
	}

	if len(c.items) > 0 && v.IsArray() {
		for i, item := range v.Array() {
			for _, ch := range c.items {
				if !ch.ok(item) {
					errs = append(errs, FieldError{
						Field:   fmt.Sprintf("%s[%d]", c.field, i),
						Message: ch.msg,
					})
				}
			}
		}
	}

	return errs
}

type atLeastOne struct {
	fields []string
	msg    string
}

// AtLeastOneOf requires the body to be an object holding at least one of
// the given keys. Presence counts, not truthiness.
func AtLeastOneOf(msg string, fields ...string) Rule {
	return atLeastOne{fields: fields, msg: msg}
}

func (a atLeastOne) Check(in Input) []FieldError {
	root := gjson.ParseBytes(in.Body)
	if root.IsObject() {
		for _, f := range a.fields {
			if root.Get(gjson.Escape(f)).Exists() {
				return nil
			}
		}
	}
	return []FieldError{{Field: BodyField, Message: a.msg}}
}

// Validate runs every rule in order and returns the de-duplicated errors.
func Validate(in Input, rules ...Rule) []FieldError {
	var all []FieldError
	for _, r := range rules {
		all = append(all, r.Check(in)...)
	}
	return Dedupe(all)
}

// Dedupe keeps the first occurrence of each (field, message) pair.
func Dedupe(errs []FieldError) []FieldError {
	if len(errs) == 0 {
		return nil
	}
	seen := make(map[FieldError]struct{}, len(errs))
	out := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

func isString(v gjson.Result) bool {
	return v.Type == gjson.String
}

func formatCheck(tag string) func(v gjson.Result) bool {
	return func(v gjson.Result) bool {
		return isString(v) && validate.Var(v.Str, tag) == nil
	}
}

var webSchemes = map[string]bool{"http": true, "https": true, "ftp": true}

func IsWebURL(s string) bool {
	var candidate string
	if scheme, rest, ok := strings.Cut(s, "://"); ok {
		if !webSchemes[strings.ToLower(scheme)] {
			return false
		}
		candidate = "http://" + rest
	} else {
		candidate = "http://" + s
	}

	if validate.Var(candidate, "http_url") != nil {
		return false
	}
	u, err := url.Parse(candidate)
	if err != nil || u.User != nil {
		return false
	}
	return strings.Contains(u.Hostname(), ".")
}

var iso8601 = regexp.MustCompile(
	`^\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}(:?\d{2})?)?)?$`,
)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04Z07",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// IsISO8601 accepts calendar dates with an optional time and zone.
func IsISO8601(s string) bool {
	if !iso8601.MatchString(s) {
		return false
	}
	_, err := ParseTimestamp(s)
	return err == nil
}

// ParseTimestamp parses the ISO-8601 forms accepted by IsISO8601 and
// returns the instant in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("validation: %q is not an ISO 8601 timestamp", s)
}

// Problem is the data payload of a validation failure envelope.
type Problem struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

const ProblemMessage = "Validation error"

func NewProblem(errs []FieldError) Problem {
	return Problem{Message: ProblemMessage, Errors: errs}
}
