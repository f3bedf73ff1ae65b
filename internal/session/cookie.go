package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

const DefaultCookieName = "sid"

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Name     string
	Path     string
	HttpOnly bool
	Secure   bool
	SameSite http.SameSite
	Domain   string
}

// normalize applies safe defaults without breaking callers
func (o CookieOptions) normalize() CookieOptions {
	if o.Name == "" {
		o.Name = DefaultCookieName
	}
	if o.Path == "" {
		o.Path = "/"
	}
	if !o.HttpOnly {
		o.HttpOnly = true
	}
	if o.SameSite == 0 {
		o.SameSite = http.SameSiteLaxMode
	}
	return o
}

// CookieCodec signs session ids so a tampered cookie never reaches the store.
type CookieCodec struct {
	sc *securecookie.SecureCookie
}

// NewCookieCodec builds a codec from the signing secret. maxAge bounds how
// old a signed value may be before Decode rejects it.
func NewCookieCodec(secret []byte, maxAge time.Duration) (*CookieCodec, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("session: empty cookie secret")
	}
	sc := securecookie.New(secret, nil)
	sc.MaxAge(int(maxAge / time.Second))
	sc.SetSerializer(securecookie.JSONEncoder{})
	return &CookieCodec{sc: sc}, nil
}

func (c *CookieCodec) Encode(name, sessionID string) (string, error) {
	return c.sc.Encode(name, sessionID)
}

func (c *CookieCodec) Decode(name, value string) (string, error) {
	var sessionID string
	if err := c.sc.Decode(name, value, &sessionID); err != nil {
		return "", err
	}
	return sessionID, nil
}

// SetCookie issues the session cookie to the client.
func SetCookie(
	w http.ResponseWriter,
	value string,
	expiresAt time.Time,
	opts CookieOptions,
) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     opts.Name,
		Value:    value,
		Path:     opts.Path,
		Domain:   opts.Domain,
		Expires:  expiresAt,
		MaxAge:   cookieMaxAge(expiresAt),
		HttpOnly: opts.HttpOnly,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// cookieMaxAge is the whole seconds left until expiresAt, never below 1.
func cookieMaxAge(expiresAt time.Time) int {
	secs := int(time.Until(expiresAt).Seconds())
	if secs < 1 {
		return 1
	}
	return secs
}

// ClearCookie removes the session cookie from the client.
func ClearCookie(
	w http.ResponseWriter,
	opts CookieOptions,
) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     opts.Name,
		Value:    "",
		Path:     opts.Path,
		Domain:   opts.Domain,
		MaxAge:   -1,
		HttpOnly: opts.HttpOnly,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}
