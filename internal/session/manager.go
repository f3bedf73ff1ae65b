package session

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type Options struct {
	Cookie  CookieOptions
	TTL     time.Duration
	Rolling bool
}

// Manager binds stored sessions to signed cookies.
type Manager struct {
	store   Store
	codec   *CookieCodec
	cookie  CookieOptions
	ttl     time.Duration
	rolling bool
	now     func() time.Time
	newID   func() (string, error)
}

func NewManager(store Store, codec *CookieCodec, opts Options) *Manager {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		store:   store,
		codec:   codec,
		cookie:  opts.Cookie.normalize(),
		ttl:     ttl,
		rolling: opts.Rolling,
		now:     time.Now,
		newID:   GenerateID,
	}
}

func (m *Manager) CookieName() string {
	return m.cookie.Name
}

// Load resolves the request cookie to a live session. A missing, forged or
// expired cookie yields (nil, nil); only store failures are errors.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	sessionID, ok := m.sessionID(r)
	if !ok {
		return nil, nil
	}

	sess, err := m.store.Get(r.Context(), sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}

	if sess.Expired(m.now()) {
		_ = m.store.Destroy(r.Context(), sessionID)
		return nil, nil
	}

	return sess, nil
}

// Login starts a fresh session for userID. Any session already bound to the
// request is destroyed first so ids never carry across a login. The cookie is
// only issued once the record is persisted.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, r *http.Request, userID string) (*Session, error) {
	if old, ok := m.sessionID(r); ok {
		_ = m.store.Destroy(ctx, old)
	}

	id, err := m.newID()
	if err != nil {
		return nil, err
	}

	now := m.now()
	sess := Session{
		ID:        id,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	if err := m.store.Set(ctx, sess); err != nil {
		return nil, fmt.Errorf("session: persist: %w", err)
	}

	if err := m.writeCookie(w, sess); err != nil {
		return nil, err
	}

	return &sess, nil
}

// Logout destroys the request's session, if any, and clears the cookie.
// Calling it without a session is not an error.
func (m *Manager) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	ClearCookie(w, m.cookie)

	sessionID, ok := m.sessionID(r)
	if !ok {
		return nil
	}
	return m.store.Destroy(ctx, sessionID)
}

// Touch extends a session's expiry when rolling sessions are enabled.
func (m *Manager) Touch(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if !m.rolling || sess == nil {
		return nil
	}

	sess.ExpiresAt = m.now().Add(m.ttl)
	if err := m.store.Set(ctx, *sess); err != nil {
		return fmt.Errorf("session: touch: %w", err)
	}
	return m.writeCookie(w, *sess)
}

func (m *Manager) sessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(m.cookie.Name)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	id, err := m.codec.Decode(m.cookie.Name, cookie.Value)
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

func (m *Manager) writeCookie(w http.ResponseWriter, sess Session) error {
	value, err := m.codec.Encode(m.cookie.Name, sess.ID)
	if err != nil {
		return fmt.Errorf("session: encode cookie: %w", err)
	}
	SetCookie(w, value, sess.ExpiresAt, m.cookie)
	return nil
}
