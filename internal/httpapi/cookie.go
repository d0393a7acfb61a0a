package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"sync"
)

// cookieMaxAge bounds how long a browser keeps the cooldown cookie. The value
// inside decides the cooldown; this only keeps stale cookies from piling up.
const cookieMaxAge = 24 * 60 * 60

// cookieStore is a cooldown.Store backed by the visitor's cookies for the
// length of one request. Writes are mirrored locally so a Get after a Set in
// the same request sees the new value.
type cookieStore struct {
	w      http.ResponseWriter
	values map[string]int64
	gone   map[string]bool
	r      *http.Request
	mu     sync.Mutex
	secure bool
}

func newCookieStore(w http.ResponseWriter, r *http.Request, secure bool) *cookieStore {
	return &cookieStore{
		w:      w,
		r:      r,
		secure: secure,
		values: make(map[string]int64),
		gone:   make(map[string]bool),
	}
}

func (c *cookieStore) Get(_ context.Context, key string) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gone[key] {
		return 0, false, nil
	}
	if v, ok := c.values[key]; ok {
		return v, true, nil
	}

	cookie, err := c.r.Cookie(key)
	if err != nil {
		return 0, false, nil
	}
	v, err := strconv.ParseInt(cookie.Value, 10, 64)
	if err != nil {
		// Tampered or foreign values count as no cooldown.
		return 0, false, nil
	}
	return v, true, nil
}

func (c *cookieStore) Set(_ context.Context, key string, value int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values[key] = value
	delete(c.gone, key)
	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    strconv.FormatInt(value, 10),
		Path:     "/",
		MaxAge:   cookieMaxAge,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.secure,
	})
	return nil
}

func (c *cookieStore) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.values, key)
	c.gone[key] = true
	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.secure,
	})
	return nil
}
