package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieStore(t *testing.T) {
	ctx := context.Background()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "k", Value: "42"})
	store := newCookieStore(rec, req, true)

	v, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(42), v)

	require.NoError(t, store.Set(ctx, "k", 99))
	v, ok, _ = store.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, int64(99), v)

	require.NoError(t, store.Delete(ctx, "k"))
	_, ok, _ = store.Get(ctx, "k")
	assert.False(t, ok, "deleted key must not fall back to the request cookie")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, "99", cookies[0].Value)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, -1, cookies[1].MaxAge)
}

func TestCookieStore_InvalidValue(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "text", value: "soon"},
		{name: "float", value: "1.5"},
		{name: "empty", value: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: "k", Value: tt.value})
			store := newCookieStore(httptest.NewRecorder(), req, false)

			_, ok, err := store.Get(context.Background(), "k")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}
