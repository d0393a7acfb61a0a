package httpapi

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttemptSigner(t *testing.T) {
	signer := attemptSigner{key: []byte("first-key-first-key-first-key-00")}
	started := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	token := signer.issue(attempt{ID: "a1", Started: started})

	got, err := signer.parse(token)
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)
	assert.True(t, started.Equal(got.Started))

	raw, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err)
	backdated := strings.Replace(string(raw), "|1741618800000|", "|1741618000000|", 1)
	require.NotEqual(t, string(raw), backdated)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "empty", token: "", want: errNoAttempt},
		{name: "not base64", token: "***", want: errBadAttempt},
		{name: "wrong shape", token: base64.RawURLEncoding.EncodeToString([]byte("ATTEMPT|v1|a1")), want: errBadAttempt},
		{name: "backdated start", token: base64.RawURLEncoding.EncodeToString([]byte(backdated)), want: errBadAttempt},
		{name: "other key", token: attemptSigner{key: []byte("other")}.issue(attempt{ID: "a1", Started: started}), want: errBadAttempt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := signer.parse(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
