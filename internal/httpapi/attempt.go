package httpapi

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Attempt token errors.
var (
	errNoAttempt  = errors.New("validation not started")
	errBadAttempt = errors.New("invalid attempt token")
	errValidating = errors.New("validation still in progress")
)

// attempt is one validation run started by a visitor. The server keeps no
// record of it: the signed token is handed back on confirm.
type attempt struct {
	Started time.Time
	ID      string
}

// attemptSigner issues and checks attempt tokens.
// Format: base64url("ATTEMPT|v1|{id}|{started_ms}|{signature}").
type attemptSigner struct {
	key []byte
}

func newAttemptKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate attempt key: %w", err)
	}
	return key, nil
}

func (a attemptSigner) issue(at attempt) string {
	body := canonicalAttempt(at)
	return base64.RawURLEncoding.EncodeToString([]byte(body + "|" + a.sign(body)))
}

func (a attemptSigner) parse(token string) (attempt, error) {
	if token == "" {
		return attempt{}, errNoAttempt
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return attempt{}, errBadAttempt
	}
	parts := strings.Split(string(raw), "|")
	if len(parts) != 5 || parts[0] != "ATTEMPT" || parts[1] != "v1" {
		return attempt{}, errBadAttempt
	}
	ms, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return attempt{}, errBadAttempt
	}
	at := attempt{ID: parts[2], Started: time.UnixMilli(ms)}
	if !hmac.Equal([]byte(a.sign(canonicalAttempt(at))), []byte(parts[4])) {
		return attempt{}, errBadAttempt
	}
	return at, nil
}

func (a attemptSigner) sign(body string) string {
	mac := hmac.New(sha256.New, a.key)
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func canonicalAttempt(at attempt) string {
	return fmt.Sprintf("ATTEMPT|v1|%s|%d", at.ID, at.Started.UnixMilli())
}
