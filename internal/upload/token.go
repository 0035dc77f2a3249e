// Package upload implements the token half of the two-phase client upload
// protocol: a scoped, signed payload issued before the upload and recovered at
// the completion callback. The payload is the only authorization state — the
// callback comes from the storage service with no session attached, possibly on
// a different instance than the one that issued the token.
package upload

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrInvalidToken is returned when a token payload cannot be recovered: wrong
// shape, bad signature, or missing fields. The completion callback maps this
// to Forbidden.
var ErrInvalidToken = errors.New("upload: invalid token payload")

// TokenPayload binds one upload attempt to its destination and owner. The user
// id travels opaquely inside the signed body, never as a plaintext field the
// client could rewrite.
type TokenPayload struct {
	UserID       string   `json:"userId"`
	Pathname     string   `json:"pathname"`
	ContentTypes []string `json:"contentTypes"`
	IssuedAt     int64    `json:"iat"`
}

// Sign encodes and signs the payload: base64url(json) + "." + hex(hmac-sha256).
func Sign(secret string, p TokenPayload) (string, error) {
	if p.UserID == "" || p.Pathname == "" {
		return "", errors.New("upload: user id and pathname are required")
	}
	if p.IssuedAt == 0 {
		p.IssuedAt = time.Now().Unix()
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	body := base64.RawURLEncoding.EncodeToString(raw)
	return body + "." + sign(secret, body), nil
}

// Recover verifies the signature and decodes the payload. Any failure collapses
// into ErrInvalidToken: the callback cannot distinguish a forged token from a
// corrupted one, and must reject both the same way.
func Recover(secret, token string) (*TokenPayload, error) {
	body, sig, ok := strings.Cut(token, ".")
	if !ok || body == "" || sig == "" {
		return nil, ErrInvalidToken
	}
	if !hmac.Equal([]byte(sign(secret, body)), []byte(sig)) {
		return nil, ErrInvalidToken
	}
	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, ErrInvalidToken
	}
	var p TokenPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, ErrInvalidToken
	}
	if p.UserID == "" || p.Pathname == "" {
		return nil, ErrInvalidToken
	}
	return &p, nil
}

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}
