package auth

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

// Verifier resolves an opaque identity token to a stable user identifier.
// An empty string means the token is missing, malformed, or forged; callers treat
// that as Unauthorized. The concrete session mechanism lives outside this service.
type Verifier interface {
	Verify(token string) string
}

// identityClaims is the signed payload of an HMAC identity token.
type identityClaims struct {
	Sub      string `json:"sub"`
	IssuedAt int64  `json:"iat"`
}

// HMACVerifier verifies self-contained identity tokens of the form
// base64url(json claims) + "." + hex(hmac-sha256). It keeps no session state,
// so tokens verify identically on every instance.
type HMACVerifier struct {
	secret []byte
}

// NewHMACVerifier creates a verifier using the shared signing secret.
func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

var _ Verifier = (*HMACVerifier)(nil)

// Verify returns the user id embedded in the token, or "" if the token is invalid.
func (v *HMACVerifier) Verify(token string) string {
	claims, err := v.recover(token)
	if err != nil {
		return ""
	}
	return claims.Sub
}

// Issue signs an identity token for the given user id. Used by tests and tooling;
// production tokens come from the authentication service sharing the same secret.
func (v *HMACVerifier) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}
	raw, err := json.Marshal(identityClaims{Sub: userID, IssuedAt: time.Now().Unix()})
	if err != nil {
		return "", err
	}
	body := base64.RawURLEncoding.EncodeToString(raw)
	return body + "." + v.sign(body), nil
}

func (v *HMACVerifier) recover(token string) (*identityClaims, error) {
	body, sig, ok := strings.Cut(token, ".")
	if !ok || body == "" || sig == "" {
		return nil, errors.New("malformed token")
	}
	if !hmac.Equal([]byte(v.sign(body)), []byte(sig)) {
		return nil, errors.New("signature mismatch")
	}
	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, err
	}
	var claims identityClaims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, err
	}
	if claims.Sub == "" {
		return nil, errors.New("empty subject")
	}
	return &claims, nil
}

func (v *HMACVerifier) sign(body string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}
