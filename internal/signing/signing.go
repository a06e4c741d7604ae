// Package signing implements a minimal HMAC helper for generating and verifying
// signed attachment links.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

var (
	// ErrExpired means the link was valid once but its expiry has passed.
	ErrExpired = errors.New("signed link expired")
	// ErrInvalid means the signature does not match the link.
	ErrInvalid = errors.New("invalid signature")
)

// Signer generates and validates HMAC based signatures.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner creates a Signer whose links live for ttl.
func NewSigner(secret []byte, ttl time.Duration) *Signer {
	return &Signer{secret: secret, ttl: ttl, now: time.Now}
}

// Sign returns the hex signature for one attachment of a submission.
func (s *Signer) Sign(submissionID string, index int, expiresUnix int64) string {
	mac := hmac.New(sha256.New, s.secret)
	// The payload is the canonical "id:index:expiry" string.
	fmt.Fprintf(mac, "%s:%d:%d", submissionID, index, expiresUnix)
	return hex.EncodeToString(mac.Sum(nil))
}

// Query returns the expires and signature parameters for a fresh link.
func (s *Signer) Query(submissionID string, index int) (url.Values, time.Time) {
	expires := s.now().Add(s.ttl).Unix()
	v := url.Values{}
	v.Set("expires", strconv.FormatInt(expires, 10))
	v.Set("signature", s.Sign(submissionID, index, expires))
	return v, time.Unix(expires, 0).UTC()
}

// Validate checks the signature first and then the expiry.
func (s *Signer) Validate(submissionID string, index int, expires, signature string) error {
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return ErrInvalid
	}
	expected := s.Sign(submissionID, index, exp)
	// hmac.Equal performs constant-time comparison to avoid timing attacks.
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalid
	}
	if s.now().Unix() > exp {
		return ErrExpired
	}
	return nil
}
