package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Signer mints expiring signed variants of stored image URLs. Raw object
// URLs never leave the API; every read path signs before responding.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl}
}

// Sign appends an expiry and an HMAC-SHA256 signature over the URL path
// and expiry.
func (s *Signer) Sign(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}

	expires := time.Now().Add(s.ttl).Unix()
	q := u.Query()
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("sig", s.signature(u.Path, expires))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Verify checks the signature and expiry of a previously signed URL.
func (s *Signer) Verify(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	q := u.Query()
	expires, err := strconv.ParseInt(q.Get("expires"), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid expiry")
	}
	if time.Now().Unix() > expires {
		return fmt.Errorf("url expired")
	}

	expected := s.signature(u.Path, expires)
	if !hmac.Equal([]byte(expected), []byte(q.Get("sig"))) {
		return fmt.Errorf("invalid signature")
	}
	return nil
}

// SignAll signs a batch, dropping entries that fail to parse.
func (s *Signer) SignAll(rawURLs []string) []string {
	signed := make([]string, 0, len(rawURLs))
	for _, raw := range rawURLs {
		if raw == "" {
			continue
		}
		u, err := s.Sign(raw)
		if err != nil {
			continue
		}
		signed = append(signed, u)
	}
	return signed
}

func (s *Signer) signature(path string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s:%d", path, expires)
	return hex.EncodeToString(mac.Sum(nil))
}
