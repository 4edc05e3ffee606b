package storage

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	signer := NewSigner("test-secret", time.Hour)

	signed, err := signer.Sign("https://cdn.example.com/images/hospital-1.jpg")
	require.NoError(t, err)

	u, err := url.Parse(signed)
	require.NoError(t, err)
	assert.NotEmpty(t, u.Query().Get("expires"))
	assert.NotEmpty(t, u.Query().Get("sig"))

	assert.NoError(t, signer.Verify(signed))
}

func TestVerifyRejectsExpired(t *testing.T) {
	signer := NewSigner("test-secret", -time.Minute)

	signed, err := signer.Sign("https://cdn.example.com/images/hospital-1.jpg")
	require.NoError(t, err)

	err = signer.Verify(signed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	signer := NewSigner("test-secret", time.Hour)

	signed, err := signer.Sign("https://cdn.example.com/images/hospital-1.jpg")
	require.NoError(t, err)

	tampered := strings.Replace(signed, "hospital-1", "hospital-2", 1)
	assert.Error(t, signer.Verify(tampered))
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	signed, err := NewSigner("secret-a", time.Hour).Sign("https://cdn.example.com/x.jpg")
	require.NoError(t, err)

	assert.Error(t, NewSigner("secret-b", time.Hour).Verify(signed))
}

func TestSignAllDropsEmptyEntries(t *testing.T) {
	signer := NewSigner("test-secret", time.Hour)

	signed := signer.SignAll([]string{
		"https://cdn.example.com/a.jpg",
		"",
		"https://cdn.example.com/b.jpg",
	})
	require.Len(t, signed, 2)
	for _, u := range signed {
		assert.NoError(t, signer.Verify(u))
	}
}
