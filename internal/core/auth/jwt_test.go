package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	j := &JWTer{Secret: []byte("k"), Issuer: "streamblog", TTL: time.Hour}
	tok, err := j.Issue("u-1", "staff")
	require.NoError(t, err)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", c.UID)
	assert.Equal(t, "staff", c.Role)
	assert.NotEmpty(t, c.ID)
	assert.InDelta(t, time.Hour.Seconds(), c.TTLLeft(time.Now()).Seconds(), 5)
}

func TestParseRejectsForeignTokens(t *testing.T) {
	j := &JWTer{Secret: []byte("k"), Issuer: "streamblog", TTL: time.Hour}

	other := &JWTer{Secret: []byte("other"), Issuer: "streamblog", TTL: time.Hour}
	tok, err := other.Issue("u-1", "user")
	require.NoError(t, err)
	_, err = j.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIss := &JWTer{Secret: []byte("k"), Issuer: "someone-else", TTL: time.Hour}
	tok, err = wrongIss.Issue("u-1", "user")
	require.NoError(t, err)
	_, err = j.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseExpired(t *testing.T) {
	j := &JWTer{Secret: []byte("k"), Issuer: "streamblog", TTL: -2 * time.Minute}
	tok, err := j.Issue("u-1", "user")
	require.NoError(t, err)
	_, err = j.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRequiresUID(t *testing.T) {
	j := &JWTer{Secret: []byte("k"), Issuer: "streamblog", TTL: time.Hour}
	tok, err := j.Issue("", "user")
	require.NoError(t, err)
	_, err = j.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
