package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *Issuer {
	return NewIssuer("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestIssueAndVerifyAccess(t *testing.T) {
	i := newTestIssuer()

	tok, exp, err := i.IssueAccess("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 5*time.Second)

	claims, err := i.Verify(tok, ClassAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.NotEmpty(t, claims.ID)
}

func TestVerifyRejectsWrongClass(t *testing.T) {
	i := newTestIssuer()

	access, _, err := i.IssueAccess("user-1")
	require.NoError(t, err)
	refresh, _, err := i.IssueRefresh("user-1")
	require.NoError(t, err)

	_, err = i.Verify(access, ClassRefresh)
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = i.Verify(refresh, ClassAccess)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	i := newTestIssuer()

	tok, _, err := i.IssueRefresh("user-1")
	require.NoError(t, err)

	tampered := tok[:len(tok)-2] + "xx"
	_, err = i.Verify(tampered, ClassRefresh)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = i.Verify("not-a-jwt", ClassRefresh)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	i := NewIssuer("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	tok, _, err := i.IssueAccess("user-1")
	require.NoError(t, err)

	_, err = i.Verify(tok, ClassAccess)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyRejectsOtherIssuersSecret(t *testing.T) {
	other := NewIssuer("different", "secrets", 15*time.Minute, time.Hour)
	tok, _, err := other.IssueAccess("user-1")
	require.NoError(t, err)

	_, err = newTestIssuer().Verify(tok, ClassAccess)
	assert.ErrorIs(t, err, ErrInvalid)
}
