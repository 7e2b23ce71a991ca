package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sttmarket/backend/domain"
)

func TestIssueAndParse(t *testing.T) {
	tokens := New("test-secret", "sttmarket", time.Hour, nil, nil)

	signed, err := tokens.Issue(&domain.Merchant{ID: 42, Email: "a@acme.com"})
	require.NoError(t, err)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.MerchantID)
	assert.Equal(t, "a@acme.com", claims.Email)
	assert.Equal(t, domain.RoleMerchant, claims.Role)
}

func TestConfiguredOperatorGetsSuperAdminRole(t *testing.T) {
	tokens := New("test-secret", "sttmarket", time.Hour, []string{"ops@sttmarket.ae"}, nil)

	signed, err := tokens.Issue(&domain.Merchant{ID: 7, Email: "ops@sttmarket.ae"})
	require.NoError(t, err)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSuperAdmin, claims.Role)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	issuer := New("secret-one", "sttmarket", time.Hour, nil, nil)
	verifier := New("secret-two", "sttmarket", time.Hour, nil, nil)

	signed, err := issuer.Issue(&domain.Merchant{ID: 1, Email: "a@b.com"})
	require.NoError(t, err)

	_, err = verifier.Parse(signed)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestIssueWithoutSessionFails(t *testing.T) {
	tokens := New("test-secret", "sttmarket", time.Hour, nil, nil)
	_, err := tokens.Issue(nil)
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)
}
