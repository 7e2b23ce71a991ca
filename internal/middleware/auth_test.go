package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/sttmarket/backend/domain"
	authUC "github.com/sttmarket/backend/usecase/auth"
)

func issueToken(t *testing.T, tokens *authUC.Tokens, merchant *domain.Merchant) string {
	t.Helper()
	signed, err := tokens.Issue(merchant)
	require.NoError(t, err)
	return signed
}

func TestAuthStampsIdentityHeaders(t *testing.T) {
	tokens := authUC.New("test-secret", "sttmarket", time.Hour, nil, nil)
	token := issueToken(t, tokens, &domain.Merchant{ID: 42, Email: "a@acme.com"})

	var called bool
	handler := Auth(tokens, nil)(func(ctx *fasthttp.RequestCtx) {
		called = true
		assert.Equal(t, "42", string(ctx.Request.Header.Peek(HeaderMerchantID)))
		assert.Equal(t, domain.RoleMerchant, string(ctx.Request.Header.Peek(HeaderMerchantRole)))
	})

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.Set("Authorization", "Bearer "+token)
	handler(&ctx)

	assert.True(t, called)
}

func TestAuthRejectsMissingToken(t *testing.T) {
	tokens := authUC.New("test-secret", "sttmarket", time.Hour, nil, nil)

	handler := Auth(tokens, nil)(func(ctx *fasthttp.RequestCtx) {
		t.Fatal("handler must not run")
	})

	var ctx fasthttp.RequestCtx
	handler(&ctx)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestAuthRejectsTamperedToken(t *testing.T) {
	issuer := authUC.New("secret-one", "sttmarket", time.Hour, nil, nil)
	verifier := authUC.New("secret-two", "sttmarket", time.Hour, nil, nil)
	token := issueToken(t, issuer, &domain.Merchant{ID: 1, Email: "a@b.com"})

	handler := Auth(verifier, nil)(func(ctx *fasthttp.RequestCtx) {
		t.Fatal("handler must not run")
	})

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.Set("Authorization", "Bearer "+token)
	handler(&ctx)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestRequireRole(t *testing.T) {
	var called bool
	handler := RequireRole(domain.RoleSuperAdmin, nil)(func(ctx *fasthttp.RequestCtx) {
		called = true
	})

	var denied fasthttp.RequestCtx
	denied.Request.Header.Set(HeaderMerchantRole, domain.RoleMerchant)
	handler(&denied)
	assert.False(t, called)
	assert.Equal(t, fasthttp.StatusForbidden, denied.Response.StatusCode())

	var allowed fasthttp.RequestCtx
	allowed.Request.Header.Set(HeaderMerchantRole, domain.RoleSuperAdmin)
	handler(&allowed)
	assert.True(t, called)
}
