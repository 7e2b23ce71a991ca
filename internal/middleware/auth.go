package middleware

import (
	"strconv"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	authUC "github.com/sttmarket/backend/usecase/auth"
)

// Headers populated by the auth middleware for downstream handlers.
const (
	HeaderMerchantID   = "X-Merchant-ID"
	HeaderMerchantRole = "X-Merchant-Role"
)

// Auth verifies the bearer token and stamps the caller's identity onto the
// request headers.
func Auth(tokens *authUC.Tokens, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			claims, err := tokens.Parse(tokenString)
			if err != nil {
				logger.Warn("invalid access token", zap.Error(err))
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			ctx.Request.Header.Set(HeaderMerchantID, formatID(claims.MerchantID))
			ctx.Request.Header.Set(HeaderMerchantRole, claims.Role)

			next(ctx)
		}
	}
}

// RequireRole rejects callers whose verified role claim does not match. It
// must run after Auth: the role header is trusted only because Auth set it.
func RequireRole(role string, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			if string(ctx.Request.Header.Peek(HeaderMerchantRole)) != role {
				logger.Warn("role check failed",
					zap.String("required", role),
					zap.String("path", string(ctx.Path())))
				ctx.SetStatusCode(fasthttp.StatusForbidden)
				return
			}
			next(ctx)
		}
	}
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
