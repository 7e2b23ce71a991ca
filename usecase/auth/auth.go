// Package auth issues and verifies the access tokens that gate the merchant
// and admin route groups. The session store decides who is signed in; tokens
// only carry that identity (and its role) across HTTP calls.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/sttmarket/backend/domain"
)

type Tokens struct {
	secret      []byte
	issuer      string
	ttl         time.Duration
	adminEmails map[string]bool
	logger      *zap.Logger
}

// Claims is the verified identity extracted from a token.
type Claims struct {
	MerchantID int64
	Email      string
	Role       string
}

func New(secret, issuer string, ttl time.Duration, adminEmails []string, logger *zap.Logger) *Tokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	admins := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		admins[email] = true
	}
	return &Tokens{
		secret:      []byte(secret),
		issuer:      issuer,
		ttl:         ttl,
		adminEmails: admins,
		logger:      logger,
	}
}

// Issue signs a token for the given merchant session. The role claim is
// assigned here, not stored on the session: merchants configured as platform
// operators get the super_admin role.
func (t *Tokens) Issue(merchant *domain.Merchant) (string, error) {
	if merchant == nil {
		return "", domain.ErrNoActiveSession
	}

	role := merchant.Role
	if role == "" {
		role = domain.RoleMerchant
	}
	if t.adminEmails[merchant.Email] {
		role = domain.RoleSuperAdmin
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"merchant_id": merchant.ID,
		"email":       merchant.Email,
		"role":        role,
		"iss":         t.issuer,
		"iat":         now.Unix(),
		"exp":         now.Add(t.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse verifies a token and extracts its claims.
func (t *Tokens) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthorized
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.WrapError(domain.ErrCodeUnauthorized, "invalid token", err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	claims := &Claims{}
	if id, ok := mapClaims["merchant_id"].(float64); ok {
		claims.MerchantID = int64(id)
	}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if role, ok := mapClaims["role"].(string); ok {
		claims.Role = role
	}
	if claims.MerchantID == 0 {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
