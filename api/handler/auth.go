package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/sttmarket/backend/api/transport"
	"github.com/sttmarket/backend/domain"
	"github.com/sttmarket/backend/pkg/httpcontext"
	authUC "github.com/sttmarket/backend/usecase/auth"
	"github.com/sttmarket/backend/usecase/session"
)

type AuthHandler struct {
	baseHandler
	store  *session.Store
	tokens *authUC.Tokens
}

func NewAuthHandler(store *session.Store, tokens *authUC.Tokens, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       store,
		tokens:      tokens,
	}
}

// @Summary Register a merchant account
// @Tags auth
// @Router /api/v1/merchant/register [post]
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	var req transport.RegisterRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	merchant, err := h.store.Register(stdCtx, session.RegisterInput{
		BusinessName: req.BusinessName,
		Email:        req.Email,
		Phone:        req.Phone,
		Password:     req.Password,
		Venue:        venueDetails(req.Venue),
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	token, err := h.tokens.Issue(merchant)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, transport.AuthResponse{Token: token, Merchant: merchant})
}

// @Summary Sign in as a merchant
// @Tags auth
// @Router /api/v1/merchant/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	merchant, err := h.store.Login(stdCtx, req.Email, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	token, err := h.tokens.Issue(merchant)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.AuthResponse{Token: token, Merchant: merchant})
}

// @Summary Sign out the active merchant
// @Tags auth
// @Router /api/v1/merchant/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	if merchant := h.requireSession(ctx, h.store); merchant == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.store.Logout(stdCtx); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

func venueDetails(input *transport.VenueDetailsInput) *domain.VenueDetails {
	if input == nil {
		return nil
	}
	return &domain.VenueDetails{
		Name:     input.Name,
		Area:     input.Area,
		Cuisine:  input.Cuisine,
		Capacity: input.Capacity,
	}
}
