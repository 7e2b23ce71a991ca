package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/sttmarket/backend/api/transport"
	"github.com/sttmarket/backend/domain"
	"github.com/sttmarket/backend/pkg/httpcontext"
	"github.com/sttmarket/backend/usecase/session"
)

type MerchantHandler struct {
	baseHandler
	store *session.Store
}

func NewMerchantHandler(store *session.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *MerchantHandler {
	return &MerchantHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       store,
	}
}

// @Summary Get the active merchant profile
// @Tags merchant
// @Router /api/v1/merchant/profile [get]
func (h *MerchantHandler) GetProfile(ctx *fasthttp.RequestCtx) {
	merchant := h.requireSession(ctx, h.store)
	if merchant == nil {
		return
	}
	h.respondSuccess(ctx, http.StatusOK, merchant)
}

// @Summary Update the active merchant profile
// @Tags merchant
// @Router /api/v1/merchant/profile [put]
func (h *MerchantHandler) UpdateProfile(ctx *fasthttp.RequestCtx) {
	if merchant := h.requireSession(ctx, h.store); merchant == nil {
		return
	}

	var req transport.MerchantUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.store.UpdateMerchant(stdCtx, session.MerchantPatch{
		BusinessName:     req.BusinessName,
		Email:            req.Email,
		Phone:            req.Phone,
		SubscriptionType: req.SubscriptionType,
		Venue:            venueDetails(req.Venue),
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary List the merchant's bookings
// @Tags merchant
// @Router /api/v1/merchant/bookings [get]
func (h *MerchantHandler) ListBookings(ctx *fasthttp.RequestCtx) {
	if merchant := h.requireSession(ctx, h.store); merchant == nil {
		return
	}
	// Bookings are read-only on this surface; the collection comes straight
	// from the last rehydration.
	h.respondSuccess(ctx, http.StatusOK, h.store.Bookings())
}
