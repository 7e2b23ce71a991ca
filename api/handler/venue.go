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

type VenueHandler struct {
	baseHandler
	store *session.Store
}

func NewVenueHandler(store *session.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *VenueHandler {
	return &VenueHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       store,
	}
}

// @Summary List the merchant's venues
// @Tags venues
// @Router /api/v1/merchant/venues [get]
func (h *VenueHandler) ListVenues(ctx *fasthttp.RequestCtx) {
	if merchant := h.requireSession(ctx, h.store); merchant == nil {
		return
	}
	h.respondSuccess(ctx, http.StatusOK, h.store.Venues())
}

// @Summary Submit a new venue
// @Tags venues
// @Router /api/v1/merchant/venues [post]
func (h *VenueHandler) CreateVenue(ctx *fasthttp.RequestCtx) {
	if merchant := h.requireSession(ctx, h.store); merchant == nil {
		return
	}

	var req transport.VenuePayload
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Name == "" {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	venue, err := h.store.AddVenue(stdCtx, domain.Venue{
		Name:        req.Name,
		Area:        req.Area,
		Cuisine:     req.Cuisine,
		Capacity:    req.Capacity,
		Description: req.Description,
		Attributes:  req.Attributes,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, venue)
}
