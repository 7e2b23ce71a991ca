package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/sttmarket/backend/api/transport"
	"github.com/sttmarket/backend/domain"
	"github.com/sttmarket/backend/pkg/httpcontext"
	catalogUC "github.com/sttmarket/backend/usecase/catalog"
)

// AdminHandler serves the super-admin moderation surface. Routes using it are
// gated by the role middleware; the handlers assume the caller is an operator.
type AdminHandler struct {
	baseHandler
	uc *catalogUC.UseCase
}

func NewAdminHandler(uc *catalogUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List venues awaiting moderation
// @Tags admin
// @Router /api/v1/admin/venues/pending [get]
func (h *AdminHandler) PendingVenues(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	args := ctx.QueryArgs()
	venues, err := h.uc.PendingVenues(stdCtx,
		parseInt(string(args.Peek("limit")), 50),
		parseInt(string(args.Peek("offset")), 0),
	)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, venues)
}

// @Summary Approve or reject a venue
// @Tags admin
// @Router /api/v1/admin/venues/{id}/status [put]
func (h *AdminHandler) SetVenueStatus(ctx *fasthttp.RequestCtx) {
	id, ok := parseID(pathValue(ctx, "id"))
	if !ok {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	var req transport.VenueStatusRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var err error
	switch req.Status {
	case domain.VenueStatusApproved:
		err = h.uc.ApproveVenue(stdCtx, id)
	case domain.VenueStatusRejected:
		err = h.uc.RejectVenue(stdCtx, id)
	default:
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}
