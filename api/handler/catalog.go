package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/sttmarket/backend/pkg/httpcontext"
	"github.com/sttmarket/backend/repository"
	catalogUC "github.com/sttmarket/backend/usecase/catalog"
)

type CatalogHandler struct {
	baseHandler
	uc *catalogUC.UseCase
}

func NewCatalogHandler(uc *catalogUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Browse approved venues
// @Tags catalog
// @Router /api/v1/catalog/venues [get]
func (h *CatalogHandler) BrowseVenues(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	venues, err := h.uc.BrowseVenues(stdCtx, browseFilter(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, venues)
}

// @Summary Browse published events
// @Tags catalog
// @Router /api/v1/catalog/events [get]
func (h *CatalogHandler) BrowseEvents(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	events, err := h.uc.BrowseEvents(stdCtx, browseFilter(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, events)
}

func browseFilter(ctx *fasthttp.RequestCtx) repository.CatalogFilter {
	args := ctx.QueryArgs()
	return repository.CatalogFilter{
		Area:     string(args.Peek("area")),
		Cuisine:  string(args.Peek("cuisine")),
		Category: string(args.Peek("category")),
		Query:    string(args.Peek("q")),
		Limit:    parseInt(string(args.Peek("limit")), 50),
		Offset:   parseInt(string(args.Peek("offset")), 0),
	}
}
