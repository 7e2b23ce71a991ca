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

type EventHandler struct {
	baseHandler
	store *session.Store
}

func NewEventHandler(store *session.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       store,
	}
}

// @Summary List the merchant's events
// @Tags events
// @Router /api/v1/merchant/events [get]
func (h *EventHandler) ListEvents(ctx *fasthttp.RequestCtx) {
	if merchant := h.requireSession(ctx, h.store); merchant == nil {
		return
	}
	h.respondSuccess(ctx, http.StatusOK, h.store.Events())
}

// @Summary Create a draft event
// @Tags events
// @Router /api/v1/merchant/events [post]
func (h *EventHandler) CreateEvent(ctx *fasthttp.RequestCtx) {
	if merchant := h.requireSession(ctx, h.store); merchant == nil {
		return
	}

	var req transport.EventPayload
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Title == "" {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	event, err := h.store.AddEvent(stdCtx, domain.Event{
		VenueID:     req.VenueID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Date:        req.Date,
		Price:       req.Price,
		Attributes:  req.Attributes,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, event)
}

// @Summary Update an event
// @Tags events
// @Router /api/v1/merchant/events/{id} [put]
func (h *EventHandler) UpdateEvent(ctx *fasthttp.RequestCtx) {
	if merchant := h.requireSession(ctx, h.store); merchant == nil {
		return
	}

	id, ok := parseID(pathValue(ctx, "id"))
	if !ok {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	var req transport.EventUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.store.UpdateEvent(stdCtx, id, session.EventPatch{
		VenueID:     req.VenueID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Date:        req.Date,
		Price:       req.Price,
		Status:      req.Status,
		Attributes:  req.Attributes,
	}); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

// @Summary Duplicate an event
// @Tags events
// @Router /api/v1/merchant/events/{id}/clone [post]
func (h *EventHandler) CloneEvent(ctx *fasthttp.RequestCtx) {
	if merchant := h.requireSession(ctx, h.store); merchant == nil {
		return
	}

	id, ok := parseID(pathValue(ctx, "id"))
	if !ok {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	clone, err := h.store.CloneEvent(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if clone == nil {
		// The store treats an unknown id as a no-op; on the wire that is a 404.
		h.respondError(ctx, domain.ErrEventNotFound)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, clone)
}

// @Summary Delete an event
// @Tags events
// @Router /api/v1/merchant/events/{id} [delete]
func (h *EventHandler) DeleteEvent(ctx *fasthttp.RequestCtx) {
	if merchant := h.requireSession(ctx, h.store); merchant == nil {
		return
	}

	id, ok := parseID(pathValue(ctx, "id"))
	if !ok {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.store.DeleteEvent(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

func pathValue(ctx *fasthttp.RequestCtx, name string) string {
	if value, ok := ctx.UserValue(name).(string); ok {
		return value
	}
	return ""
}
