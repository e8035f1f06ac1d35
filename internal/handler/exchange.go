package handler

import (
	"errors"
	"net/http"

	"github.com/skillswap/skillswap-go/internal/middleware"
	"github.com/skillswap/skillswap-go/internal/model"
	"github.com/skillswap/skillswap-go/internal/service"
)

// ExchangeHandler handles HTTP requests for the exchange request workflow.
type ExchangeHandler struct {
	service *service.ExchangeService
}

// NewExchangeHandler creates a new ExchangeHandler.
func NewExchangeHandler(svc *service.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{service: svc}
}

// HandleCreate handles POST /api/v1/exchanges requests.
func (h *ExchangeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.CreateExchangeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Create(r.Context(), user, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSkillNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		case errors.Is(err, service.ErrMessageRequired), errors.Is(err, service.ErrSelfRequest):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleList handles GET /api/v1/exchanges requests.
func (h *ExchangeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 100)

	resp, err := h.service.List(r.Context(), user, skip, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /api/v1/exchanges/{request_id} requests.
func (h *ExchangeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	requestID, ok := pathID(w, r, "request_id")
	if !ok {
		return
	}

	resp, err := h.service.Get(r.Context(), user, requestID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		case errors.Is(err, service.ErrForbidden):
			writeJSON(w, http.StatusForbidden, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleTransition handles PATCH /api/v1/exchanges/{request_id}
// requests carrying {"status": "accepted"|"rejected"|"cancelled"|"completed"}.
func (h *ExchangeHandler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	requestID, ok := pathID(w, r, "request_id")
	if !ok {
		return
	}

	var req model.UpdateExchangeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Transition(r.Context(), user, requestID, model.ExchangeStatus(req.Status))
	if err != nil {
		h.writeTransitionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleCancel handles DELETE /api/v1/exchanges/{request_id} requests.
// Cancellation is a status change, not a removal; the record stays
// queryable for both parties.
func (h *ExchangeHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	requestID, ok := pathID(w, r, "request_id")
	if !ok {
		return
	}

	resp, err := h.service.Cancel(r.Context(), user, requestID)
	if err != nil {
		h.writeTransitionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *ExchangeHandler) writeTransitionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrRequestNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidTransition):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}
