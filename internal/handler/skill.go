package handler

import (
	"errors"
	"net/http"

	"github.com/skillswap/skillswap-go/internal/middleware"
	"github.com/skillswap/skillswap-go/internal/model"
	"github.com/skillswap/skillswap-go/internal/service"
)

// SkillHandler handles HTTP requests for skill operations.
type SkillHandler struct {
	service *service.SkillService
}

// NewSkillHandler creates a new SkillHandler.
func NewSkillHandler(svc *service.SkillService) *SkillHandler {
	return &SkillHandler{service: svc}
}

// HandleCreate handles POST /api/v1/skills requests.
func (h *SkillHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.CreateSkillRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Create(r.Context(), user, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTitleRequired),
			errors.Is(err, service.ErrDescriptionRequired),
			errors.Is(err, service.ErrCategoryRequired),
			errors.Is(err, service.ErrInvalidProficiency):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleList handles GET /api/v1/skills requests. Accepts optional
// category, skip and limit query parameters.
func (h *SkillHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 100)

	resp, err := h.service.List(r.Context(), category, skip, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleMySkills handles GET /api/v1/skills/my-skills requests.
func (h *SkillHandler) HandleMySkills(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	resp, err := h.service.ListByOwner(r.Context(), user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /api/v1/skills/{skill_id} requests.
func (h *SkillHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	skillID, ok := pathID(w, r, "skill_id")
	if !ok {
		return
	}

	resp, err := h.service.Get(r.Context(), skillID)
	if err != nil {
		if errors.Is(err, service.ErrSkillNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdate handles PUT /api/v1/skills/{skill_id} requests.
func (h *SkillHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	skillID, ok := pathID(w, r, "skill_id")
	if !ok {
		return
	}

	var req model.UpdateSkillRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Update(r.Context(), user, skillID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSkillNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		case errors.Is(err, service.ErrForbidden):
			writeJSON(w, http.StatusForbidden, errorResponse(err.Error()))
		case errors.Is(err, service.ErrInvalidProficiency):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /api/v1/skills/{skill_id} requests.
func (h *SkillHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	skillID, ok := pathID(w, r, "skill_id")
	if !ok {
		return
	}

	err := h.service.Delete(r.Context(), user, skillID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSkillNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		case errors.Is(err, service.ErrForbidden):
			writeJSON(w, http.StatusForbidden, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
