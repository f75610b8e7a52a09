package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/castmatch/castmatch-backend/internal/api/respond"
	"github.com/castmatch/castmatch-backend/internal/api/validate"
	"github.com/castmatch/castmatch-backend/internal/model"
	"github.com/castmatch/castmatch-backend/internal/services"
)

// PersonaHandler ingests and serves interest profiles.
type PersonaHandler struct {
	svc *services.PersonaService
}

func NewPersonaHandler(s *services.PersonaService) *PersonaHandler {
	return &PersonaHandler{svc: s}
}

// PutPersona handles PUT /api/users/{userId}/persona. The path parameter
// is authoritative; any userId in the body is overwritten.
func (h *PersonaHandler) PutPersona(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := validate.UserID("userId", userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	var p model.Persona
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body")
		return
	}
	p.UserID = userID

	sets := []struct {
		field string
		vals  []string
	}{
		{"coreInterests", p.CoreInterests},
		{"projects", p.Projects},
		{"contentThemes", p.ContentThemes},
		{"channels", p.Channels},
	}
	for _, s := range sets {
		if err := validate.StringSet(s.field, s.vals); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
	}
	if err := validate.Label("expertiseLevel", p.ExpertiseLevel); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.Label("engagementStyle", p.EngagementStyle); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	stored, err := h.svc.PutPersona(r.Context(), &p)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, stored)
}

// GetPersona handles GET /api/users/{userId}/persona.
func (h *PersonaHandler) GetPersona(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := validate.UserID("userId", userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	p, err := h.svc.GetPersona(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}
