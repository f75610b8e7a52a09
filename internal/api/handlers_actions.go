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

type ActionHandler struct {
	svc *services.ActionService
}

func NewActionHandler(svc *services.ActionService) *ActionHandler { return &ActionHandler{svc: svc} }

// RecordAction handles POST /api/actions.
func (h *ActionHandler) RecordAction(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ActorID  string `json:"actorId"`
		TargetID string `json:"targetId"`
		Kind     string `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.UserID("actorId", in.ActorID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.UserID("targetId", in.TargetID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	out, err := h.svc.RecordAction(r.Context(), in.ActorID, in.TargetID, model.ActionKind(in.Kind))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// GetAction handles GET /api/actions/{actorId}/{targetId}.
func (h *ActionHandler) GetAction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	a, err := h.svc.GetAction(r.Context(), vars["actorId"], vars["targetId"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, a)
}

// ListSent handles GET /api/users/{userId}/actions.
func (h *ActionHandler) ListSent(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := validate.UserID("userId", userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	actions, err := h.svc.ActionsBy(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if actions == nil {
		actions = []*model.Action{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"actions": actions,
		"count":   len(actions),
	})
}

// ListReceived handles GET /api/users/{userId}/actions/received.
func (h *ActionHandler) ListReceived(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := validate.UserID("userId", userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	actions, err := h.svc.ActionsOn(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if actions == nil {
		actions = []*model.Action{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"actions": actions,
		"count":   len(actions),
	})
}
