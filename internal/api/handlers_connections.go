package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/castmatch/castmatch-backend/internal/api/respond"
	"github.com/castmatch/castmatch-backend/internal/api/validate"
	"github.com/castmatch/castmatch-backend/internal/connections"
	"github.com/castmatch/castmatch-backend/internal/model"
)

type ConnectionHandler struct {
	graph *connections.Graph
}

func NewConnectionHandler(g *connections.Graph) *ConnectionHandler {
	return &ConnectionHandler{graph: g}
}

// ListConnections handles GET /api/users/{userId}/connections.
func (h *ConnectionHandler) ListConnections(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := validate.UserID("userId", userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	conns, err := h.graph.Mutuals(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if conns == nil {
		conns = []model.Connection{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"connections": conns,
		"count":       len(conns),
	})
}

// ListSentPending handles GET /api/users/{userId}/connections/pending/sent.
func (h *ConnectionHandler) ListSentPending(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := validate.UserID("userId", userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	pending, err := h.graph.SentPending(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writePending(w, pending)
}

// ListReceivedPending handles GET /api/users/{userId}/connections/pending/received.
func (h *ConnectionHandler) ListReceivedPending(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := validate.UserID("userId", userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	pending, err := h.graph.ReceivedPending(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writePending(w, pending)
}

// CheckMutual handles GET /api/connections/{userA}/{userB}.
func (h *ConnectionHandler) CheckMutual(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userA, userB := vars["userA"], vars["userB"]
	if err := validate.UserID("userA", userA); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.UserID("userB", userB); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	mutual, err := h.graph.AreMutual(r.Context(), userA, userB)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]bool{"mutual": mutual})
}

func writePending(w http.ResponseWriter, pending []model.PendingLike) {
	if pending == nil {
		pending = []model.PendingLike{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"pending": pending,
		"count":   len(pending),
	})
}
