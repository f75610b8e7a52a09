package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/castmatch/castmatch-backend/internal/api/respond"
	"github.com/castmatch/castmatch-backend/internal/api/validate"
	"github.com/castmatch/castmatch-backend/internal/discovery"
)

const defaultDiscoverPageSize = 20

type DiscoveryHandler struct {
	ranker *discovery.Ranker
}

func NewDiscoveryHandler(r *discovery.Ranker) *DiscoveryHandler {
	return &DiscoveryHandler{ranker: r}
}

// Discover handles GET /api/users/{userId}/discover.
func (h *DiscoveryHandler) Discover(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := validate.UserID("userId", userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	page, err := intQueryParam(r, "page", 1)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	pageSize, err := intQueryParam(r, "pageSize", defaultDiscoverPageSize)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	out, err := h.ranker.Rank(r.Context(), userID, page, pageSize)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// intQueryParam parses an optional integer query parameter, returning def
// when the parameter is absent.
func intQueryParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return n, nil
}
