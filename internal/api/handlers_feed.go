package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/castmatch/castmatch-backend/internal/api/respond"
	"github.com/castmatch/castmatch-backend/internal/api/validate"
	"github.com/castmatch/castmatch-backend/internal/feed"
)

// FeedHandler serves aggregated content feeds built from a user's mutual
// connections.
type FeedHandler struct {
	agg *feed.Aggregator
}

func NewFeedHandler(a *feed.Aggregator) *FeedHandler {
	return &FeedHandler{agg: a}
}

// GetFeed handles GET /api/users/{userId}/feed.
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := validate.UserID("userId", userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	// limit 0 lets the aggregator apply its configured default.
	limit, err := intQueryParam(r, "limit", 0)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	cursor := r.URL.Query().Get("cursor")

	page, err := h.agg.Feed(r.Context(), userID, limit, cursor)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, page)
}
