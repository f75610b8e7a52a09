package api

import (
	"github.com/gorilla/mux"

	"github.com/castmatch/castmatch-backend/internal/api/recovery"
	"github.com/castmatch/castmatch-backend/internal/connections"
	"github.com/castmatch/castmatch-backend/internal/discovery"
	"github.com/castmatch/castmatch-backend/internal/feed"
	"github.com/castmatch/castmatch-backend/internal/services"
)

// Deps carries the wired domain components the router exposes. They are
// constructed at startup because the feed aggregator needs hub credentials
// the router has no business knowing.
type Deps struct {
	Actions  *services.ActionService
	Personas *services.PersonaService
	Graph    *connections.Graph
	Ranker   *discovery.Ranker
	Feed     *feed.Aggregator
}

// NewRouter creates a new HTTP router with all API routes
func NewRouter(deps Deps) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)

	// Create handlers
	healthHandler := NewHealthHandler()
	actionHandler := NewActionHandler(deps.Actions)
	personaHandler := NewPersonaHandler(deps.Personas)
	connectionHandler := NewConnectionHandler(deps.Graph)
	discoveryHandler := NewDiscoveryHandler(deps.Ranker)
	feedHandler := NewFeedHandler(deps.Feed)

	// Health endpoints
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	// Action endpoints
	router.HandleFunc("/api/actions", actionHandler.RecordAction).Methods("POST")
	router.HandleFunc("/api/actions/{actorId}/{targetId}", actionHandler.GetAction).Methods("GET")
	router.HandleFunc("/api/users/{userId}/actions", actionHandler.ListSent).Methods("GET")
	router.HandleFunc("/api/users/{userId}/actions/received", actionHandler.ListReceived).Methods("GET")

	// Connection endpoints (pending routes before the two-user mutual check,
	// mux matches them by literal path segments)
	router.HandleFunc("/api/users/{userId}/connections", connectionHandler.ListConnections).Methods("GET")
	router.HandleFunc("/api/users/{userId}/connections/pending/sent", connectionHandler.ListSentPending).Methods("GET")
	router.HandleFunc("/api/users/{userId}/connections/pending/received", connectionHandler.ListReceivedPending).Methods("GET")
	router.HandleFunc("/api/connections/{userA}/{userB}", connectionHandler.CheckMutual).Methods("GET")

	// Persona endpoints
	router.HandleFunc("/api/users/{userId}/persona", personaHandler.PutPersona).Methods("PUT")
	router.HandleFunc("/api/users/{userId}/persona", personaHandler.GetPersona).Methods("GET")

	// Discovery endpoint
	router.HandleFunc("/api/users/{userId}/discover", discoveryHandler.Discover).Methods("GET")

	// Feed endpoint
	router.HandleFunc("/api/users/{userId}/feed", feedHandler.GetFeed).Methods("GET")

	return router
}
