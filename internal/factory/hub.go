package factory

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/castmatch/castmatch-backend/internal/config"
	"github.com/castmatch/castmatch-backend/internal/hub"
)

// NewHubSource creates the content hub client from config. The hub is an
// external federated service; a missing API key means the hub allows
// unauthenticated reads.
func NewHubSource(cfg *config.Config, log zerolog.Logger) hub.Source {
	timeout := time.Duration(cfg.HubTimeoutSeconds) * time.Second
	client := hub.NewClient(cfg.HubBaseURL, cfg.HubAPIKey, timeout)

	log.Debug().
		Str("base_url", cfg.HubBaseURL).
		Dur("timeout", timeout).
		Bool("authenticated", cfg.HubAPIKey != "").
		Msg("hub source ready")

	return client
}
