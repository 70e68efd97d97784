package relay

import (
	"gemini-relay/backend"
	"gemini-relay/config"
)

// FromConfig wires a Relay to the upstream and credential described by cfg.
func FromConfig(cfg *config.Config) *Relay {
	client := backend.NewBackendClient(cfg.APIRoot, cfg.Model, cfg.UpstreamTimeout)
	return New(client, config.NewCredential(cfg.APIKeyEnv))
}
