package chat

import (
	"context"
	"fmt"

	openrouterx "deckpilot/pkg/openrouter"
)

// Preflight makes one cheap authenticated round trip to the model endpoint
// so a bad key or base URL surfaces before the first conversation turn.
func Preflight(ctx context.Context, cfg openrouterx.Config) error {
	client := openrouterx.NewClient(cfg)
	if client == nil {
		return fmt.Errorf("openrouter api key is missing")
	}
	if _, err := client.Models.List(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
