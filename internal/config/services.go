package config

import (
	"fmt"

	"github.com/iwvelando/repair-reserve/internal/advisor"
	"github.com/iwvelando/repair-reserve/internal/cache"
	"github.com/iwvelando/repair-reserve/internal/chat"
	"github.com/iwvelando/repair-reserve/internal/lookup"
	"github.com/iwvelando/repair-reserve/pkg/constants"
	"go.uber.org/zap"
)

// Services bundles the collaborator services built from a Configuration.
type Services struct {
	Advisor *advisor.Service
	Lookup  *lookup.Service
}

// BuildServices wires the advice and lookup collaborators. A collaborator
// without an API key is still returned; it answers with fallback text or
// "not found".
func (c *Configuration) BuildServices(logger *zap.Logger) (*Services, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	adviceClient, err := chat.NewClient(c.Advisor, constants.DefaultAdviceMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to configure advisor: %w", err)
	}
	var adv advisor.Advisor
	if adviceClient.Enabled() {
		adv = advisor.NewChatAdvisor(adviceClient)
	} else {
		logger.Info("advisor disabled, no API key configured",
			zap.String("op", "config.BuildServices"),
		)
	}

	lookupClient, err := chat.NewClient(c.Lookup.Config, constants.DefaultLookupMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to configure lookup: %w", err)
	}
	var look lookup.Lookup
	if lookupClient.Enabled() {
		repo, err := cache.New(logger, c.Cache)
		if err != nil {
			return nil, fmt.Errorf("failed to configure cache: %w", err)
		}
		look = lookup.NewCachedLookup(logger, lookup.NewChatLookup(lookupClient), repo, c.LookupCacheTTL())
	} else {
		logger.Info("complex lookup disabled, no API key configured",
			zap.String("op", "config.BuildServices"),
		)
	}

	return &Services{
		Advisor: advisor.NewService(logger, adv),
		Lookup:  lookup.NewService(logger, look),
	}, nil
}
