package engine

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/nulzo/provider-engine/internal/cli"
	"github.com/nulzo/provider-engine/internal/core/domain"
	"github.com/nulzo/provider-engine/internal/probe"
	"go.uber.org/zap"
)

// BuildProbers constructs a prober per enabled provider from configuration.
// Providers whose config fails validation or whose type has no registered
// factory are skipped with a warning; they will read as unhealthy until fixed.
func BuildProbers(providers []domain.ProviderConfig, log *zap.Logger) map[string]probe.Prober {
	probers := make(map[string]probe.Prober)
	validate := validator.New()

	for _, pCfg := range providers {
		if !pCfg.Enabled {
			continue
		}

		if err := validate.Struct(&pCfg); err != nil {
			log.Warn(fmt.Sprintf("%s %s %s",
				cli.CrossMark(),
				cli.Style(pCfg.Name, cli.Bold),
				cli.Style("skipping prober: invalid provider config", cli.Yellow),
			))
			continue
		}

		p, err := probe.New(pCfg)
		if err != nil {
			log.Error("Failed to build prober",
				zap.String("provider", pCfg.Name),
				zap.String("type", pCfg.Type),
				zap.Error(err),
			)
			continue
		}

		probers[pCfg.Name] = p
	}

	if len(probers) == 0 {
		log.Warn("No probers were built. All providers will read as unhealthy.")
	}

	return probers
}
