package prefix

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ledokol-inc/socialload/backend"
	"github.com/ledokol-inc/socialload/generator"
)

const (
	DefaultLength   = 3
	DefaultAttempts = 10000
	reportInterval  = 100
)

// Sink receives every accepted prefix as soon as it is found.
type Sink func(record generator.PrefixRecord) error

type Discoverer struct {
	API backend.API
	Gen *generator.PrefixGenerator
	// Sink is optional.
	Sink Sink
}

type DiscoveryStats struct {
	Attempts         int
	Accepted         int
	ConnectionErrors int
}

// Run probes the search endpoint with attempts random prefix pairs and keeps
// the pairs answered with status 200, whatever the body. A sink failure stops the run; backend failures
// never do.
func (discoverer *Discoverer) Run(ctx context.Context, attempts int) ([]generator.PrefixRecord, DiscoveryStats, error) {
	var stats DiscoveryStats
	accepted := make([]generator.PrefixRecord, 0)

	for stats.Attempts < attempts {
		if ctx.Err() != nil {
			log.Warn().Int("attempts", stats.Attempts).Msg("Prefix discovery interrupted")
			return accepted, stats, nil
		}
		pair := discoverer.Gen.NextPair()
		result := discoverer.API.SearchUsers(ctx, pair.FirstName, pair.SecondName)
		stats.Attempts++

		switch {
		case result.Err != nil && result.Status == 0:
			stats.ConnectionErrors++
			log.Warn().Err(result.Err).Msg("failed to connect")
		case result.Status == http.StatusOK:
			if result.Err != nil {
				log.Warn().Err(result.Err).Str("requestId", result.RequestID).Msg("Prefix accepted with unreadable body")
			}
			accepted = append(accepted, pair)
			stats.Accepted++
			if discoverer.Sink != nil {
				if err := discoverer.Sink(pair); err != nil {
					return accepted, stats, fmt.Errorf("can't persist prefix: %w", err)
				}
			}
		}

		if stats.Attempts%reportInterval == 0 {
			log.Info().Msgf("%d/%d prefixes are handled, valid prefixes: %v", stats.Attempts, attempts, accepted)
		}
	}
	log.Info().Int("attempts", stats.Attempts).Int("accepted", stats.Accepted).
		Int("connectionErrors", stats.ConnectionErrors).Msg("Prefix discovery finished")
	return accepted, stats, nil
}

// Validate replays prefixes and returns those the search endpoint no longer
// answers with status 200.
func Validate(ctx context.Context, api backend.API, prefixes []generator.PrefixRecord) []generator.PrefixRecord {
	var rejected []generator.PrefixRecord
	for _, pair := range prefixes {
		if ctx.Err() != nil {
			break
		}
		if api.SearchUsers(ctx, pair.FirstName, pair.SecondName).Status != http.StatusOK {
			rejected = append(rejected, pair)
		}
	}
	return rejected
}
