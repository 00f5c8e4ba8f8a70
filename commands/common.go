package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/ledokol-inc/socialload/backend"
	"github.com/ledokol-inc/socialload/config"
	"github.com/ledokol-inc/socialload/population"
	"github.com/ledokol-inc/socialload/store"
	"github.com/ledokol-inc/socialload/synth"
)

// bindFlag lets a flag override the configuration key only when it was set.
func bindFlag(flag *pflag.Flag, key string) {
	if err := settings.BindPFlag(key, flag); err != nil {
		panic(fmt.Errorf("can't bind flag %s: %w", flag.Name, err))
	}
}

func newAPI(cfg *config.Config) backend.API {
	return backend.NewClient(cfg.Backend.Endpoints)
}

func openStore(cfg *config.Config) (store.Store, error) {
	st, err := store.New(cfg.Store.Kind, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("can't open store: %w", err)
	}
	return st, nil
}

// loadPopulation reads the saved sessions when fromStore is set and otherwise
// bootstraps the people corpus against the backend.
func loadPopulation(ctx context.Context, cfg *config.Config, api backend.API, st store.Store, fromStore bool) (*population.Population, error) {
	if fromStore {
		sessions, err := st.LoadSessions(cfg.Load.Population)
		if err != nil {
			return nil, fmt.Errorf("can't load population %q: %w", cfg.Load.Population, err)
		}
		log.Info().Int("users", len(sessions)).Str("population", cfg.Load.Population).Msg("Population loaded from store")
		return population.FromSessions(sessions), nil
	}

	bootstrapper := population.NewBootstrapper(api, cfg.Backend.Password)
	pop, stats, err := bootstrapper.BootstrapFile(ctx, cfg.Corpus.PeopleFile)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("registered", stats.Registered).
		Int("loggedIn", stats.LoggedIn).
		Int("failed", stats.FailedSignup+stats.FailedLogin).
		Msg("Population bootstrapped")
	if err = st.SaveSessions(cfg.Load.Population, pop.Sessions()); err != nil {
		return nil, fmt.Errorf("can't save population: %w", err)
	}
	return pop, nil
}

func recordRun(st store.Store, command string, start time.Time, users int, stats synth.Stats) {
	id, err := st.InsertRun(store.Run{
		Command:   command,
		StartTime: start.Unix(),
		EndTime:   time.Now().Unix(),
		Users:     users,
		Calls:     stats.Calls,
		Failed:    stats.Failed,
	})
	if err != nil {
		log.Error().Err(err).Str("command", command).Msg("Can't save run")
		return
	}
	log.Info().Int64("run", id).Str("command", command).Int("calls", stats.Calls).Int("failed", stats.Failed).Msg("Run saved")
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
