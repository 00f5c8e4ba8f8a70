package population

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ledokol-inc/socialload/backend"
	"github.com/ledokol-inc/socialload/corpus"
	"github.com/ledokol-inc/socialload/generator"
)

const (
	DefaultPassword  = "password"
	progressInterval = 100
)

type BootstrapStats struct {
	Records      int
	Registered   int
	LoggedIn     int
	FailedSignup int
	FailedLogin  int
	Duplicates   int
}

// Bootstrapper turns corpus records into authenticated sessions.
type Bootstrapper struct {
	API      backend.API
	Password string
}

func NewBootstrapper(api backend.API, password string) *Bootstrapper {
	if password == "" {
		password = DefaultPassword
	}
	return &Bootstrapper{API: api, Password: password}
}

func (bootstrapper *Bootstrapper) BootstrapFile(ctx context.Context, path string) (*Population, BootstrapStats, error) {
	records, err := corpus.ReadPeople(path, corpus.DefaultDelimiter)
	if err != nil {
		return nil, BootstrapStats{}, fmt.Errorf("can't read corpus: %w", err)
	}
	population, stats := bootstrapper.Bootstrap(ctx, records)
	return population, stats, nil
}

// Bootstrap registers and logs in every record in order. A record whose
// registration or login fails contributes no session; a user registered but
// not logged in stays invisible to the rest of the run.
func (bootstrapper *Bootstrapper) Bootstrap(ctx context.Context, records []generator.PersonRecord) (*Population, BootstrapStats) {
	population := New()
	stats := BootstrapStats{}

	for i, record := range records {
		if ctx.Err() != nil {
			log.Warn().Int("processed", i).Msg("Bootstrap interrupted")
			break
		}
		stats.Records++
		bootstrapper.bootstrapRecord(ctx, record, population, &stats)

		if stats.Records%progressInterval == 0 {
			log.Info().Int("processed", stats.Records).Int("total", len(records)).
				Int("sessions", population.Len()).Msg("Creating users")
		}
	}

	log.Info().Int("records", stats.Records).Int("registered", stats.Registered).
		Int("loggedIn", stats.LoggedIn).Int("failedSignup", stats.FailedSignup).
		Int("failedLogin", stats.FailedLogin).Msg("Users created")
	return population, stats
}

// bootstrapRecord registers and logs in one record, adding the session on
// success.
func (bootstrapper *Bootstrapper) bootstrapRecord(ctx context.Context, record generator.PersonRecord, population *Population, stats *BootstrapStats) {
	registered := bootstrapper.API.Register(ctx, record, bootstrapper.Password)
	if !registered.OK() {
		stats.FailedSignup++
		return
	}
	stats.Registered++

	login := bootstrapper.API.Login(ctx, registered.UserID, bootstrapper.Password)
	if !login.OK() {
		stats.FailedLogin++
		return
	}
	stats.LoggedIn++

	if !population.Add(registered.UserID, login.Token) {
		stats.Duplicates++
		log.Error().Str("userId", registered.UserID).Msg("Backend issued a duplicate user id or token")
	}
}
