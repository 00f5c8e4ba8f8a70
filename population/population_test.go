package population

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledokol-inc/socialload/backend"
	"github.com/ledokol-inc/socialload/backend/backendtest"
	"github.com/ledokol-inc/socialload/corpus"
	"github.com/ledokol-inc/socialload/generator"
)

func records(n int) []generator.PersonRecord {
	return corpus.GeneratePeople(generator.New(generator.DefaultSeed), n)
}

func TestPopulationAddRejectsDuplicates(t *testing.T) {
	population := New()
	assert.True(t, population.Add("u1", "t1"))
	assert.False(t, population.Add("u1", "t2"))
	assert.False(t, population.Add("u2", "t1"))
	assert.True(t, population.Add("u2", "t2"))
	assert.Equal(t, []string{"u1", "u2"}, population.IDs())

	token, ok := population.Token("u2")
	assert.True(t, ok)
	assert.Equal(t, "t2", token)
}

func TestSampleWithoutReplacement(t *testing.T) {
	population := New()
	for i := 0; i < 20; i++ {
		population.Add(fmt.Sprintf("u%d", i), fmt.Sprintf("t%d", i))
	}
	rnd := rand.New(rand.NewSource(1))
	for k := 0; k <= 25; k++ {
		sample := population.Sample(rnd, k)
		expected := k
		if k > 20 {
			expected = 20
		}
		require.Len(t, sample, expected)
		seen := map[string]bool{}
		for _, id := range sample {
			assert.False(t, seen[id], "duplicate %s", id)
			seen[id] = true
		}
	}

	sessions := population.SampleSessions(rnd, 2)
	require.Len(t, sessions, 2)
	for _, session := range sessions {
		token, _ := population.Token(session.UserID)
		assert.Equal(t, token, session.Token)
	}
}

func TestBootstrapAllSucceed(t *testing.T) {
	fake := backendtest.NewFake()
	population, stats := NewBootstrapper(fake, "").Bootstrap(context.Background(), records(10))

	assert.Equal(t, 10, population.Len())
	assert.Equal(t, 10, stats.LoggedIn)

	tokens := map[string]bool{}
	for _, session := range population.Sessions() {
		assert.False(t, tokens[session.Token])
		tokens[session.Token] = true
	}
	assert.Len(t, fake.Calls("register"), 10)
	assert.Len(t, fake.Calls("login"), 10)

	// register is always followed by the login of the same user
	calls := fake.Calls("")
	for i := 0; i < len(calls); i += 2 {
		assert.Equal(t, "register", calls[i].Operation)
		assert.Equal(t, "login", calls[i+1].Operation)
		assert.Equal(t, fmt.Sprintf("user-%d", i/2+1), calls[i+1].Target)
	}
}

func TestBootstrapSkipsFailures(t *testing.T) {
	fake := backendtest.NewFake()
	fake.FailRegister[2] = true
	fake.FailLogin[3] = true

	population, stats := NewBootstrapper(fake, DefaultPassword).Bootstrap(context.Background(), records(5))

	assert.Equal(t, 3, population.Len())
	assert.Equal(t, 1, stats.FailedSignup)
	assert.Equal(t, 1, stats.FailedLogin)
	assert.Equal(t, 4, stats.Registered)
	// the failed registration gets no login attempt
	assert.Len(t, fake.Calls("login"), 4)

	// user-4 registered but its login (3rd) failed
	_, exists := population.Token("user-4")
	assert.False(t, exists)
	assert.Equal(t, []string{"user-1", "user-3", "user-5"}, population.IDs())
}

func TestBootstrapReportsProgressOnFailedRecords(t *testing.T) {
	previous := log.Logger
	defer func() { log.Logger = previous }()
	var buffer bytes.Buffer
	log.Logger = zerolog.New(&buffer)

	fake := backendtest.NewFake()
	fake.FailRegister[100] = true
	// the 200th record is the 199th login because record 100 never logs in
	fake.FailLogin[199] = true

	_, stats := NewBootstrapper(fake, DefaultPassword).Bootstrap(context.Background(), records(200))
	assert.Equal(t, 1, stats.FailedSignup)
	assert.Equal(t, 1, stats.FailedLogin)
	assert.Equal(t, 2, bytes.Count(buffer.Bytes(), []byte(`"message":"Creating users"`)))
}

func TestBootstrapDuplicateTokenIsNotAdded(t *testing.T) {
	fake := backendtest.NewFake()
	fake.Tokens["user-2"] = "token-user-1"

	population, stats := NewBootstrapper(fake, "").Bootstrap(context.Background(), records(3))
	assert.Equal(t, 2, population.Len())
	assert.Equal(t, 1, stats.Duplicates)
}

func TestBootstrapStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	population, stats := NewBootstrapper(backendtest.NewFake(), "").Bootstrap(ctx, records(5))
	assert.Zero(t, population.Len())
	assert.Zero(t, stats.Records)
}

func TestBootstrapFileAgainstHTTPBackend(t *testing.T) {
	server := backendtest.NewServer("/api/v2")
	defer server.Close()
	server.FailLogin[2] = true

	path := filepath.Join(t.TempDir(), "people_small.csv")
	gen := generator.New(generator.DefaultSeed).WithReferenceDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, corpus.WritePeople(path, corpus.GeneratePeople(gen, 4), corpus.DefaultDelimiter))

	client := backend.NewClient(backend.Endpoints{Social: server.URL, Prefix: "/api/v2"})
	population, stats, err := NewBootstrapper(client, DefaultPassword).BootstrapFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 3, population.Len())
	assert.Equal(t, 4, server.UserCount())
	assert.Equal(t, 1, stats.FailedLogin)

	_, _, err = NewBootstrapper(client, "").BootstrapFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
