package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledokol-inc/socialload/population"
)

func openStores(t *testing.T) map[string]Store {
	dir := t.TempDir()
	bolt, err := New("bolt", filepath.Join(dir, "socialload.db"))
	require.NoError(t, err)
	file, err := New("file", filepath.Join(dir, "res"))
	require.NoError(t, err)
	t.Cleanup(func() {
		bolt.Close()
		file.Close()
	})
	return map[string]Store{"bolt": bolt, "file": file}
}

func TestSessionsRoundTrip(t *testing.T) {
	sessions := []population.Session{{UserID: "u1", Token: "t1"}, {UserID: "u2", Token: "t2"}}
	for kind, s := range openStores(t) {
		t.Run(kind, func(t *testing.T) {
			require.NoError(t, s.SaveSessions("small", sessions))
			loaded, err := s.LoadSessions("small")
			require.NoError(t, err)
			assert.Equal(t, sessions, loaded)

			require.NoError(t, s.SaveSessions("small", sessions[:1]))
			loaded, err = s.LoadSessions("small")
			require.NoError(t, err)
			assert.Equal(t, sessions[:1], loaded)

			_, err = s.LoadSessions("missing")
			var notFound *NotFoundError
			assert.True(t, errors.As(err, &notFound), "got %v", err)
		})
	}
}

func TestRunHistory(t *testing.T) {
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
	for kind, s := range openStores(t) {
		t.Run(kind, func(t *testing.T) {
			runs, err := s.FindAllRuns()
			require.NoError(t, err)
			assert.Empty(t, runs)

			first, err := s.InsertRun(Run{Command: "init", StartTime: start.Unix(), EndTime: start.Add(time.Minute).Unix(), Users: 3, Calls: 12})
			require.NoError(t, err)
			second, err := s.InsertRun(Run{Command: "dialogs", StartTime: start.Unix(), EndTime: start.Unix(), Failed: 1})
			require.NoError(t, err)
			assert.Greater(t, second, first)

			runs, err = s.FindAllRuns()
			require.NoError(t, err)
			require.Len(t, runs, 2)
			assert.Equal(t, "init", runs[0].Command)
			assert.Equal(t, "2024-01-02 03:04:05", runs[0].StartTime)
			assert.Equal(t, "2024-01-02 03:05:05", runs[0].EndTime)
			assert.Equal(t, 12, runs[0].Calls)
			assert.Equal(t, 1, runs[1].Failed)
		})
	}
}

func TestUnknownKind(t *testing.T) {
	_, err := New("redis", t.TempDir())
	assert.Error(t, err)
}
