package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledokol-inc/socialload/backend/backendtest"
	"github.com/ledokol-inc/socialload/corpus"
	"github.com/ledokol-inc/socialload/store"
)

func writeConfig(t *testing.T, dir string, backendURL string) string {
	t.Helper()
	content := fmt.Sprintf(`
seed: 7
backend:
  social-url: %[1]s
corpus:
  people-file: %[2]s/people.csv
  posts-file: %[2]s/posts.csv
  prefix-file: %[2]s/prefix.csv
  size: 6
  posts-count: 4
synth:
  friends:
    min: 1
    max: 1
  posts:
    min: 2
    max: 2
  dialogs:
    pairs: 2
  settle-delay: 0s
prefix:
  length: 1
  attempts: 20
store:
  kind: file
  path: %[2]s/store
logging:
  file: %[2]s/socialload.log
  standard-output: none
`, backendURL, dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return run(context.Background())
}

func TestCommandsAgainstBackend(t *testing.T) {
	server := backendtest.NewServer("")
	defer server.Close()
	dir := t.TempDir()
	configPath := writeConfig(t, dir, server.URL)

	require.NoError(t, execute(t, "generate", "--config", configPath))
	people, err := corpus.ReadPeople(filepath.Join(dir, "people.csv"), corpus.DefaultDelimiter)
	require.NoError(t, err)
	assert.Len(t, people, 6)

	require.NoError(t, execute(t, "generate-posts", "--config", configPath))
	posts, err := os.ReadFile(filepath.Join(dir, "posts.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(posts), "03881183-2362-41c1-b4cd-7552724cdb33")

	require.NoError(t, execute(t, "init", "--config", configPath))
	assert.Equal(t, 6, server.UserCount())
	assert.Equal(t, 12, server.Calls("create_post"))
	assert.LessOrEqual(t, server.Calls("add_friend"), 6)
	assert.Equal(t, 1, server.Calls("get_feed"))

	require.NoError(t, execute(t, "dialogs", "--config", configPath, "--from-store"))
	assert.Equal(t, 6, server.Calls("register"))
	assert.Equal(t, 4, server.MessageCount())
	assert.Equal(t, 4, server.Calls("list_dialog"))

	require.NoError(t, execute(t, "discover", "--config", configPath))
	assert.Equal(t, 20, server.Calls("search_users"))
	prefixes, err := corpus.ReadPrefixes(filepath.Join(dir, "prefix.csv"))
	require.NoError(t, err)
	for _, record := range prefixes {
		assert.Len(t, []rune(record.FirstName), 1)
	}

	st, err := store.New("file", filepath.Join(dir, "store"))
	require.NoError(t, err)
	defer st.Close()
	sessions, err := st.LoadSessions("default")
	require.NoError(t, err)
	assert.Len(t, sessions, 6)
	runs, err := st.FindAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "init", runs[0].Command)
	assert.Equal(t, "dialogs", runs[1].Command)
	assert.Equal(t, "discover", runs[2].Command)
	assert.Equal(t, 20, runs[2].Calls)
}

func TestDialogsNeedTwoUsers(t *testing.T) {
	server := backendtest.NewServer("")
	defer server.Close()
	dir := t.TempDir()
	configPath := writeConfig(t, dir, server.URL)

	st, err := store.New("file", filepath.Join(dir, "store"))
	require.NoError(t, err)
	require.NoError(t, st.SaveSessions("default", nil))
	require.NoError(t, st.Close())

	assert.Error(t, execute(t, "dialogs", "--config", configPath, "--from-store"))
	assert.Zero(t, server.Calls("send_message"))
	// the log file is released even though the command failed
	assert.Nil(t, logCloser)
	require.FileExists(t, filepath.Join(dir, "socialload.log"))
}
