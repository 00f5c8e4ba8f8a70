package synth

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledokol-inc/socialload/backend"
	"github.com/ledokol-inc/socialload/backend/backendtest"
	"github.com/ledokol-inc/socialload/corpus"
	"github.com/ledokol-inc/socialload/generator"
	"github.com/ledokol-inc/socialload/population"
)

func newPopulation(n int) *population.Population {
	pop := population.New()
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("user-%d", i)
		pop.Add(id, "token-"+id)
	}
	return pop
}

func TestMakeFriendsNeverAddsSelf(t *testing.T) {
	fake := backendtest.NewFake()
	pop := newPopulation(5)
	synth := New(fake, generator.New(1), pop)

	// k == population size always samples the caller itself
	stats, err := synth.MakeFriends(context.Background(), Range{Min: 5, Max: 5})
	require.NoError(t, err)

	calls := fake.Calls("add_friend")
	assert.Len(t, calls, 20)
	assert.Equal(t, 20, stats.Calls)
	perUser := map[string]map[string]bool{}
	for _, call := range calls {
		caller := backendtest.UserOfToken(call.Token)
		assert.NotEqual(t, caller, call.Target)
		if perUser[caller] == nil {
			perUser[caller] = map[string]bool{}
		}
		assert.False(t, perUser[caller][call.Target], "duplicate friend")
		perUser[caller][call.Target] = true
	}
}

func TestMakeFriendsBoundedByRange(t *testing.T) {
	fake := backendtest.NewFake()
	synth := New(fake, generator.New(2), newPopulation(30))

	_, err := synth.MakeFriends(context.Background(), Range{Min: 0, Max: 4})
	require.NoError(t, err)

	perUser := map[string]int{}
	for _, call := range fake.Calls("add_friend") {
		perUser[backendtest.UserOfToken(call.Token)]++
	}
	for user, count := range perUser {
		assert.LessOrEqual(t, count, 4, user)
	}

	_, err = synth.MakeFriends(context.Background(), Range{Min: 3, Max: 1})
	assert.Error(t, err)
}

func TestCreatePostsSharedCount(t *testing.T) {
	fake := backendtest.NewFake()
	synth := New(fake, generator.New(3), newPopulation(4))

	_, err := synth.CreatePosts(context.Background(), Range{Min: 0, Max: 10})
	require.NoError(t, err)

	perUser := map[string]int{}
	for _, call := range fake.Calls("create_post") {
		perUser[call.Token]++
		assert.NotEmpty(t, call.Text)
	}
	counts := map[int]bool{}
	for _, count := range perUser {
		counts[count] = true
	}
	assert.LessOrEqual(t, len(counts), 1, "every user creates the same number of posts")
}

func TestCreatePostsEach(t *testing.T) {
	fake := backendtest.NewFake()
	synth := New(fake, generator.New(4), newPopulation(3))

	stats, err := synth.CreatePostsEach(context.Background(), Range{Min: 1, Max: 3})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.Calls, 3)
	assert.LessOrEqual(t, stats.Calls, 9)
}

func TestInitDialogs(t *testing.T) {
	fake := backendtest.NewFake()
	synth := New(fake, generator.New(5), newPopulation(10))

	pairs, stats, err := synth.InitDialogs(context.Background(), DialogOptions{
		Pairs:    7,
		Messages: Range{Min: 0, Max: 3},
		Truncate: DefaultTruncate,
	})
	require.NoError(t, err)
	require.Len(t, pairs, 7)
	for _, pair := range pairs {
		assert.NotEqual(t, pair.First.UserID, pair.Second.UserID)
	}
	calls := fake.Calls("send_message")
	assert.Equal(t, len(calls), stats.Calls)
	assert.Zero(t, len(calls)%2)
	for _, call := range calls {
		assert.LessOrEqual(t, len([]rune(call.Text)), DefaultTruncate)
	}
}

func TestInitDialogsDirectionAndRepeat(t *testing.T) {
	fake := backendtest.NewFake()
	synth := New(fake, generator.New(6), newPopulation(2))

	pairs, _, err := synth.InitDialogs(context.Background(), DialogOptions{
		Pairs:       1,
		Messages:    Range{Min: 1, Max: 1},
		RepeatFirst: 2,
	})
	require.NoError(t, err)
	pair := pairs[0]

	calls := fake.Calls("send_message")
	require.Len(t, calls, 3)
	assert.Equal(t, pair.Second.UserID, calls[0].Target)
	assert.Equal(t, pair.First.Token, calls[0].Token)
	assert.Equal(t, calls[0], calls[1])
	assert.Equal(t, pair.First.UserID, calls[2].Target)
	assert.Equal(t, pair.Second.Token, calls[2].Token)
	assert.NotEqual(t, calls[0].Text, calls[2].Text)

	stats, err := synth.ListDialogs(context.Background(), pairs)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Calls)
	assert.Len(t, fake.Calls("list_dialog"), 2)
}

func TestInitDialogsNeedsTwoUsers(t *testing.T) {
	synth := New(backendtest.NewFake(), generator.New(7), newPopulation(1))
	_, _, err := synth.InitDialogs(context.Background(), DialogOptions{Pairs: 1})
	assert.ErrorIs(t, err, ErrPopulationTooSmall)
}

func TestReplayFeed(t *testing.T) {
	fake := backendtest.NewFake()
	synth := New(fake, generator.New(8), newPopulation(3))

	_, err := synth.ReplayFeed(context.Background(), 0, 2, false)
	require.NoError(t, err)
	require.Len(t, fake.Calls("get_feed"), 1)
	assert.Equal(t, "0:2", fake.Calls("get_feed")[0].Target)

	stats, err := synth.ReplayFeed(context.Background(), 0, 2, true)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Calls)

	_, err = New(fake, generator.New(8), population.New()).ReplayFeed(context.Background(), 0, 2, false)
	assert.ErrorIs(t, err, ErrPopulationTooSmall)
}

func TestEndToEndAgainstHTTPBackend(t *testing.T) {
	server := backendtest.NewServer("")
	defer server.Close()
	client := backend.NewClient(backend.Endpoints{Social: server.URL})
	ctx := context.Background()

	gen := generator.New(generator.DefaultSeed)
	pop, _ := population.NewBootstrapper(client, population.DefaultPassword).
		Bootstrap(ctx, corpus.GeneratePeople(gen, 3))
	require.Equal(t, 3, pop.Len())

	synth := New(client, gen, pop)
	_, err := synth.MakeFriends(ctx, Range{Min: 0, Max: 0})
	require.NoError(t, err)
	assert.Zero(t, server.Calls("add_friend"))

	stats, err := synth.CreatePosts(ctx, Range{Min: 2, Max: 2})
	require.NoError(t, err)
	assert.Equal(t, 6, server.Calls("create_post"))
	assert.Zero(t, stats.Failed)
	for _, id := range pop.IDs() {
		assert.Equal(t, 2, server.PostCount(id))
	}

	pairs, stats, err := synth.InitDialogs(ctx, DialogOptions{Pairs: 2, Messages: Range{Min: 1, Max: 1}, Truncate: DefaultTruncate})
	require.NoError(t, err)
	assert.Zero(t, stats.Failed)
	assert.Equal(t, 4, server.MessageCount())

	stats, err = synth.ListDialogs(ctx, pairs)
	require.NoError(t, err)
	assert.Zero(t, stats.Failed)

	_, err = synth.ReplayFeed(ctx, 0, 2, true)
	require.NoError(t, err)
}
