package synth

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog/log"

	"github.com/ledokol-inc/socialload/backend"
	"github.com/ledokol-inc/socialload/generator"
	"github.com/ledokol-inc/socialload/population"
)

var ErrPopulationTooSmall = errors.New("population has fewer than two users")

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min int `mapstructure:"min"`
	Max int `mapstructure:"max"`
}

func (r Range) Validate() error {
	if r.Min < 0 || r.Max < r.Min {
		return fmt.Errorf("invalid range [%d, %d]", r.Min, r.Max)
	}
	return nil
}

func (r Range) Draw(rnd *rand.Rand) int {
	return r.Min + rnd.Intn(r.Max-r.Min+1)
}

// Stats counts issued and failed backend calls.
type Stats struct {
	Calls  int
	Failed int
}

func (stats *Stats) add(result backend.Result) {
	stats.Calls++
	if !result.OK() {
		stats.Failed++
	}
}

func (stats *Stats) Merge(other Stats) {
	stats.Calls += other.Calls
	stats.Failed += other.Failed
}

// Synthesizer issues friendship, post and dialog calls on behalf of an
// already bootstrapped population. Calls are sequential.
type Synthesizer struct {
	API        backend.API
	Gen        *generator.Generator
	Rand       *rand.Rand
	Population *population.Population
}

func New(api backend.API, gen *generator.Generator, pop *population.Population) *Synthesizer {
	return &Synthesizer{API: api, Gen: gen, Rand: gen.Rand(), Population: pop}
}

// MakeFriends has every user add k random users, k drawn per user from
// friends. Self-pairs are skipped, so a user issues at most k calls.
func (synth *Synthesizer) MakeFriends(ctx context.Context, friends Range) (Stats, error) {
	var stats Stats
	if err := friends.Validate(); err != nil {
		return stats, err
	}
	for _, id := range synth.Population.IDs() {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		token, _ := synth.Population.Token(id)
		count := friends.Draw(synth.Rand)
		for _, friend := range synth.Population.Sample(synth.Rand, count) {
			if friend == id {
				continue
			}
			stats.add(synth.API.AddFriend(ctx, friend, token))
		}
	}
	log.Info().Int("calls", stats.Calls).Int("failed", stats.Failed).Msg("Friends created")
	return stats, nil
}

// CreatePosts draws one post count and has every user create that many posts.
func (synth *Synthesizer) CreatePosts(ctx context.Context, posts Range) (Stats, error) {
	if err := posts.Validate(); err != nil {
		return Stats{}, err
	}
	count := posts.Draw(synth.Rand)
	log.Info().Int("postsPerUser", count).Msg("Creating posts")
	return synth.createPosts(ctx, func() int { return count })
}

// CreatePostsEach draws the post count separately for every user.
func (synth *Synthesizer) CreatePostsEach(ctx context.Context, posts Range) (Stats, error) {
	if err := posts.Validate(); err != nil {
		return Stats{}, err
	}
	return synth.createPosts(ctx, func() int { return posts.Draw(synth.Rand) })
}

func (synth *Synthesizer) createPosts(ctx context.Context, count func() int) (Stats, error) {
	var stats Stats
	for _, session := range synth.Population.Sessions() {
		n := count()
		for i := 0; i < n; i++ {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			text := synth.Gen.NextParagraph(generator.PostSentences, true)
			stats.add(synth.API.CreatePost(ctx, text, session.Token))
		}
	}
	log.Info().Int("calls", stats.Calls).Int("failed", stats.Failed).Msg("Posts created")
	return stats, nil
}

// ReplayFeed reads the feed of one random user, or of every user when all is
// set, to check that writes became visible.
func (synth *Synthesizer) ReplayFeed(ctx context.Context, offset int, limit int, all bool) (Stats, error) {
	var stats Stats
	sessions := synth.Population.SampleSessions(synth.Rand, 1)
	if all {
		sessions = synth.Population.Sessions()
	}
	if len(sessions) == 0 {
		return stats, ErrPopulationTooSmall
	}
	for _, session := range sessions {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		feed := synth.API.GetFeed(ctx, offset, limit, session.Token)
		stats.add(feed.Result)
		if feed.OK() {
			event := log.Info().Str("userId", session.UserID).Int("posts", len(feed.Posts))
			if len(feed.Posts) > 0 {
				event = event.Str("first", feed.Posts[0].Text)
			}
			event.Msg("Feed")
		}
	}
	return stats, nil
}
