package commands

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ledokol-inc/socialload/generator"
	"github.com/ledokol-inc/socialload/synth"
)

var (
	initFromStore bool
	initPostsEach bool
)

func init() {
	initCmd.Flags().BoolVar(&initFromStore, "from-store", false, "Reuse the saved population instead of bootstrapping the corpus.")
	initCmd.Flags().BoolVar(&initPostsEach, "posts-each", false, "Draw the posts count per user instead of once for everybody.")
	initCmd.Flags().Duration("settle-delay", 0, "Pause before the feed is replayed.")
	bindFlag(initCmd.Flags().Lookup("settle-delay"), "synth.settle-delay")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [--from-store] [--posts-each] [--settle-delay 60s]",
	Short: "Bootstraps the corpus into sessions, then creates friendships and posts and replays a feed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		start := time.Now()

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		api := newAPI(cfg)
		pop, err := loadPopulation(ctx, cfg, api, st, initFromStore)
		if err != nil {
			return err
		}

		synthesizer := synth.New(api, generator.New(cfg.Seed), pop)
		var total synth.Stats

		friends, err := synthesizer.MakeFriends(ctx, cfg.Synth.Friends)
		total.Merge(friends)
		if err != nil {
			return err
		}

		createPosts := synthesizer.CreatePosts
		if initPostsEach {
			createPosts = synthesizer.CreatePostsEach
		}
		posts, err := createPosts(ctx, cfg.Synth.Posts)
		total.Merge(posts)
		if err != nil {
			return err
		}

		log.Info().Dur("delay", cfg.Synth.SettleDelay).Msg("Waiting for feeds to settle")
		if err = sleepContext(ctx, cfg.Synth.SettleDelay); err != nil {
			return err
		}

		feed, err := synthesizer.ReplayFeed(ctx, cfg.Synth.Feed.Offset, cfg.Synth.Feed.Limit, cfg.Synth.Feed.All)
		total.Merge(feed)
		recordRun(st, cmd.Name(), start, pop.Len(), total)
		return err
	},
}
