package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ledokol-inc/socialload/corpus"
	"github.com/ledokol-inc/socialload/generator"
)

func init() {
	generateCmd.Flags().Int("count", 0, "Number of people to generate.")
	generateCmd.Flags().String("out", "", "Output corpus file.")
	bindFlag(generateCmd.Flags().Lookup("count"), "corpus.size")
	bindFlag(generateCmd.Flags().Lookup("out"), "corpus.people-file")

	generatePostsCmd.Flags().Int("count", 0, "Number of posts to generate.")
	generatePostsCmd.Flags().String("out", "", "Output posts file.")
	generatePostsCmd.Flags().String("author", "", "Author id of every post.")
	bindFlag(generatePostsCmd.Flags().Lookup("count"), "corpus.posts-count")
	bindFlag(generatePostsCmd.Flags().Lookup("out"), "corpus.posts-file")
	bindFlag(generatePostsCmd.Flags().Lookup("author"), "corpus.post-author")

	rootCmd.AddCommand(generateCmd, generatePostsCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate [--count N] [--out people.csv]",
	Short: "Writes a tab-delimited corpus of synthetic people for bulk import.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Corpus.Size < 0 {
			return fmt.Errorf("negative corpus size %d", cfg.Corpus.Size)
		}
		gen := generator.New(cfg.Seed)
		records := corpus.GeneratePeople(gen, cfg.Corpus.Size)
		if err := corpus.WritePeople(cfg.Corpus.PeopleFile, records, corpus.DefaultDelimiter); err != nil {
			return err
		}
		log.Info().Int("records", len(records)).Str("file", cfg.Corpus.PeopleFile).Msg("People corpus written")
		return nil
	},
}

var generatePostsCmd = &cobra.Command{
	Use:   "generate-posts [--count N] [--out posts.csv] [--author ID]",
	Short: "Writes a tab-delimited file of synthetic posts of one author.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Corpus.PostsCount < 0 {
			return fmt.Errorf("negative posts count %d", cfg.Corpus.PostsCount)
		}
		gen := generator.New(cfg.Seed)
		posts := make([]generator.PostRecord, 0, cfg.Corpus.PostsCount)
		for i := 0; i < cfg.Corpus.PostsCount; i++ {
			posts = append(posts, gen.NextPost(cfg.Corpus.PostAuthor))
		}
		if err := corpus.WritePosts(cfg.Corpus.PostsFile, posts); err != nil {
			return err
		}
		log.Info().Int("records", len(posts)).Str("file", cfg.Corpus.PostsFile).Msg("Posts written")
		return nil
	},
}
