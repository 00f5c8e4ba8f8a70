package commands

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ledokol-inc/socialload/corpus"
	"github.com/ledokol-inc/socialload/generator"
	"github.com/ledokol-inc/socialload/prefix"
	"github.com/ledokol-inc/socialload/synth"
)

var discoverValidate bool

func init() {
	discoverCmd.Flags().BoolVar(&discoverValidate, "validate", false, "Replay the saved prefixes instead of searching for new ones.")
	discoverCmd.Flags().Int("attempts", 0, "Number of random prefix pairs to try.")
	discoverCmd.Flags().Int("length", 0, "Prefix length in characters.")
	discoverCmd.Flags().String("out", "", "Prefix file the accepted pairs are appended to.")
	bindFlag(discoverCmd.Flags().Lookup("attempts"), "prefix.attempts")
	bindFlag(discoverCmd.Flags().Lookup("length"), "prefix.length")
	bindFlag(discoverCmd.Flags().Lookup("out"), "corpus.prefix-file")
	rootCmd.AddCommand(discoverCmd)
}

var discoverCmd = &cobra.Command{
	Use:   "discover [--attempts N] [--length N] [--out prefix.csv] [--validate]",
	Short: "Searches random name prefixes and keeps the pairs the backend finds users for.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		api := newAPI(cfg)

		if discoverValidate {
			prefixes, err := corpus.ReadPrefixes(cfg.Corpus.PrefixFile)
			if err != nil {
				return err
			}
			rejected := prefix.Validate(ctx, api, prefixes)
			log.Info().Int("prefixes", len(prefixes)).Int("rejected", len(rejected)).Msg("Prefixes validated")
			if len(rejected) > 0 {
				return fmt.Errorf("%d of %d prefixes are no longer found", len(rejected), len(prefixes))
			}
			return nil
		}

		start := time.Now()
		gen, err := generator.NewPrefixGenerator(cfg.Prefix.Alphabet, cfg.Prefix.Length, generator.New(cfg.Seed).Rand())
		if err != nil {
			return err
		}
		prefixFile, err := corpus.OpenPrefixFile(cfg.Corpus.PrefixFile)
		if err != nil {
			return err
		}
		defer prefixFile.Close()

		discoverer := &prefix.Discoverer{API: api, Gen: gen, Sink: prefixFile.Append}
		accepted, stats, err := discoverer.Run(ctx, cfg.Prefix.Attempts)
		log.Info().Int("accepted", len(accepted)).Str("file", cfg.Corpus.PrefixFile).Msg("Prefixes saved")

		if st, storeErr := openStore(cfg); storeErr == nil {
			recordRun(st, cmd.Name(), start, 0, synth.Stats{Calls: stats.Attempts, Failed: stats.Attempts - stats.Accepted})
			_ = st.Close()
		} else {
			log.Warn().Err(storeErr).Msg("Run is not saved")
		}
		return err
	},
}
