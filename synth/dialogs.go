package synth

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/ledokol-inc/socialload/generator"
	"github.com/ledokol-inc/socialload/population"
)

const DefaultTruncate = 400

// Pair is two distinct users that exchanged messages.
type Pair struct {
	First  population.Session
	Second population.Session
}

type DialogOptions struct {
	Pairs    int   `mapstructure:"pairs"`
	Messages Range `mapstructure:"messages"`
	// RepeatFirst is how many times each message from the first user is sent.
	// Values below one mean once.
	RepeatFirst int `mapstructure:"repeat-first"`
	Truncate    int `mapstructure:"truncate"`
}

// InitDialogs samples opts.Pairs user pairs and has each pair exchange
// message/response couples. It returns the sampled pairs in order.
func (synth *Synthesizer) InitDialogs(ctx context.Context, opts DialogOptions) ([]Pair, Stats, error) {
	var stats Stats
	if err := opts.Messages.Validate(); err != nil {
		return nil, stats, err
	}
	if synth.Population.Len() < 2 {
		return nil, stats, ErrPopulationTooSmall
	}
	repeat := opts.RepeatFirst
	if repeat < 1 {
		repeat = 1
	}

	pairs := make([]Pair, 0, opts.Pairs)
	for i := 0; i < opts.Pairs; i++ {
		if ctx.Err() != nil {
			return pairs, stats, ctx.Err()
		}
		sessions := synth.Population.SampleSessions(synth.Rand, 2)
		pair := Pair{First: sessions[0], Second: sessions[1]}
		pairs = append(pairs, pair)

		count := opts.Messages.Draw(synth.Rand)
		for j := 0; j < count; j++ {
			message := generator.Truncate(synth.Gen.NextParagraph(generator.PostSentences, true), opts.Truncate)
			response := generator.Truncate(synth.Gen.NextParagraph(generator.PostSentences, true), opts.Truncate)
			for r := 0; r < repeat; r++ {
				stats.add(synth.API.SendMessage(ctx, pair.Second.UserID, message, pair.First.Token))
			}
			stats.add(synth.API.SendMessage(ctx, pair.First.UserID, response, pair.Second.Token))
		}
	}
	log.Info().Int("pairs", len(pairs)).Int("calls", stats.Calls).Int("failed", stats.Failed).Msg("Dialogs initialized")
	return pairs, stats, nil
}

// ListDialogs reads every pair's dialog from both sides.
func (synth *Synthesizer) ListDialogs(ctx context.Context, pairs []Pair) (Stats, error) {
	var stats Stats
	for _, pair := range pairs {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		for _, side := range [][2]population.Session{{pair.First, pair.Second}, {pair.Second, pair.First}} {
			dialog := synth.API.ListDialog(ctx, side[1].UserID, side[0].Token)
			stats.add(dialog.Result)
			if dialog.OK() {
				log.Debug().Str("userId", side[0].UserID).Str("with", side[1].UserID).
					Int("messages", len(dialog.Messages)).Msg("Dialog")
			}
		}
	}
	return stats, nil
}
