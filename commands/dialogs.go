package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ledokol-inc/socialload/generator"
	"github.com/ledokol-inc/socialload/synth"
)

var dialogsFromStore bool

func init() {
	dialogsCmd.Flags().BoolVar(&dialogsFromStore, "from-store", false, "Reuse the saved population instead of bootstrapping the corpus.")
	dialogsCmd.Flags().Int("pairs", 0, "Number of user pairs that exchange messages.")
	bindFlag(dialogsCmd.Flags().Lookup("pairs"), "synth.dialogs.pairs")
	rootCmd.AddCommand(dialogsCmd)
}

var dialogsCmd = &cobra.Command{
	Use:   "dialogs [--from-store] [--pairs N]",
	Short: "Makes random user pairs exchange messages, then lists both sides of every dialog.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		start := time.Now()

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		api := newAPI(cfg)
		pop, err := loadPopulation(ctx, cfg, api, st, dialogsFromStore)
		if err != nil {
			return err
		}

		synthesizer := synth.New(api, generator.New(cfg.Seed), pop)
		pairs, total, err := synthesizer.InitDialogs(ctx, cfg.Synth.Dialogs)
		if err != nil {
			return err
		}
		listed, err := synthesizer.ListDialogs(ctx, pairs)
		total.Merge(listed)
		recordRun(st, cmd.Name(), start, pop.Len(), total)
		return err
	},
}
