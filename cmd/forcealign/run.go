package main

import (
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ieee0824/forcealign/audio"
	"github.com/ieee0824/forcealign/runner"
	"github.com/ieee0824/forcealign/store"
)

func (a *app) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Align every verse of the corpus that has no stored timings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := a.cfg

			src, err := openCorpus(ctx, cfg)
			if err != nil {
				return err
			}
			defer src.Close()

			st, err := store.Open(cfg.Store.Path)
			if err != nil {
				return err
			}
			aligner, err := buildAligner(cfg)
			if err != nil {
				return err
			}

			r := runner.New(src,
				audio.NewPatternLocator(cfg.Audio.Root, cfg.Audio.Pattern),
				aligner.Loader,
				aligner,
				st,
				runner.WithSkipLogEvery(cfg.Runner.SkipLogEvery),
			)
			sum, err := r.Run(ctx)
			log.WithFields(log.Fields{
				"total":          sum.Total,
				"skipped":        sum.Skipped,
				"processed":      sum.Processed,
				"last_completed": sum.LastCompleted,
				"store":          cfg.Store.Path,
			}).Info("summary")

			var uerr *runner.UtteranceError
			if errors.As(err, &uerr) {
				log.WithField("utterance", uerr.ID).Error("fix the failing utterance and rerun to resume")
			}
			return err
		},
	}
	cmd.Flags().String("audio-root", "", "directory holding the chapter audio folders")
	a.bind(cmd.Flags().Lookup("audio-root"), "audio.root")
	return cmd
}
