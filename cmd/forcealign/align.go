package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func (a *app) newAlignCmd() *cobra.Command {
	var wavPath, text string
	cmd := &cobra.Command{
		Use:   "align",
		Short: "Align one audio file against its transcript and print word timings as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if wavPath == "" || text == "" {
				return fmt.Errorf("--wav and --text are required")
			}
			aligner, err := buildAligner(a.cfg)
			if err != nil {
				return err
			}
			words, err := aligner.AlignFile(cmd.Context(), wavPath, text)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(words)
		},
	}
	cmd.Flags().StringVar(&wavPath, "wav", "", "audio file (WAV at 16 kHz, or any format ffmpeg reads)")
	cmd.Flags().StringVar(&text, "text", "", "transcript of the audio")
	return cmd
}
