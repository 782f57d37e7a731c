package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ieee0824/forcealign/runner"
	"github.com/ieee0824/forcealign/store"
)

func (a *app) newStatusCmd() *cobra.Command {
	var listPending bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show how much of the corpus has stored timings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, err := openCorpus(ctx, a.cfg)
			if err != nil {
				return err
			}
			defer src.Close()
			st, err := store.Open(a.cfg.Store.Path)
			if err != nil {
				return err
			}

			p, err := runner.New(src, nil, nil, nil, st).Status(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "done:    %d\n", len(p.Done))
			fmt.Fprintf(out, "pending: %d\n", len(p.Pending))
			if listPending && len(p.Pending) > 0 {
				fmt.Fprintln(out, strings.Join(p.Pending, "\n"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&listPending, "pending", false, "list pending utterance ids")
	return cmd
}
