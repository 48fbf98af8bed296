package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mind-engage/interview-coach/internal/interview"
)

func historyCMD() *cobra.Command {
	var limit, offset int
	var history = &cobra.Command{
		Use:   "history",
		Short: "List stored interviews, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := a.store.List(cmd.Context(), interview.ListOpts{Limit: limit, Offset: offset})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTARTED\tNAME\tSTATUS")
			for _, s := range list {
				status := "in progress"
				if s.IsComplete {
					status = "complete"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Timestamp.Local().Format(time.DateTime), s.Name, status)
			}
			return tw.Flush()
		},
	}
	history.Flags().IntVar(&limit, "limit", 20, "maximum rows")
	history.Flags().IntVar(&offset, "offset", 0, "rows to skip")
	return history
}
