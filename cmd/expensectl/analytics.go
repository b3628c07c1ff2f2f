package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"expenses/internal/analytics"
	"expenses/internal/cli"
)

const barWidth = 30

func analyticsCmd(a *app) *cobra.Command {
	var (
		window string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show spending by category for today or the last 7 days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := analytics.ParseWindow(window)
			if err != nil {
				return err
			}

			st, done, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer done()

			summary := analytics.Summarize(st.Expenses(), w, time.Now())
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}

			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%s: %s across %d expenses", summary.Label, summary.Total.String(), summary.Count)))
			if len(summary.Categories) == 0 {
				_, err := fmt.Fprintln(out, cli.SubtleStyle.Render("No expenses in this period."))
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, ct := range summary.Categories {
				style := cli.CategoryStyle(ct.Category)
				bar := strings.Repeat("█", int(ct.Percentage/100*barWidth+0.5))
				fmt.Fprintf(tw, "%s\t%s\t%5.1f%%\t%s\n",
					style.Render(string(ct.Category)),
					ct.Total.String(),
					ct.Percentage,
					style.Render(bar))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&window, "range", "r", string(analytics.DefaultWindow), "time window (1D, 1W)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a chart")
	return cmd
}
