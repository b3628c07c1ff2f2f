package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"expenses/internal/cli"
	"expenses/internal/core"
	"expenses/internal/table"
)

func listCmd(a *app) *cobra.Command {
	var (
		column    string
		direction string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses as a sorted table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			state := table.DefaultSortState
			if column != "" {
				c, err := table.ParseColumn(column)
				if err != nil {
					return err
				}
				state = table.SortState{Column: c, Direction: table.Asc}
			}
			if direction != "" {
				d, err := table.ParseDirection(direction)
				if err != nil {
					return err
				}
				state.Direction = d
			}

			st, done, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer done()

			sorter, err := a.sorter()
			if err != nil {
				return err
			}
			rows := sorter.Sort(st.Expenses(), state)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			return renderTable(out, rows, state)
		},
	}
	cmd.Flags().StringVar(&column, "sort", "", "sort column (date, description, category, amount)")
	cmd.Flags().StringVar(&direction, "dir", "", "sort direction (asc, desc)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func renderTable(out io.Writer, rows []core.Expense, state table.SortState) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(out, cli.SubtleStyle.Render("No expenses yet. Use 'expensectl add' to record one."))
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	header := []string{"ID", "Date", "Description", "Category", "Amount"}
	for i, h := range header {
		if strings.EqualFold(h, string(state.Column)) {
			header[i] = h + sortArrow(state.Direction)
		}
		header[i] = cli.TableHeaderStyle.Render(header[i])
	}
	if _, err := fmt.Fprintln(w, strings.Join(header, "\t")); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	var total core.Money
	for _, e := range rows {
		total = total.Add(e.Amount)
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			shortID(e.ID),
			e.Date.Format("2006-01-02"),
			e.Description,
			cli.CategoryStyle(e.Category).Render(string(e.Category)),
			e.Amount.String()); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "\n%d expenses, total %s\n", len(rows), total.String())
	return err
}

func sortArrow(d table.Direction) string {
	if d == table.Desc {
		return " ↓"
	}
	return " ↑"
}

// shortID keeps the table narrow; commands accept full ids and unique
// prefixes alike.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
