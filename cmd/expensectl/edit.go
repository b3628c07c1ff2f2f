package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"expenses/internal/cli"
	"expenses/internal/core"
	"expenses/internal/store"
)

// resolveID expands a unique id prefix to the full id.
func resolveID(st *store.Store, ref string) (string, error) {
	if _, ok := st.Get(ref); ok {
		return ref, nil
	}
	var match string
	for _, e := range st.Expenses() {
		if strings.HasPrefix(e.ID, ref) {
			if match != "" {
				return "", fmt.Errorf("id prefix %q is ambiguous", ref)
			}
			match = e.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no expense with id %q", ref)
	}
	return match, nil
}

// fieldErrorText flattens validation errors into one line for the terminal.
func fieldErrorText(err error) error {
	var fe core.FieldErrors
	if errors.As(err, &fe) {
		return errors.New(cli.ErrorStyle.Render(fe.Error()))
	}
	return err
}

type expenseFlags struct {
	description string
	amount      string
	category    string
	date        string
	notes       string
}

func (f *expenseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "what the money was spent on")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "amount, e.g. 12.50")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "food, transport, utilities, entertainment or other")
	cmd.Flags().StringVar(&f.date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.notes, "notes", "", "optional notes")
}

// apply copies every flag the user set onto d.
func (f *expenseFlags) apply(cmd *cobra.Command, d *core.Draft) error {
	changed := cmd.Flags().Changed
	if changed("description") {
		d.Description = f.description
	}
	if changed("amount") {
		cents, err := core.ParseDecimalToCents(f.amount)
		if err != nil {
			return core.FieldErrors{"amount": "Amount must be a positive number"}
		}
		d.Amount = core.Money{Cents: cents}
	}
	if changed("category") {
		d.Category = core.Category(strings.ToLower(strings.TrimSpace(f.category)))
	}
	if changed("date") {
		date, err := core.ParseDate(f.date)
		if err != nil {
			return core.FieldErrors{"date": "Date must be an ISO-8601 date"}
		}
		d.Date = date
	}
	if changed("notes") {
		d.Notes = f.notes
	}
	return nil
}

func addCmd(a *app) *cobra.Command {
	var f expenseFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new expense",
		Example: `  expensectl add -d "Grocery Shopping" -a 156.78 -c food
  expensectl add -d "Electric Bill" -a 89.99 -c utilities --date 2024-02-01`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := core.Draft{Date: time.Now()}
			if err := f.apply(cmd, &d); err != nil {
				return fieldErrorText(err)
			}

			st, done, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer done()

			e, err := st.Add(cmd.Context(), d)
			if err != nil {
				return fieldErrorText(err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s, %s)\n",
				cli.SuccessStyle.Render("Added"), e.Description, e.Amount.String(), e.ID)
			return err
		},
	}
	f.register(cmd)
	return cmd
}

func updateCmd(a *app) *cobra.Command {
	var f expenseFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an existing expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, done, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer done()

			id, err := resolveID(st, args[0])
			if err != nil {
				return err
			}
			existing, _ := st.Get(id)

			d := existing.Draft()
			if err := f.apply(cmd, &d); err != nil {
				return fieldErrorText(err)
			}
			if err := st.Update(cmd.Context(), d.WithID(id)); err != nil {
				return fieldErrorText(err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cli.SuccessStyle.Render("Updated"), id)
			return err
		},
	}
	f.register(cmd)
	return cmd
}

func deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete one or more expenses",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, done, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer done()

			ids := make([]string, 0, len(args))
			for _, ref := range args {
				id, err := resolveID(st, ref)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			n := st.DeleteMany(cmd.Context(), ids...)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %d expense(s)\n", cli.SuccessStyle.Render("Deleted"), n)
			return err
		},
	}
}

func clearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every expense",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New(cli.WarningStyle.Render("refusing to clear without --yes"))
			}
			st, done, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer done()

			n := st.Len()
			st.Clear(cmd.Context())
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %d expense(s)\n", cli.SuccessStyle.Render("Cleared"), n)
			return err
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting everything")
	return cmd
}

func seedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample expenses into an empty list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, done, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer done()

			out := cmd.OutOrStdout()
			if !st.SeedIfEmpty(cmd.Context(), store.SampleDrafts(time.Now())) {
				_, err = fmt.Fprintln(out, cli.WarningStyle.Render("List is not empty, nothing seeded"))
				return err
			}
			_, err = fmt.Fprintf(out, "%s %d sample expenses\n", cli.SuccessStyle.Render("Seeded"), st.Len())
			return err
		},
	}
}
