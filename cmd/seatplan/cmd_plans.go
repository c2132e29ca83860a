package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rhyrak/exam-seating/internal/csvio"
	"github.com/rhyrak/exam-seating/internal/store"
)

func listPlans(cmd *cobra.Command, database string) error {
	plans, err := store.Open(database)
	if err != nil {
		return err
	}
	defer plans.Close()

	metas, err := plans.List(cmd.Context())
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tSTATUS\tASSIGNMENTS\tUNSEATED")
	for _, m := range metas {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", m.ID, m.CreatedAt.Format("2006-01-02 15:04"), m.Status, m.Assignments, m.Unseated)
	}
	return w.Flush()
}

func showPlan(cmd *cobra.Command, database, id string) error {
	plans, err := store.Open(database)
	if err != nil {
		return err
	}
	defer plans.Close()

	meta, err := plans.Meta(cmd.Context(), id)
	if err != nil {
		return err
	}
	plan, err := plans.Load(cmd.Context(), id)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Plan %s (%s)\n", meta.ID, meta.Status)
	fmt.Fprint(out, meta.Report)
	csvio.PrintPlan(plan, out)
	return nil
}

func deletePlan(cmd *cobra.Command, database, id string) error {
	plans, err := store.Open(database)
	if err != nil {
		return err
	}
	defer plans.Close()

	if err := plans.Delete(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan: %s\n", id)
	return nil
}
