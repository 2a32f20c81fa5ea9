package main

import (
	"github.com/spf13/cobra"

	"github.com/fatflowers/duesledger/internal/app/service/reconcile"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run a reconciliation pass",
	Long: `Rewrites the payment status of every member. A pass stops when
dues.max_batch_seconds is used up and the next pass resumes where it stopped.`,
	Example: `  # One time-boxed pass
  duesctl reconcile

  # Keep going until every member is done
  duesctl reconcile --all

  # Simulate a future date
  duesctl reconcile --all --test-date 2025-01-01`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
	reconcileCmd.Flags().Bool("all", false, "Run passes until no member is left")
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	all, _ := cmd.Flags().GetBool("all")

	var r *reconcile.Reconciler
	return withApp(cmd.Context(), func() error {
		for {
			res, err := r.Run(cmd.Context())
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !all || res.Remaining == 0 || cmd.Context().Err() != nil {
				return nil
			}
		}
	}, &r)
}
