package main

import (
	"github.com/spf13/cobra"

	"github.com/fatflowers/duesledger/internal/app/service/paymentlog"
	"github.com/fatflowers/duesledger/internal/app/service/status"
)

var statusCmd = &cobra.Command{
	Use:   "status <member-id>",
	Short: "Show a member's payment status",
	Example: `  duesctl status 42
  duesctl status 42 --write`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().Bool("write", false, "Store the evaluated status on the member record")
}

func runStatus(cmd *cobra.Command, args []string) error {
	write, _ := cmd.Flags().GetBool("write")

	var (
		w        *status.Writer
		payments *paymentlog.Service
	)
	return withApp(cmd.Context(), func() error {
		if write {
			res, err := payments.RefreshStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		}
		view, err := w.Query(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), view)
	}, &w, &payments)
}
