package main

import (
	"github.com/spf13/cobra"

	"github.com/fatflowers/duesledger/internal/app/service/paymentlog"
)

var offlineCmd = &cobra.Command{
	Use:   "offline <member-id>",
	Short: "Record an offline payment promise",
	Long: `Marks the member as pending. The pending status lasts for the
pending window or until a payment is recorded.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var payments *paymentlog.Service
		return withApp(cmd.Context(), func() error {
			res, err := payments.RecordOfflinePromise(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		}, &payments)
	},
}

func init() {
	rootCmd.AddCommand(offlineCmd)
}
