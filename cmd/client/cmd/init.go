package cmd

import (
	"fmt"

	"antaracc/cmd/client/cmd/agreement"
	"antaracc/cmd/client/cmd/appctx"
	opretcmd "antaracc/cmd/client/cmd/opret"
	"antaracc/cmd/client/cmd/token"
	"antaracc/cmd/client/cmd/tokentag"
	"antaracc/cmd/client/cmd/tx"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Проверить соединение с сервером",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, _, err := appctx.From(cmd)
		if err != nil {
			return err
		}
		if err := app.CheckConnection(cmd.Context()); err != nil {
			return fmt.Errorf("сервер недоступен: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Соединение с сервером установлено")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)

	rootCmd.AddCommand(token.TokenCmd)
	token.TokenCmd.AddCommand(token.ListCmd)
	token.TokenCmd.AddCommand(token.InfoCmd)
	token.TokenCmd.AddCommand(token.OwnersCmd)
	token.TokenCmd.AddCommand(token.OwnerHistoryCmd)
	token.TokenCmd.AddCommand(token.UpdatesCmd)
	token.TokenCmd.AddCommand(token.BalanceCmd)
	token.TokenCmd.AddCommand(token.InventoryCmd)

	rootCmd.AddCommand(agreement.AgreementCmd)
	agreement.AgreementCmd.AddCommand(agreement.ListCmd)
	agreement.AgreementCmd.AddCommand(agreement.InventoryCmd)
	agreement.AgreementCmd.AddCommand(agreement.InfoCmd)
	agreement.AgreementCmd.AddCommand(agreement.StatusCmd)
	agreement.AgreementCmd.AddCommand(agreement.UpdatesCmd)
	agreement.AgreementCmd.AddCommand(agreement.DisputesCmd)
	agreement.AgreementCmd.AddCommand(agreement.ProposalsCmd)

	rootCmd.AddCommand(tx.TxCmd)
	tx.TxCmd.AddCommand(tx.ValidateCmd)
	tx.TxCmd.AddCommand(tx.ImportCmd)

	rootCmd.AddCommand(opretcmd.OpretCmd)
	opretcmd.OpretCmd.AddCommand(opretcmd.DecodeCmd)

	rootCmd.AddCommand(tokentag.TokenTagCmd)
	tokentag.TokenTagCmd.AddCommand(tokentag.AddressCmd)
}
