package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tradeking-trader/internal/broker"
	"tradeking-trader/internal/errors"
	"tradeking-trader/pkg/utils"
)

func newAccountCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Retrieve account balances, holdings, history and orders",
	}

	requireAccounts := func() error {
		if app.Accounts == nil {
			return errors.Wrap(errors.ErrNotAuthenticated, "account access requires API credentials")
		}
		return nil
	}

	balancesCmd := &cobra.Command{
		Use:   "balances <account-id>",
		Short: "Show account balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAccounts(); err != nil {
				return err
			}
			balance, err := app.Accounts.Balances(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Account value: %s\n", utils.FormatUSD(balance.AccountValue.Float()))
			fmt.Fprintf(out, "Cash:          %s\n", utils.FormatUSD(balance.CashBalance.Float()))
			fmt.Fprintf(out, "Buying power:  %s\n", utils.FormatUSD(balance.BuyingPower.Float()))
			fmt.Fprintf(out, "Market value:  %s\n", utils.FormatUSD(balance.MarketValue.Float()))
			return nil
		},
	}

	holdingsCmd := &cobra.Command{
		Use:   "holdings <account-id>",
		Short: "Show account holdings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAccounts(); err != nil {
				return err
			}
			holdings, err := app.Accounts.Holdings(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SYMBOL\tQTY\tCOST BASIS\tMARKET VALUE\tGAIN/LOSS")
			for _, h := range holdings {
				fmt.Fprintf(w, "%s\t%.2f\t%s\t%s\t%s\n",
					h.Symbol, h.Quantity,
					utils.FormatUSD(h.CostBasis.Float()),
					utils.FormatUSD(h.MarketValue.Float()),
					utils.FormatUSD(h.GainLoss.Float()))
			}
			return w.Flush()
		},
	}

	var (
		dateRange    string
		transactions string
	)
	historyCmd := &cobra.Command{
		Use:   "history <account-id>",
		Short: "Show account transaction history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAccounts(); err != nil {
				return err
			}
			entries, err := app.Accounts.History(cmd.Context(), args[0], broker.HistoryRequest{
				DateRange:    dateRange,
				Transactions: transactions,
			})
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tACTIVITY\tSYMBOL\tAMOUNT\tDESCRIPTION")
			for _, t := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					t.Date.Format("2006-01-02"), t.Activity, t.Symbol,
					utils.FormatUSD(t.Amount.Float()), t.Description)
			}
			return w.Flush()
		},
	}
	historyCmd.Flags().StringVar(&dateRange, "range", "all", "Date range (all, today, current_week, current_month)")
	historyCmd.Flags().StringVar(&transactions, "transactions", "all", "Transaction types (all, trade, bookkeeping)")

	ordersCmd := &cobra.Command{
		Use:   "orders <account-id>",
		Short: "Show account order statuses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAccounts(); err != nil {
				return err
			}
			orders, err := app.Accounts.Orders(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ORDER ID\tSYMBOL\tSTATUS\tRECEIVED")
			for _, o := range orders {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					o.OrderID, o.Symbol, o.Status, o.Received.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(balancesCmd, holdingsCmd, historyCmd, ordersCmd)
	return cmd
}
