package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tradeking-trader/internal/errors"
	"tradeking-trader/pkg/utils"
)

func newMarketCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "market",
		Short: "Market status, mover lists and option chain metadata",
	}

	requireMarket := func() error {
		if app.Market == nil {
			return errors.Wrap(errors.ErrNotAuthenticated, "market access requires API credentials")
		}
		return nil
	}

	clockCmd := &cobra.Command{
		Use:   "clock",
		Short: "Show the market clock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireMarket(); err != nil {
				return err
			}
			clock, err := app.Market.Clock(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Date:    %s\n", clock.Date.Format("2006-01-02"))
			fmt.Fprintf(out, "Status:  %s\n", clock.Status)
			if clock.Message != "" {
				fmt.Fprintf(out, "Message: %s\n", clock.Message)
			}
			return nil
		},
	}

	toplistCmd := &cobra.Command{
		Use:   "toplist [list-type]",
		Short: "Show a market mover list (default toppctgainers)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireMarket(); err != nil {
				return err
			}
			listType := ""
			if len(args) > 0 {
				listType = args[0]
			}
			quotes, err := app.Market.Toplist(cmd.Context(), listType)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SYMBOL\tLAST\tVOL")
			for _, q := range quotes {
				fmt.Fprintf(w, "%s\t%s\t%d\n", q.Symbol, utils.FormatUSD(q.Last.Float()), q.Volume)
			}
			return w.Flush()
		},
	}

	expirationsCmd := &cobra.Command{
		Use:   "expirations <underlying>",
		Short: "List option expiration dates for an underlying",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireMarket(); err != nil {
				return err
			}
			dates, err := app.Market.OptionExpirations(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, date := range dates {
				fmt.Fprintln(cmd.OutOrStdout(), date.Format("2006-01-02"))
			}
			return nil
		},
	}

	strikesCmd := &cobra.Command{
		Use:   "strikes <underlying>",
		Short: "List option strike prices for an underlying",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireMarket(); err != nil {
				return err
			}
			strikes, err := app.Market.OptionStrikes(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, strike := range strikes {
				fmt.Fprintln(cmd.OutOrStdout(), strike)
			}
			return nil
		},
	}

	cmd.AddCommand(clockCmd, toplistCmd, expirationsCmd, strikesCmd)
	return cmd
}
