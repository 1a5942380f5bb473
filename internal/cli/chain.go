package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tradeking-trader/internal/errors"
	"tradeking-trader/internal/options"
	"tradeking-trader/pkg/utils"
)

func newChainCmd(app *App) *cobra.Command {
	var (
		filters []string
		saved   string
		strict  bool
		fields  []string
	)

	cmd := &cobra.Command{
		Use:   "chain <underlying>",
		Short: "Scan an option chain with filter expressions",
		Long: `Scan the option chain for an underlying, filtered by expressions of
the form "field op value", e.g.:

  tradeking chain F -f "strikeprice > 100" -f "xyear = 2016"

Fields: strikeprice, xdate, xmonth, xyear, put_call, unique.
Operators: < > <= >= = (and their lt/gt/lte/gte/eq spellings).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Market == nil {
				return errors.Wrap(errors.ErrNotAuthenticated, "chain search requires API credentials")
			}

			expressions := filters
			if saved != "" {
				if app.Store == nil {
					return errors.Wrap(errors.ErrDatabaseError, "saved queries unavailable")
				}
				stored, err := app.Store.GetQuery(cmd.Context(), saved)
				if err != nil {
					return err
				}
				expressions = append(stored, expressions...)
			}

			var opts []options.QueryOption
			if strict {
				opts = append(opts, options.WithStrictFilters())
			}
			query, err := options.NewQuery(expressions, opts...)
			if err != nil {
				return err
			}

			results, err := app.Market.SearchOptions(cmd.Context(), args[0], query, fields)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SYMBOL\tTYPE\tSTRIKE\tEXPIRES\tBID\tASK\tLAST\tOI\tVOL")
			for _, row := range results {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
					row.Symbol, row.PutCall, row.Strike,
					row.Expiration.Format("2006-01-02"),
					utils.FormatUSD(row.Bid.Float()),
					utils.FormatUSD(row.Ask.Float()),
					utils.FormatUSD(row.Last.Float()),
					row.OpenInterest, row.Volume)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "Filter expression \"field op value\" (repeatable)")
	cmd.Flags().StringVar(&saved, "query", "", "Start from a saved query by name")
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject unrecognized filter expressions instead of dropping them")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "Response fields to request")
	return cmd
}

func newQueryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Manage saved chain filter queries",
	}

	requireStore := func() error {
		if app.Store == nil {
			return errors.Wrap(errors.ErrDatabaseError, "saved queries unavailable")
		}
		return nil
	}

	saveCmd := &cobra.Command{
		Use:   "save <name> <expression>...",
		Short: "Save a named set of filter expressions",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(); err != nil {
				return err
			}
			// Validate before saving so broken filters surface now.
			if _, err := options.NewQuery(args[1:], options.WithStrictFilters()); err != nil {
				return err
			}
			return app.Store.SaveQuery(cmd.Context(), args[0], args[1:])
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(); err != nil {
				return err
			}
			names, err := app.Store.ListQueries(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a saved query and its serialized form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(); err != nil {
				return err
			}
			expressions, err := app.Store.GetQuery(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			query, err := options.NewQuery(expressions)
			if err != nil {
				return err
			}
			for _, expression := range expressions {
				fmt.Fprintln(cmd.OutOrStdout(), expression)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nserialized: %s\n", query)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(); err != nil {
				return err
			}
			return app.Store.DeleteQuery(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(saveCmd, listCmd, showCmd, deleteCmd)
	return cmd
}
