package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"tradeking-trader/internal/errors"
	"tradeking-trader/internal/models"
	"tradeking-trader/pkg/utils"
)

type quoteOutput struct {
	Symbol string  `json:"symbol"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
	Last   float64 `json:"last"`
	Volume int64   `json:"volume"`
}

func newQuoteCmd(app *App) *cobra.Command {
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "quote <symbol>...",
		Short: "Fetch market quotes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quotes := make(map[string]models.Quote, len(args))

			// Serve from the local cache where fresh enough.
			var missing []string
			if app.Store != nil && maxAge > 0 {
				for _, symbol := range args {
					if cached, err := app.Store.GetQuote(cmd.Context(), symbol, maxAge); err == nil {
						quotes[symbol] = *cached
					} else {
						missing = append(missing, symbol)
					}
				}
			} else {
				missing = args
			}

			if len(missing) > 0 {
				if app.Market == nil {
					return errors.Wrap(errors.ErrNotAuthenticated, "quote fetch requires API credentials")
				}
				fetched, err := app.Market.Quotes(cmd.Context(), missing)
				if err != nil {
					return err
				}
				if app.Store != nil {
					rows := make([]models.Quote, 0, len(fetched))
					for _, q := range fetched {
						rows = append(rows, q)
					}
					if err := app.Store.SaveQuotes(cmd.Context(), rows); err != nil {
						app.Logger.Warn().Err(err).Msg("Failed to cache quotes")
					}
				}
				for symbol, q := range fetched {
					quotes[symbol] = q
				}
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				rows := make([]quoteOutput, 0, len(args))
				for _, symbol := range args {
					if q, ok := quotes[symbol]; ok {
						rows = append(rows, quoteOutput{
							Symbol: q.Symbol,
							Bid:    q.Bid.Float(),
							Ask:    q.Ask.Float(),
							Last:   q.Last.Float(),
							Volume: q.Volume,
						})
					}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SYMBOL\tBID\tASK\tLAST\tVOL")
			for _, symbol := range args {
				q, ok := quotes[symbol]
				if !ok {
					fmt.Fprintf(w, "%s\t-\t-\t-\t-\n", symbol)
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
					symbol,
					utils.FormatUSD(q.Bid.Float()),
					utils.FormatUSD(q.Ask.Float()),
					utils.FormatUSD(q.Last.Float()),
					q.Volume)
			}
			return w.Flush()
		},
	}

	cmd.Flags().DurationVar(&maxAge, "max-age", 0, "Serve cached quotes up to this age (0 always fetches)")
	return cmd
}
