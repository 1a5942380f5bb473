package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tradeking-trader/internal/models"
	"tradeking-trader/internal/options"
	"tradeking-trader/pkg/utils"
)

func newPayoffCmd(app *App) *cobra.Command {
	var (
		short      bool
		priceRange string
		tickSize   string
		callStrike string
		putStrike  string
		net        bool
	)

	cmd := &cobra.Command{
		Use:   "payoff <strategy> <symbol>",
		Short: "Compute the payoff curve for an option strategy",
		Long: `Compute the profit/loss curve for an option strategy across a range
of underlying prices. Strategies: call, put, straddle, strangle, collar.

The symbol carries the underlying, expiration and strike; strangle and
collar take their strikes from --call-strike and --put-strike.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := app.legParams()
			if short {
				params.Direction = models.Short
			}
			if priceRange != "" {
				p, err := models.ParsePrice(priceRange)
				if err != nil {
					return err
				}
				params.PriceRange = p
			}
			if tickSize != "" {
				p, err := models.ParsePrice(tickSize)
				if err != nil {
					return err
				}
				params.TickSize = p
			}

			strategy, err := buildStrategy(args[0], args[1], callStrike, putStrike, params)
			if err != nil {
				return err
			}

			curve := strategy.Payoffs()
			if net {
				premium, err := strategy.Premium(cmd.Context())
				if err != nil {
					return err
				}
				curve = curve.Shift(strategy.Cost().Neg().Sub(premium))
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "PRICE\tP/L\t")
			for _, pt := range curve {
				fmt.Fprintf(w, "%s\t%s\t\n", utils.FormatUSD(pt.Price.Float()), utils.FormatUSD(pt.Value.Float()))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\nCost: %s\n", utils.FormatUSD(strategy.Cost().Float()))
			if premium, err := strategy.Premium(cmd.Context()); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Premium: %s\n", utils.FormatUSD(premium.Float()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Take the short side (ignored for collar)")
	cmd.Flags().StringVar(&priceRange, "range", "", "Half-width of the price domain around the strike")
	cmd.Flags().StringVar(&tickSize, "tick", "", "Sampling interval across the price domain")
	cmd.Flags().StringVar(&callStrike, "call-strike", "", "Call strike for strangle/collar")
	cmd.Flags().StringVar(&putStrike, "put-strike", "", "Put strike for strangle/collar")
	cmd.Flags().BoolVar(&net, "net", false, "Subtract cost and premium from the curve")
	return cmd
}

func buildStrategy(name, symbol, callStrike, putStrike string, params options.LegParams) (*options.MultiLeg, error) {
	parseStrike := func(raw, flag string) (models.Price, error) {
		if raw == "" {
			return 0, fmt.Errorf("strategy %q requires --%s", name, flag)
		}
		return models.ParsePrice(raw)
	}

	switch name {
	case "call":
		return options.Call(symbol, params)
	case "put":
		return options.Put(symbol, params)
	case "straddle":
		return options.Straddle(symbol, params)
	case "strangle":
		call, err := parseStrike(callStrike, "call-strike")
		if err != nil {
			return nil, err
		}
		put, err := parseStrike(putStrike, "put-strike")
		if err != nil {
			return nil, err
		}
		return options.Strangle(symbol, call, put, params)
	case "collar":
		put, err := parseStrike(putStrike, "put-strike")
		if err != nil {
			return nil, err
		}
		call, err := parseStrike(callStrike, "call-strike")
		if err != nil {
			return nil, err
		}
		return options.Collar(symbol, put, call, params)
	default:
		return nil, fmt.Errorf("unknown strategy %q (want call, put, straddle, strangle or collar)", name)
	}
}
