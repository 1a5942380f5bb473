package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tradeking-trader/internal/models"
	"tradeking-trader/internal/options"
)

func newSymbolCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symbol",
		Short: "Encode, decode and generate option symbols",
	}

	cmd.AddCommand(
		newSymbolEncodeCmd(app),
		newSymbolDecodeCmd(app),
		newSymbolGenerateCmd(app),
	)
	return cmd
}

func newSymbolEncodeCmd(app *App) *cobra.Command {
	var (
		expiration string
		typeLetter string
		strike     string
	)

	cmd := &cobra.Command{
		Use:   "encode <underlying>",
		Short: "Encode an option symbol from its component parts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := time.Parse("2006-01-02", expiration)
			if err != nil {
				return fmt.Errorf("parsing --expiration: %w", err)
			}
			strikePrice, err := models.ParsePrice(strike)
			if err != nil {
				return err
			}
			symbol, err := options.Symbol(args[0], exp, models.OptionType(strings.ToUpper(typeLetter)), strikePrice)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), symbol)
			return nil
		},
	}

	cmd.Flags().StringVarP(&expiration, "expiration", "e", "", "Expiration date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&typeLetter, "type", "t", "", "Option type (C or P)")
	cmd.Flags().StringVarP(&strike, "strike", "s", "", "Strike price")
	cmd.MarkFlagRequired("expiration")
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("strike")
	return cmd
}

func newSymbolDecodeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <symbol>",
		Short: "Decode an option symbol into its component parts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := options.ParseSymbol(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Underlying: %s\n", c.Underlying)
			fmt.Fprintf(out, "Expiration: %s\n", c.Expiration.Format("2006-01-02"))
			fmt.Fprintf(out, "Type:       %s\n", optionTypeName(c.Type))
			fmt.Fprintf(out, "Strike:     %s\n", c.Strike)
			return nil
		},
	}
}

func optionTypeName(t models.OptionType) string {
	if t == models.Put {
		return "Put"
	}
	return "Call"
}

func newSymbolGenerateCmd(app *App) *cobra.Command {
	var (
		expirations []string
		strikes     []string
		callsOnly   bool
		putsOnly    bool
	)

	cmd := &cobra.Command{
		Use:   "generate <underlying>",
		Short: "Generate option symbols for expirations and strikes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exps := make([]time.Time, 0, len(expirations))
			for _, raw := range expirations {
				exp, err := time.Parse("2006-01-02", raw)
				if err != nil {
					return fmt.Errorf("parsing expiration %q: %w", raw, err)
				}
				exps = append(exps, exp)
			}

			strikePrices := make([]models.Price, 0, len(strikes))
			for _, raw := range strikes {
				strike, err := models.ParsePrice(raw)
				if err != nil {
					return err
				}
				strikePrices = append(strikePrices, strike)
			}

			symbols, err := options.Symbols(args[0], exps, strikePrices, !putsOnly, !callsOnly)
			if err != nil {
				return err
			}
			for _, symbol := range symbols {
				fmt.Fprintln(cmd.OutOrStdout(), symbol)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&expirations, "expiration", "e", nil, "Expiration dates (YYYY-MM-DD, repeatable)")
	cmd.Flags().StringSliceVarP(&strikes, "strike", "s", nil, "Strike prices (repeatable)")
	cmd.Flags().BoolVar(&callsOnly, "calls-only", false, "Generate call symbols only")
	cmd.Flags().BoolVar(&putsOnly, "puts-only", false, "Generate put symbols only")
	cmd.MarkFlagRequired("expiration")
	cmd.MarkFlagRequired("strike")
	cmd.MarkFlagsMutuallyExclusive("calls-only", "puts-only")
	return cmd
}
