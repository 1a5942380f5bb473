// Package cli provides the command-line interface for the option
// analysis application.
package cli

import (
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradeking-trader/internal/broker"
	"tradeking-trader/internal/config"
	"tradeking-trader/internal/models"
	"tradeking-trader/internal/options"
	"tradeking-trader/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Market   broker.MarketData
	News     broker.NewsService
	Accounts broker.AccountService
	Store    store.DataStore
	Premium  options.PremiumSource
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize the API client if a full credential set is available;
	// otherwise analysis commands run with zero premiums.
	if cfg.Credentials.TradeKing.Configured() {
		client, err := broker.NewTradeKingClient(broker.TradeKingConfig{
			ConsumerKey:    cfg.Credentials.TradeKing.ConsumerKey,
			ConsumerSecret: cfg.Credentials.TradeKing.ConsumerSecret,
			OAuthToken:     cfg.Credentials.TradeKing.OAuthToken,
			OAuthSecret:    cfg.Credentials.TradeKing.OAuthSecret,
			Logger:         &logger,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize API client")
		} else {
			app.Market = client
			app.News = client
			app.Accounts = client
			app.Premium = options.BidAskMean{Provider: client}
			logger.Debug().Msg("TradeKing API client initialized")
		}
	}

	dbPath := filepath.Join(config.DefaultConfigDir(), "trader.db")
	dataStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, saved queries unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "tradeking",
		Short: "TradeKing option strategy analyzer",
		Long: `TradeKing option strategy analyzer computes profit/loss curves for
option trading strategies: single contracts and multi-leg combinations
(straddles, strangles, collars), priced with exact fixed-point currency
arithmetic.

It also encodes and decodes canonical option symbols, scans option
chains with a small filter query language, and retrieves market data
through the TradeKing API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newSymbolCmd(app),
		newPayoffCmd(app),
		newChainCmd(app),
		newQueryCmd(app),
		newQuoteCmd(app),
		newMarketCmd(app),
		newNewsCmd(app),
		newAccountCmd(app),
	)

	return rootCmd
}

// legParams translates configured analysis defaults into LegParams.
func (a *App) legParams() options.LegParams {
	params := options.LegParams{
		Premium: a.Premium,
		Logger:  &a.Logger,
	}
	if a.Config == nil {
		return params
	}
	if a.Config.Analysis.PriceRange > 0 {
		params.PriceRange = models.MustPrice(a.Config.Analysis.PriceRange)
	}
	if a.Config.Analysis.TickSize > 0 {
		params.TickSize = models.MustPrice(a.Config.Analysis.TickSize)
	}
	if a.Config.Analysis.CacheTTLSeconds > 0 {
		params.TTL = time.Duration(a.Config.Analysis.CacheTTLSeconds) * time.Second
	}
	if a.Config.Fees.Base > 0 || a.Config.Fees.PerLeg > 0 {
		params.Cost = options.FlatFeeModel{
			Base:   models.MustPrice(a.Config.Fees.Base),
			PerLeg: models.MustPrice(a.Config.Fees.PerLeg),
		}
	}
	return params
}
