package options

import (
	"context"

	"github.com/rs/zerolog"

	"tradeking-trader/internal/errors"
	"tradeking-trader/internal/models"
)

// CostModel computes the commission for opening a position with the
// given number of legs.
type CostModel interface {
	Cost(legCount int) models.Price
}

// FlatFeeModel is a base fee plus a per-leg fee times the leg count.
type FlatFeeModel struct {
	Base   models.Price
	PerLeg models.Price
}

// Cost implements CostModel.
func (f FlatFeeModel) Cost(legCount int) models.Price {
	return f.Base.Add(f.PerLeg.MulInt(int64(legCount)))
}

// DefaultCostModel returns the standard brokerage commission schedule:
// 4.95 base plus 0.65 per leg.
func DefaultCostModel() FlatFeeModel {
	return FlatFeeModel{
		Base:   models.MustPrice(4.95),
		PerLeg: models.MustPrice(0.65),
	}
}

// MarketDataProvider supplies market quotes for a batch of symbols.
// Implemented by broker.Client; batched so portfolio-wide premium
// lookups bound outbound calls.
type MarketDataProvider interface {
	Quotes(ctx context.Context, symbols []string) (map[string]models.Quote, error)
}

// PremiumSource resolves the market premium for an encoded option
// symbol. Implementations may block on network calls and must honor
// context cancellation.
type PremiumSource interface {
	Premium(ctx context.Context, symbol string) (models.Price, error)
}

// BidAskMean prices premiums as the bid/ask midpoint from a market
// data provider.
type BidAskMean struct {
	Provider MarketDataProvider
}

// Premium implements PremiumSource.
func (b BidAskMean) Premium(ctx context.Context, symbol string) (models.Price, error) {
	quotes, err := b.Provider.Quotes(ctx, []string{symbol})
	if err != nil {
		return 0, errors.NewQuoteError([]string{symbol}, "premium lookup failed", err)
	}
	quote, ok := quotes[symbol]
	if !ok {
		return 0, errors.NewQuoteError([]string{symbol}, "no quote returned", errors.ErrDataNotFound)
	}
	return quote.Mid(), nil
}

// ZeroPremium is the degraded premium source substituted when no market
// data provider is configured: every premium is zero. This is a
// deliberate analysis mode, not an error path.
type ZeroPremium struct{}

// Premium implements PremiumSource.
func (ZeroPremium) Premium(context.Context, string) (models.Price, error) {
	return 0, nil
}

// fallbackPremium returns the configured source, or ZeroPremium with a
// warning when none is set.
func fallbackPremium(source PremiumSource, log zerolog.Logger) PremiumSource {
	if source != nil {
		return source
	}
	log.Warn().Msg("No premium source configured. All premiums will be 0.")
	return ZeroPremium{}
}
