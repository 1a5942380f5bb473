package broker

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"tradeking-trader/internal/errors"
	"tradeking-trader/internal/logging"
	"tradeking-trader/internal/models"
	"tradeking-trader/internal/options"
	"tradeking-trader/pkg/utils"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.tradeking.com/v1"

// TradeKingClient talks to the TradeKing REST API over OAuth1-signed
// HTTP. It implements MarketData, NewsService and AccountService, and
// doubles as the premium source's market data provider.
type TradeKingClient struct {
	http  *resty.Client
	retry utils.RetryConfig
	log   zerolog.Logger
}

var (
	_ MarketData                 = (*TradeKingClient)(nil)
	_ NewsService                = (*TradeKingClient)(nil)
	_ AccountService             = (*TradeKingClient)(nil)
	_ options.MarketDataProvider = (*TradeKingClient)(nil)
)

// TradeKingConfig holds configuration for the API client.
type TradeKingConfig struct {
	ConsumerKey    string
	ConsumerSecret string
	OAuthToken     string
	OAuthSecret    string
	BaseURL        string
	Timeout        time.Duration
	Retry          *utils.RetryConfig
	Logger         *zerolog.Logger
}

// NewTradeKingClient creates an API client. All four OAuth1 credential
// parts are required.
func NewTradeKingClient(cfg TradeKingConfig) (*TradeKingClient, error) {
	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" ||
		cfg.OAuthToken == "" || cfg.OAuthSecret == "" {
		return nil, errors.Wrap(errors.ErrNotAuthenticated, "incomplete oauth credentials")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	retry := utils.DefaultRetryConfig()
	if cfg.Retry != nil {
		retry = *cfg.Retry
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}

	oauthConfig := oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret)
	token := oauth1.NewToken(cfg.OAuthToken, cfg.OAuthSecret)
	httpClient := oauthConfig.Client(oauth1.NoContext, token)
	httpClient.Timeout = timeout

	return &TradeKingClient{
		http:  resty.NewWithClient(httpClient).SetBaseURL(baseURL),
		retry: retry,
		log:   log,
	}, nil
}

// request performs one API call. Every endpoint speaks JSON and wraps
// its payload in a "response" object.
func (c *TradeKingClient) request(ctx context.Context, method, path string, query, form map[string]string, out interface{}) error {
	call := func() error {
		started := time.Now()

		req := c.http.R().SetContext(ctx)
		if query != nil {
			req.SetQueryParams(query)
		}
		if form != nil {
			req.SetFormData(form)
		}

		resp, err := req.Execute(method, path+".json")
		logging.LogAPICall(c.log, method, path, time.Since(started), err)
		if err != nil {
			return errors.NewAPIError(path, 0, "request failed", err)
		}
		if resp.IsError() {
			return errors.NewAPIError(path, resp.StatusCode(), string(resp.Body()), errors.ErrMarketDataUnavailable)
		}

		var envelope struct {
			Response json.RawMessage `json:"response"`
		}
		if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
			return errors.NewAPIError(path, resp.StatusCode(), "undecodable response body", err)
		}
		return json.Unmarshal(envelope.Response, out)
	}
	return utils.Retry(ctx, c.retry, call)
}

// Quotes fetches quotes for a batch of symbols in a single call.
func (c *TradeKingClient) Quotes(ctx context.Context, symbols []string) (map[string]models.Quote, error) {
	var payload struct {
		Quotes struct {
			Quote quoteRows `json:"quote"`
		} `json:"quotes"`
	}
	form := map[string]string{"symbols": strings.Join(symbols, ",")}
	if err := c.request(ctx, resty.MethodPost, "/market/ext/quotes", nil, form, &payload); err != nil {
		return nil, errors.NewQuoteError(symbols, "quote fetch failed", err)
	}

	quotes := make(map[string]models.Quote, len(payload.Quotes.Quote))
	for _, row := range payload.Quotes.Quote {
		quotes[row.Symbol] = row.toQuote()
	}
	logging.LogQuoteFetch(c.log, symbols, false)
	return quotes, nil
}

// Clock returns the market clock state.
func (c *TradeKingClient) Clock(ctx context.Context) (*MarketClock, error) {
	var payload struct {
		Date   string `json:"date"`
		Status struct {
			Current string `json:"current"`
		} `json:"status"`
		Message string `json:"message"`
	}
	if err := c.request(ctx, resty.MethodGet, "/market/clock", nil, nil, &payload); err != nil {
		return nil, err
	}
	return &MarketClock{
		Date:    parseDateField(payload.Date),
		Status:  payload.Status.Current,
		Message: payload.Message,
	}, nil
}

// Toplist returns a market mover list, e.g. "toppctgainers".
func (c *TradeKingClient) Toplist(ctx context.Context, listType string) ([]models.Quote, error) {
	if listType == "" {
		listType = "toppctgainers"
	}
	var payload struct {
		Quotes struct {
			Quote quoteRows `json:"quote"`
		} `json:"quotes"`
	}
	if err := c.request(ctx, resty.MethodGet, "/market/toplists/"+listType, nil, nil, &payload); err != nil {
		return nil, err
	}

	quotes := make([]models.Quote, 0, len(payload.Quotes.Quote))
	for _, row := range payload.Quotes.Quote {
		quotes = append(quotes, row.toQuote())
	}
	return quotes, nil
}

// OptionExpirations lists the expiration dates available for an
// underlying.
func (c *TradeKingClient) OptionExpirations(ctx context.Context, underlying string) ([]time.Time, error) {
	var payload struct {
		ExpirationDates struct {
			Date stringRows `json:"date"`
		} `json:"expirationdates"`
	}
	query := map[string]string{"symbol": underlying}
	if err := c.request(ctx, resty.MethodGet, "/market/options/expirations", query, nil, &payload); err != nil {
		return nil, err
	}

	expirations := make([]time.Time, 0, len(payload.ExpirationDates.Date))
	for _, raw := range payload.ExpirationDates.Date {
		if t := parseDateField(raw); !t.IsZero() {
			expirations = append(expirations, t)
		}
	}
	return expirations, nil
}

// OptionStrikes lists the strike prices available for an underlying.
func (c *TradeKingClient) OptionStrikes(ctx context.Context, underlying string) ([]models.Price, error) {
	var payload struct {
		Prices struct {
			Price stringRows `json:"price"`
		} `json:"prices"`
	}
	query := map[string]string{"symbol": underlying}
	if err := c.request(ctx, resty.MethodGet, "/market/options/strikes", query, nil, &payload); err != nil {
		return nil, err
	}

	strikes := make([]models.Price, 0, len(payload.Prices.Price))
	for _, raw := range payload.Prices.Price {
		strikes = append(strikes, parsePriceField(raw))
	}
	return strikes, nil
}

// SearchOptions scans the option chain for an underlying with a filter
// query.
func (c *TradeKingClient) SearchOptions(ctx context.Context, underlying string, query *options.Query, fields []string) ([]OptionQuote, error) {
	if query == nil || query.Len() == 0 {
		return nil, errors.Wrap(errors.ErrInvalidArgument, "option search requires at least one filter")
	}

	form := map[string]string{
		"symbol": underlying,
		"query":  query.String(),
	}
	if len(fields) > 0 {
		form["fids"] = strings.Join(fields, ",")
	}

	var payload struct {
		Quotes struct {
			Quote quoteRows `json:"quote"`
		} `json:"quotes"`
	}
	if err := c.request(ctx, resty.MethodPost, "/market/options/search", nil, form, &payload); err != nil {
		return nil, err
	}

	results := make([]OptionQuote, 0, len(payload.Quotes.Quote))
	for _, row := range payload.Quotes.Quote {
		results = append(results, row.toOptionQuote(underlying))
	}
	return results, nil
}

// SearchNews searches market news.
func (c *TradeKingClient) SearchNews(ctx context.Context, req NewsSearchRequest) ([]NewsArticle, error) {
	if len(req.Keywords) == 0 && len(req.Symbols) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidArgument, "either keywords or symbols are required")
	}
	if (req.StartDate == "") != (req.EndDate == "") {
		return nil, errors.Wrap(errors.ErrInvalidArgument, "startdate and enddate must be given together")
	}

	form := map[string]string{}
	if len(req.Keywords) > 0 {
		form["keywords"] = strings.Join(req.Keywords, ",")
	}
	if len(req.Symbols) > 0 {
		form["symbols"] = strings.Join(req.Symbols, ",")
	}
	if req.MaxHits > 0 {
		form["maxhits"] = itoa(req.MaxHits)
	}
	if req.StartDate != "" {
		form["startdate"] = req.StartDate
		form["enddate"] = req.EndDate
	}

	var payload struct {
		Articles struct {
			Article articleRows `json:"article"`
		} `json:"articles"`
	}
	if err := c.request(ctx, resty.MethodPost, "/market/news/search", nil, form, &payload); err != nil {
		return nil, err
	}

	articles := make([]NewsArticle, 0, len(payload.Articles.Article))
	for _, row := range payload.Articles.Article {
		articles = append(articles, row.toArticle())
	}
	return articles, nil
}

// Article fetches a single news article by ID.
func (c *TradeKingClient) Article(ctx context.Context, articleID string) (*NewsArticle, error) {
	var payload struct {
		Article articleRow `json:"article"`
	}
	if err := c.request(ctx, resty.MethodGet, "/market/news/"+articleID, nil, nil, &payload); err != nil {
		return nil, err
	}
	article := payload.Article.toArticle()
	return &article, nil
}

// Balances returns account balance figures.
func (c *TradeKingClient) Balances(ctx context.Context, accountID string) (*Balance, error) {
	var payload struct {
		AccountBalance struct {
			AccountValue string `json:"accountvalue"`
			Money        struct {
				Cash string `json:"cash"`
			} `json:"money"`
			BuyingPower struct {
				Stock string `json:"stock"`
			} `json:"buyingpower"`
			Securities struct {
				Total string `json:"total"`
			} `json:"securities"`
		} `json:"accountbalance"`
	}
	if err := c.request(ctx, resty.MethodGet, "/accounts/"+accountID+"/balances", nil, nil, &payload); err != nil {
		return nil, err
	}
	return &Balance{
		AccountID:    accountID,
		AccountValue: parsePriceField(payload.AccountBalance.AccountValue),
		CashBalance:  parsePriceField(payload.AccountBalance.Money.Cash),
		BuyingPower:  parsePriceField(payload.AccountBalance.BuyingPower.Stock),
		MarketValue:  parsePriceField(payload.AccountBalance.Securities.Total),
	}, nil
}

// Holdings returns account holdings.
func (c *TradeKingClient) Holdings(ctx context.Context, accountID string) ([]Holding, error) {
	var payload struct {
		AccountHoldings struct {
			Holding holdingRows `json:"holding"`
		} `json:"accountholdings"`
	}
	if err := c.request(ctx, resty.MethodGet, "/accounts/"+accountID+"/holdings", nil, nil, &payload); err != nil {
		return nil, err
	}

	holdings := make([]Holding, 0, len(payload.AccountHoldings.Holding))
	for _, row := range payload.AccountHoldings.Holding {
		holdings = append(holdings, row.toHolding())
	}
	return holdings, nil
}

// History returns account transaction history.
func (c *TradeKingClient) History(ctx context.Context, accountID string, req HistoryRequest) ([]Transaction, error) {
	if req.DateRange == "" {
		req.DateRange = "all"
	}
	if req.Transactions == "" {
		req.Transactions = "all"
	}
	query := map[string]string{
		"range":        req.DateRange,
		"transactions": req.Transactions,
	}

	var payload struct {
		Transactions struct {
			Transaction transactionRows `json:"transaction"`
		} `json:"transactions"`
	}
	if err := c.request(ctx, resty.MethodGet, "/accounts/"+accountID+"/history", query, nil, &payload); err != nil {
		return nil, err
	}

	transactions := make([]Transaction, 0, len(payload.Transactions.Transaction))
	for _, row := range payload.Transactions.Transaction {
		transactions = append(transactions, row.toTransaction())
	}
	return transactions, nil
}

// Orders returns the account's order statuses.
func (c *TradeKingClient) Orders(ctx context.Context, accountID string) ([]OrderStatus, error) {
	var payload struct {
		OrderStatus struct {
			Order orderRows `json:"order"`
		} `json:"orderstatus"`
	}
	if err := c.request(ctx, resty.MethodGet, "/accounts/"+accountID+"/orders", nil, nil, &payload); err != nil {
		return nil, err
	}

	orders := make([]OrderStatus, 0, len(payload.OrderStatus.Order))
	for _, row := range payload.OrderStatus.Order {
		orders = append(orders, row.toOrderStatus())
	}
	return orders, nil
}
