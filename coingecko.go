package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/matias9477/btc-investment-tracker/date"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DefaultCoinGeckoURL is the public CoinGecko API.
const DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

// QuoteCooldown is the minimum delay between two live quote requests.
const QuoteCooldown = time.Minute

// ErrNoPrice is returned when the price source has no price for the request.
var ErrNoPrice = errors.New("no price")

// Quote is a live bitcoin price.
type Quote struct {
	Price     Money
	Change24h *Percent // nil when the source does not report it
	FetchedAt time.Time
}

func (q Quote) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("price", q.Price)
	w.Optional("change24h", q.Change24h)
	w.Append("fetchedAt", q.FetchedAt)
	return w.MarshalJSON()
}

// CoinGecko fetches bitcoin prices in dollars from the CoinGecko API.
//
// Live quotes are rate limited: within QuoteCooldown of the last successful
// request the last quote is returned. It is safe for concurrent use.
type CoinGecko struct {
	baseURL  string
	client   *http.Client
	history  *http.Client
	log      logrus.FieldLogger
	cooldown time.Duration
	now      func() time.Time

	mu   sync.Mutex
	last *Quote
}

// NewCoinGecko returns a price source for the API at baseURL, DefaultCoinGeckoURL when empty.
// A nil logger logs to the logrus standard logger.
func NewCoinGecko(baseURL string, logger logrus.FieldLogger) *CoinGecko {
	if baseURL == "" {
		baseURL = DefaultCoinGeckoURL
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger = logger.WithField("source", "coingecko")
	return &CoinGecko{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		client:   &http.Client{Timeout: 10 * time.Second},
		history:  daily(os.TempDir(), logger),
		log:      logger,
		cooldown: QuoteCooldown,
		now:      time.Now,
	}
}

// Latest returns the live bitcoin price, or the last one if it was fetched
// less than QuoteCooldown ago.
func (c *CoinGecko) Latest(ctx context.Context) (Quote, error) {
	return c.Refresh(ctx, false)
}

// Refresh is like Latest, but force ignores the cooldown.
func (c *CoinGecko) Refresh(ctx context.Context, force bool) (Quote, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if !force && c.last != nil && now.Sub(c.last.FetchedAt) < c.cooldown {
		c.log.WithField("age", now.Sub(c.last.FetchedAt)).Debug("quote in cooldown, reusing last one")
		return *c.last, nil
	}

	q := url.Values{}
	q.Set("ids", "bitcoin")
	q.Set("vs_currencies", "usd")
	q.Set("include_24hr_change", "true")
	addr := c.baseURL + "/simple/price?" + q.Encode()

	var jobj any
	if err := jwget(ctx, c.client, addr, &jobj); err != nil {
		return Quote{}, fmt.Errorf("cannot fetch bitcoin price: %w", err)
	}
	price, err := decimalAt(jobj, "$.bitcoin.usd")
	if err != nil {
		return Quote{}, fmt.Errorf("cannot read bitcoin price: %w", err)
	}
	if !price.IsPositive() {
		return Quote{}, fmt.Errorf("%w: invalid bitcoin price %v", ErrNoPrice, price)
	}
	quote := Quote{Price: M(price), FetchedAt: now}
	if change, err := decimalAt(jobj, "$.bitcoin.usd_24h_change"); err == nil {
		p := Percent(change.InexactFloat64())
		quote.Change24h = &p
	}

	c.last = &quote
	c.log.WithField("price", quote.Price.String()).Info("bitcoin price updated")
	return quote, nil
}

// Cached returns the last quote fetched, if any, without any request.
func (c *CoinGecko) Cached() (Quote, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return Quote{}, false
	}
	return *c.last, true
}

// On returns the bitcoin price on a past day. Responses are cached on disk for the day.
func (c *CoinGecko) On(ctx context.Context, d date.Date) (Money, error) {
	q := url.Values{}
	q.Set("date", fmt.Sprintf("%02d-%02d-%04d", d.Day(), d.Month(), d.Year()))
	q.Set("localization", "false")
	addr := c.baseURL + "/coins/bitcoin/history?" + q.Encode()

	var jobj any
	if err := jwget(ctx, c.history, addr, &jobj); err != nil {
		return Money{}, fmt.Errorf("cannot fetch bitcoin price on %v: %w", d, err)
	}
	price, err := decimalAt(jobj, "$.market_data.current_price.usd")
	if err != nil {
		return Money{}, fmt.Errorf("%w on %v: %v", ErrNoPrice, d, err)
	}
	if !price.IsPositive() {
		return Money{}, fmt.Errorf("%w on %v: invalid price %v", ErrNoPrice, d, price)
	}
	return M(price), nil
}

// decimalAt extracts the number at path in a decoded JSON document.
func decimalAt(jobj any, path string) (decimal.Decimal, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	switch v := jval.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case float64:
		return decimal.NewFromFloat(v), nil
	default:
		return decimal.Zero, fmt.Errorf("%s: not a number: %v", path, jval)
	}
}
