package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	tracker "github.com/matias9477/btc-investment-tracker"
	"github.com/matias9477/btc-investment-tracker/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeLedger struct {
	purchases []tracker.Purchase
	settings  tracker.Settings
	err       error
}

func (l *fakeLedger) Purchases(context.Context) ([]tracker.Purchase, error) {
	return l.purchases, l.err
}

func (l *fakeLedger) Settings(context.Context) (tracker.Settings, error) {
	return l.settings, l.err
}

type fakePrices struct {
	quote   tracker.Quote
	history map[date.Date]tracker.Money
}

func (p *fakePrices) Latest(context.Context) (tracker.Quote, error) { return p.quote, nil }

func (p *fakePrices) On(_ context.Context, d date.Date) (tracker.Money, error) {
	price, ok := p.history[d]
	if !ok {
		return tracker.Money{}, tracker.ErrNoPrice
	}
	return price, nil
}

func newFakes() (*fakeLedger, *fakePrices) {
	ledger := &fakeLedger{
		purchases: []tracker.Purchase{{
			ID:     "p1",
			Date:   date.New(2024, time.January, 10),
			Price:  tracker.M(40000),
			Amount: tracker.Q(0.025),
			Spent:  tracker.M(1000),
		}},
		settings: tracker.DefaultSettings(),
	}
	prices := &fakePrices{
		quote:   tracker.Quote{Price: tracker.M(50000)},
		history: map[date.Date]tracker.Money{date.New(2023, time.December, 25): tracker.M(43000)},
	}
	return ledger, prices
}

func call(t *testing.T, lib Library, name string, args map[string]any) map[string]any {
	t.Helper()
	resp := lib(context.Background(), &genai.FunctionCall{ID: "call-1", Name: name, Args: args})
	require.NotNil(t, resp)
	assert.Equal(t, "call-1", resp.ID)
	assert.Equal(t, name, resp.Name)
	return resp.Response
}

func TestAccountantLibrary(t *testing.T) {
	ledger, prices := newFakes()
	lib := NewAccountant(ledger, prices, nil).Library

	t.Run("dashboard", func(t *testing.T) {
		out := call(t, lib, "dashboard", nil)
		require.NotContains(t, out, "error")
		assert.Contains(t, out["output"], "| Profit | +$250.00 |")
		assert.Contains(t, out["output"], "| ROI | +25.00% |")
	})
	t.Run("purchases", func(t *testing.T) {
		out := call(t, lib, "purchases", nil)
		assert.Contains(t, out["output"], "| 10/01/24 | $40,000.00 | 0.02500000 BTC | $1,000.00 | p1 |")
	})
	t.Run("price_on", func(t *testing.T) {
		out := call(t, lib, "price_on", map[string]any{"date": "25/12/2023"})
		assert.Equal(t, "1 BTC = $43,000.00 on Dec 25, 2023", out["output"])
	})
	t.Run("price_on unknown day", func(t *testing.T) {
		out := call(t, lib, "price_on", map[string]any{"date": "24/12/2023"})
		assert.Contains(t, out["error"], "no price")
	})
	t.Run("price_on bad date", func(t *testing.T) {
		out := call(t, lib, "price_on", map[string]any{"date": "2023-12-25"})
		assert.Contains(t, out["error"], "DD/MM/YYYY")
	})
	t.Run("price_on wrong type", func(t *testing.T) {
		out := call(t, lib, "price_on", map[string]any{"date": 20231225})
		assert.Contains(t, out["error"], "not a string")
	})
	t.Run("topic", func(t *testing.T) {
		out := call(t, lib, "topic", map[string]any{"topic": "numbers"})
		assert.Contains(t, out["output"], "# Numbers")
	})
	t.Run("unknown", func(t *testing.T) {
		out := call(t, lib, "nope", nil)
		assert.Equal(t, "unknown function nope", out["error"])
	})
}

func TestDashboardFunc_LedgerError(t *testing.T) {
	ledger, prices := newFakes()
	ledger.err = errors.New("disk on fire")
	resp := DashboardFunc(ledger, prices).Call(context.Background(), "x", nil)
	assert.Contains(t, resp.Response["error"], "disk on fire")
}

func TestExpertCall_MissingQuestion(t *testing.T) {
	resp := NewTrader().Call(context.Background(), "x", map[string]any{})
	assert.Equal(t, "Trader", resp.Name)
	assert.Contains(t, resp.Response["error"], "question")
}

func TestFacilitator(t *testing.T) {
	ledger, prices := newFakes()
	experts := []*Expert{NewAccountant(ledger, prices, nil), NewTrader()}
	a := New(nil, nil, experts...)

	decls := a.Facilitator.Config.Tools[0].FunctionDeclarations
	require.Len(t, decls, 2)
	assert.Equal(t, "Accountant", decls[0].Name)
	assert.Equal(t, []string{"question"}, decls[0].Parameters.Required)
	assert.Equal(t, "Trader", decls[1].Name)
}

func TestExpertAsk_NotStarted(t *testing.T) {
	e := NewExpert("idle", "never started")
	_, err := e.Ask(context.Background(), &genai.Part{Text: "hello"})
	assert.ErrorContains(t, err, "not started")
}

func TestText(t *testing.T) {
	content := &genai.Content{Parts: []*genai.Part{
		{Text: "Profit is "},
		{FunctionCall: &genai.FunctionCall{Name: "dashboard"}},
		{Text: "+$250.00."},
	}}
	assert.Equal(t, "Profit is +$250.00.", text(content))
}
