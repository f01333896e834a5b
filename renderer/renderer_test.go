package renderer

import (
	"strings"
	"testing"
	"time"

	tracker "github.com/matias9477/btc-investment-tracker"
	"github.com/matias9477/btc-investment-tracker/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// document is what a rendered markdown reads as: its headings and its table rows.
type document struct {
	headings []string
	rows     [][]string
}

func parse(t *testing.T, md string) document {
	t.Helper()
	src := []byte(md)
	root := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(src))

	var doc document
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindHeading:
			doc.headings = append(doc.headings, textOf(n, src))
			return ast.WalkSkipChildren, nil
		case east.KindTableHeader, east.KindTableRow:
			var row []string
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				row = append(row, textOf(c, src))
			}
			doc.rows = append(doc.rows, row)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	return doc
}

func textOf(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(src))
			if c.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(c.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// values maps the first cell of two column rows to the second one.
func (d document) values() map[string]string {
	m := map[string]string{}
	for _, r := range d.rows {
		if len(r) == 2 {
			m[r[0]] = r[1]
		}
	}
	return m
}

func purchase(on string, price, amount, spent float64) tracker.Purchase {
	return tracker.Purchase{
		ID:     "id-" + on,
		Date:   date.MustParse(on),
		Price:  tracker.M(price),
		Amount: tracker.Q(amount),
		Spent:  tracker.M(spent),
	}
}

func ptr[T any](v T) *T { return &v }

func TestRenderDashboard(t *testing.T) {
	purchases := []tracker.Purchase{purchase("2024-01-10", 40000, 0.025, 1000)}
	change := tracker.Percent(2.5)
	quote := tracker.Quote{
		Price:     tracker.M(50000),
		Change24h: &change,
		FetchedAt: time.Date(2024, time.June, 1, 12, 30, 0, 0, time.UTC),
	}
	settings := tracker.DefaultSettings()
	m := tracker.ComputeMetrics(purchases, &settings, quote.Price)

	md := RenderDashboard(NewDashboard(m, len(purchases), settings, quote))
	doc := parse(t, md)

	assert.Equal(t, []string{"Bitcoin Investment", "Price", "Purchases"}, doc.headings)
	assert.Contains(t, md, "**1 BTC = $50,000.00** (▲ +2.50% 24h)")
	assert.Contains(t, md, "*as of Jun 1, 2024 12:30 UTC*")

	v := doc.values()
	assert.Equal(t, "1", v["Purchases"])
	assert.Equal(t, "$1,000.00", v["Total investment"])
	assert.Equal(t, "0.02500000 BTC", v["Total bought"])
	assert.Equal(t, "$40,000.00", v["Break-even price"])
	assert.Equal(t, "$1,250.00", v["Current value"])
	assert.Equal(t, "+$250.00", v["Profit"])
	assert.Equal(t, "+25.00%", v["ROI"])
}

func TestRenderDashboard_ManualBalance(t *testing.T) {
	purchases := []tracker.Purchase{purchase("2024-01-10", 40000, 0.025, 1000)}
	quote := tracker.Quote{Price: tracker.M(40000)}
	now := time.Date(2024, time.March, 5, 8, 0, 0, 0, time.UTC)
	rate := tracker.Percent(7)
	settings := tracker.DefaultSettings().
		WithInterest(true, now).
		WithInterestRate(&rate, now).
		WithManualBalance(ptr(tracker.Q(0.026)), now)
	m := tracker.ComputeMetrics(purchases, &settings, quote.Price)

	doc := parse(t, RenderDashboard(NewDashboard(m, len(purchases), settings, quote)))

	assert.Equal(t, []string{"Bitcoin Investment", "Price", "Purchases", "Actual balance", "Interest"}, doc.headings)
	v := doc.values()
	assert.Equal(t, "7.00%", v["Annual rate"])
	assert.Equal(t, "0.02600000 BTC", v["Manual balance"])
	assert.Equal(t, "Mar 5, 2024", v["Updated on"])
	assert.Equal(t, "0.00100000 BTC", v["Interest earned"])
	assert.Equal(t, "+$40.00", v["Interest value"])
}

func TestRenderDashboard_InterestWithoutBalance(t *testing.T) {
	settings := tracker.DefaultSettings().WithInterest(true, time.Now())
	m := tracker.ComputeMetrics(nil, &settings, tracker.M(30000))
	change := tracker.Percent(-1.25)

	md := RenderDashboard(NewDashboard(m, 0, settings, tracker.Quote{Price: tracker.M(30000), Change24h: &change}))
	doc := parse(t, md)

	assert.Equal(t, []string{"Bitcoin Investment", "Price", "Purchases", "Interest"}, doc.headings)
	assert.Contains(t, md, "(▼ -1.25% 24h)")
	assert.NotContains(t, md, "as of")
	v := doc.values()
	assert.Equal(t, "not set", v["Manual balance"])
	assert.Equal(t, "7.00%", v["Annual rate"])
	assert.Equal(t, "+0.00%", v["ROI"])
	assert.Equal(t, "$0.00", v["Break-even price"])
}

func TestRenderPurchases(t *testing.T) {
	purchases := []tracker.Purchase{
		purchase("2024-03-01", 60000, 0.0166, 1000),
		purchase("2023-12-25", 42000.5, 0.00645778, 271.23),
	}

	doc := parse(t, RenderPurchases(NewPurchases(purchases)))

	assert.Equal(t, []string{"Purchases"}, doc.headings)
	assert.Equal(t, [][]string{
		{"Date", "Price", "BTC", "USD", "ID"},
		{"01/03/24", "$60,000.00", "0.01660000 BTC", "$1,000.00", "id-2024-03-01"},
		{"25/12/23", "$42,000.50", "0.00645778 BTC", "$271.23", "id-2023-12-25"},
		{"Total", "", "0.02305778 BTC", "$1,271.23", ""},
	}, doc.rows)
}

func TestRenderPurchases_Empty(t *testing.T) {
	md := RenderPurchases(NewPurchases(nil))
	doc := parse(t, md)
	assert.Equal(t, []string{"Purchases"}, doc.headings)
	assert.Empty(t, doc.rows)
	assert.Contains(t, md, "No purchases yet")
}

func TestRenderTemplate_Errors(t *testing.T) {
	assert.Contains(t, renderTemplate("x", "missing.md", nil, nil), "error reading main template")
	assert.Contains(t, renderTemplate("purchases", "purchases.md", map[string]string{"purchases_table": "missing.md"}, nil), "error reading partial")
}

func TestRenderSettings(t *testing.T) {
	doc := parse(t, RenderSettings(NewSettings(tracker.DefaultSettings())))
	assert.Equal(t, []string{"Settings"}, doc.headings)
	v := doc.values()
	assert.Equal(t, "off", v["Interest tracking"])
	assert.Equal(t, "7.00%", v["Annual rate"])
	assert.Equal(t, "not set", v["Manual balance"])
	assert.NotContains(t, v, "Balance updated on")

	now := time.Date(2024, time.March, 5, 8, 0, 0, 0, time.UTC)
	s := tracker.DefaultSettings().WithInterest(true, now).WithManualBalance(ptr(tracker.Q(0.5)), now)
	v = parse(t, RenderSettings(NewSettings(s))).values()
	assert.Equal(t, "on", v["Interest tracking"])
	assert.Equal(t, "0.50000000 BTC", v["Manual balance"])
	assert.Equal(t, "Mar 5, 2024", v["Balance updated on"])
}
