package renderer

import tracker "github.com/matias9477/btc-investment-tracker"

// PurchaseRow is one purchase formatted for display.
type PurchaseRow struct {
	ID     string
	Date   string // DD/MM/YY
	Price  string
	Amount string
	Spent  string
}

// Purchases is the view of a purchase list, in the order given.
type Purchases struct {
	Rows        []PurchaseRow
	TotalSpent  string
	TotalAmount string
}

// NewPurchases formats purchases in the order given.
func NewPurchases(purchases []tracker.Purchase) *Purchases {
	var spent tracker.Money
	var amount tracker.Quantity
	p := &Purchases{Rows: make([]PurchaseRow, 0, len(purchases))}
	for _, x := range purchases {
		p.Rows = append(p.Rows, PurchaseRow{
			ID:     x.ID,
			Date:   x.Date.Short(),
			Price:  x.Price.String(),
			Amount: x.Amount.BTC(),
			Spent:  x.Spent.String(),
		})
		spent = spent.Add(x.Spent)
		amount = amount.Add(x.Amount)
	}
	p.TotalSpent = spent.String()
	p.TotalAmount = amount.BTC()
	return p
}
