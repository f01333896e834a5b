package tracker

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// ErrPurchaseNotFound is returned when no purchase has the requested ID.
var ErrPurchaseNotFound = errors.New("purchase not found")

// Ledger represents the purchases of a user and their settings.
//
// A Ledger is not safe for concurrent use, stores serialize access to it.
type Ledger struct {
	purchases []Purchase
	settings  Settings
}

// NewLedger creates an empty ledger with default settings.
func NewLedger() *Ledger {
	return &Ledger{
		purchases: make([]Purchase, 0),
		settings:  DefaultSettings(),
	}
}

// Add validates p and appends it to the ledger.
//
// A purchase without ID gets a new random one, a purchase without creation
// time is stamped now. The stored purchase is returned.
func (l *Ledger) Add(p Purchase) (Purchase, error) {
	if err := p.Validate(); err != nil {
		return Purchase{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if l.index(p.ID) >= 0 {
		return Purchase{}, fmt.Errorf("duplicate purchase id %q", p.ID)
	}
	l.purchases = append(l.purchases, p)
	return p, nil
}

// Update replaces the date and amounts of the purchase with the same ID.
// The creation time is kept.
func (l *Ledger) Update(p Purchase) error {
	i := l.index(p.ID)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrPurchaseNotFound, p.ID)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	p.CreatedAt = l.purchases[i].CreatedAt
	l.purchases[i] = p
	return nil
}

// Delete removes the purchase with this ID.
func (l *Ledger) Delete(id string) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrPurchaseNotFound, id)
	}
	l.purchases = slices.Delete(l.purchases, i, i+1)
	return nil
}

// Get returns the purchase with this ID.
func (l *Ledger) Get(id string) (Purchase, bool) {
	i := l.index(id)
	if i < 0 {
		return Purchase{}, false
	}
	return l.purchases[i], true
}

// Len returns the number of purchases.
func (l *Ledger) Len() int { return len(l.purchases) }

// Purchases returns a copy of the purchases, the most recent first.
// Purchases on the same day are ordered by creation time, the most recent first.
func (l *Ledger) Purchases() []Purchase {
	list := slices.Clone(l.purchases)
	SortByDate(list)
	return list
}

// chronological returns a copy of the purchases, the oldest first.
func (l *Ledger) chronological() []Purchase {
	list := l.Purchases()
	slices.Reverse(list)
	return list
}

// Settings returns the ledger settings.
func (l *Ledger) Settings() Settings { return l.settings }

// SetSettings validates and replaces the ledger settings.
func (l *Ledger) SetSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	l.settings = s
	return nil
}

// Metrics computes the dashboard of the ledger at price.
func (l *Ledger) Metrics(price Money) Metrics {
	s := l.settings
	return ComputeMetrics(l.purchases, &s, price)
}

func (l *Ledger) index(id string) int {
	return slices.IndexFunc(l.purchases, func(p Purchase) bool { return p.ID == id })
}

// SortByDate sorts purchases in place the way Ledger.Purchases does.
func SortByDate(purchases []Purchase) {
	slices.SortStableFunc(purchases, func(a, b Purchase) int {
		switch {
		case a.Date.After(b.Date):
			return -1
		case a.Date.Before(b.Date):
			return 1
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
