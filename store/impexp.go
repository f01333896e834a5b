package store

import (
	"context"
	"fmt"
	"io"

	tracker "github.com/matias9477/btc-investment-tracker"
)

// this file moves ledgers between stores in the JSONL ledger format, the file store format.

// Export writes the purchases and the settings of src to w in the JSONL ledger format.
func Export(ctx context.Context, src Store, w io.Writer) error {
	purchases, err := src.Purchases(ctx)
	if err != nil {
		return err
	}
	settings, err := src.Settings(ctx)
	if err != nil {
		return err
	}

	ledger := tracker.NewLedger()
	for _, p := range purchases {
		if _, err := ledger.Add(p); err != nil {
			return fmt.Errorf("cannot export purchase %q: %w", p.ID, err)
		}
	}
	if err := ledger.SetSettings(settings); err != nil {
		return fmt.Errorf("cannot export settings: %w", err)
	}
	return tracker.EncodeLedger(w, ledger)
}

// Import adds the purchases read from r in the JSONL ledger format to dst,
// and replaces its settings when r has some. It returns the number of purchases added.
//
// Purchases keep their identifier, importing the same ledger twice fails on the first duplicate.
func Import(ctx context.Context, dst Store, r io.Reader) (int, error) {
	ledger, err := tracker.DecodeLedger(r)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, p := range ledger.Purchases() {
		if _, err := dst.AddPurchase(ctx, p); err != nil {
			return n, fmt.Errorf("cannot import purchase %q of %v: %w", p.ID, p.Date, err)
		}
		n++
	}
	if s := ledger.Settings(); hasSettings(s) {
		if err := dst.UpdateSettings(ctx, s); err != nil {
			return n, fmt.Errorf("cannot import settings: %w", err)
		}
	}
	return n, nil
}

// hasSettings reports whether s differs from the default settings.
func hasSettings(s tracker.Settings) bool {
	return s.InterestEnabled || s.AnnualInterestRate != nil || s.ManualBalance != nil || !s.UpdatedAt.IsZero()
}
