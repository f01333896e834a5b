// Package store persists the purchases and settings of a tracker.
//
// Two stores are available: File, a JSONL ledger file, and Postgres.
package store

import (
	"context"
	"errors"

	tracker "github.com/matias9477/btc-investment-tracker"
	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned when no purchase has the requested ID.
var ErrNotFound = tracker.ErrPurchaseNotFound

// Store is the storage of a single user's purchases and settings.
type Store interface {
	// Purchases returns every purchase, the most recent first.
	Purchases(ctx context.Context) ([]tracker.Purchase, error)
	// Purchase returns the purchase with this id, or ErrNotFound.
	Purchase(ctx context.Context, id string) (tracker.Purchase, error)
	// AddPurchase validates and stores p, and returns it with its ID and creation time.
	AddPurchase(ctx context.Context, p tracker.Purchase) (tracker.Purchase, error)
	// UpdatePurchase replaces the date and amounts of the purchase with p's ID.
	UpdatePurchase(ctx context.Context, p tracker.Purchase) error
	// DeletePurchase removes the purchase with this id.
	DeletePurchase(ctx context.Context, id string) error
	// Settings returns the settings, creating the default ones on first use.
	Settings(ctx context.Context) (tracker.Settings, error)
	// UpdateSettings validates and replaces the settings.
	UpdateSettings(ctx context.Context, s tracker.Settings) error
	Close() error
}

// Open returns the Postgres store when databaseURL is set, the File store at ledgerFile otherwise.
func Open(ctx context.Context, ledgerFile, databaseURL string, log logrus.FieldLogger) (Store, error) {
	if databaseURL != "" {
		return NewPostgres(ctx, databaseURL, log)
	}
	if ledgerFile == "" {
		return nil, errors.New("no storage: set a ledger file or a database url")
	}
	return NewFile(ledgerFile, log), nil
}
