package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	tracker "github.com/matias9477/btc-investment-tracker"
	"github.com/sirupsen/logrus"
)

// File stores the ledger in a JSONL file.
//
// The file is read on every call and rewritten atomically on every change,
// so that it can be edited by hand between two commands.
type File struct {
	path string
	log  logrus.FieldLogger
	mu   sync.Mutex
}

var _ Store = (*File)(nil)

// NewFile returns a store for the ledger file at path. The file is created on first change.
func NewFile(path string, log logrus.FieldLogger) *File {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &File{path: path, log: log.WithField("ledger", path)}
}

// load decodes the ledger file, a missing file is an empty ledger.
func (f *File) load() (*tracker.Ledger, error) {
	r, err := os.Open(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return tracker.NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger: %w", err)
	}
	defer r.Close()
	ledger, err := tracker.DecodeLedger(r)
	if err != nil {
		return nil, fmt.Errorf("cannot decode ledger %q: %w", f.path, err)
	}
	return ledger, nil
}

// save writes the ledger to a temporary file and renames it over the ledger file.
func (f *File) save(ledger *tracker.Ledger) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("cannot save ledger: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after the rename

	if err := tracker.EncodeLedger(tmp, ledger); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot encode ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot save ledger: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("cannot save ledger: %w", err)
	}
	f.log.Debug("ledger saved")
	return nil
}

// view runs fn on the current ledger.
func (f *File) view(fn func(*tracker.Ledger) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ledger, err := f.load()
	if err != nil {
		return err
	}
	return fn(ledger)
}

// update runs fn on the current ledger and saves it if fn succeeds.
func (f *File) update(fn func(*tracker.Ledger) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ledger, err := f.load()
	if err != nil {
		return err
	}
	if err := fn(ledger); err != nil {
		return err
	}
	return f.save(ledger)
}

func (f *File) Purchases(ctx context.Context) (list []tracker.Purchase, err error) {
	err = f.view(func(l *tracker.Ledger) error {
		list = l.Purchases()
		return nil
	})
	return list, err
}

func (f *File) Purchase(ctx context.Context, id string) (p tracker.Purchase, err error) {
	err = f.view(func(l *tracker.Ledger) error {
		var ok bool
		if p, ok = l.Get(id); !ok {
			return fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		return nil
	})
	return p, err
}

func (f *File) AddPurchase(ctx context.Context, p tracker.Purchase) (added tracker.Purchase, err error) {
	err = f.update(func(l *tracker.Ledger) error {
		added, err = l.Add(p)
		return err
	})
	if err == nil {
		f.log.WithField("id", added.ID).Info("purchase added")
	}
	return added, err
}

func (f *File) UpdatePurchase(ctx context.Context, p tracker.Purchase) error {
	return f.update(func(l *tracker.Ledger) error { return l.Update(p) })
}

func (f *File) DeletePurchase(ctx context.Context, id string) error {
	return f.update(func(l *tracker.Ledger) error { return l.Delete(id) })
}

// Settings returns the ledger settings. The ledger file is created with the
// default settings if it does not exist yet.
func (f *File) Settings(ctx context.Context) (s tracker.Settings, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ledger, err := f.load()
	if err != nil {
		return s, err
	}
	if _, err := os.Stat(f.path); errors.Is(err, fs.ErrNotExist) {
		if err := f.save(ledger); err != nil {
			return s, err
		}
	}
	return ledger.Settings(), nil
}

func (f *File) UpdateSettings(ctx context.Context, s tracker.Settings) error {
	return f.update(func(l *tracker.Ledger) error { return l.SetSettings(s) })
}

// Format rewrites the ledger file in its canonical form: settings first, then
// the purchases in chronological order.
func (f *File) Format(ctx context.Context) error {
	return f.update(func(*tracker.Ledger) error { return nil })
}

// Close does nothing, the file is not kept open.
func (f *File) Close() error { return nil }
