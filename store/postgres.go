package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	tracker "github.com/matias9477/btc-investment-tracker"
	"github.com/matias9477/btc-investment-tracker/date"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Postgres stores the ledger in a PostgreSQL database, see Migrate for the schema.
type Postgres struct {
	pool *pgxpool.Pool
	log  logrus.FieldLogger
}

var _ Store = (*Postgres)(nil)

// NewPostgres connects to the database at databaseURL.
func NewPostgres(ctx context.Context, databaseURL string, log logrus.FieldLogger) (*Postgres, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	config.ConnConfig.RuntimeParams["timezone"] = "UTC"

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Postgres{pool: pool, log: log.WithField("store", "postgres")}, nil
}

// Close closes the connection pool.
func (s *Postgres) Close() error {
	s.pool.Close()
	return nil
}

// numerics are read as text to keep every digit.
const purchaseColumns = `id::text, purchase_date, btc_price_at_purchase::text, btc_amount::text, usd_spent::text, created_at`

func scanPurchase(row pgx.Row) (tracker.Purchase, error) {
	var (
		p                    tracker.Purchase
		day                  time.Time
		price, amount, spent string
	)
	if err := row.Scan(&p.ID, &day, &price, &amount, &spent, &p.CreatedAt); err != nil {
		return p, err
	}
	p.Date = date.New(day.Date())
	var errs error
	for _, f := range []struct {
		text string
		set  func(decimal.Decimal)
	}{
		{price, func(d decimal.Decimal) { p.Price = tracker.M(d) }},
		{amount, func(d decimal.Decimal) { p.Amount = tracker.Q(d) }},
		{spent, func(d decimal.Decimal) { p.Spent = tracker.M(d) }},
	} {
		d, err := decimal.NewFromString(f.text)
		errs = errors.Join(errs, err)
		f.set(d)
	}
	return p, errs
}

func (s *Postgres) Purchases(ctx context.Context) ([]tracker.Purchase, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+purchaseColumns+` FROM purchases ORDER BY purchase_date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer rows.Close()

	list := make([]tracker.Purchase, 0)
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read purchases: %w", err)
	}
	return list, nil
}

func (s *Postgres) Purchase(ctx context.Context, id string) (tracker.Purchase, error) {
	if _, err := uuid.Parse(id); err != nil {
		return tracker.Purchase{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	p, err := scanPurchase(s.pool.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return p, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return p, fmt.Errorf("failed to get purchase %q: %w", id, err)
	}
	return p, nil
}

func (s *Postgres) AddPurchase(ctx context.Context, p tracker.Purchase) (tracker.Purchase, error) {
	if err := p.Validate(); err != nil {
		return tracker.Purchase{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO purchases (id, purchase_date, btc_price_at_purchase, btc_amount, usd_spent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Date.StorageFormat(), p.Price.Decimal().String(), p.Amount.String(), p.Spent.Decimal().String(), p.CreatedAt)
	if err != nil {
		return tracker.Purchase{}, fmt.Errorf("failed to insert purchase: %w", err)
	}
	s.log.WithField("id", p.ID).Info("purchase added")
	return p, nil
}

func (s *Postgres) UpdatePurchase(ctx context.Context, p tracker.Purchase) error {
	if _, err := uuid.Parse(p.ID); err != nil {
		return fmt.Errorf("%w: %q", ErrNotFound, p.ID)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE purchases
		SET purchase_date = $2, btc_price_at_purchase = $3, btc_amount = $4, usd_spent = $5
		WHERE id = $1`,
		p.ID, p.Date.StorageFormat(), p.Price.Decimal().String(), p.Amount.String(), p.Spent.Decimal().String())
	if err != nil {
		return fmt.Errorf("failed to update purchase %q: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, p.ID)
	}
	return nil
}

func (s *Postgres) DeletePurchase(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete purchase %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return nil
}

// Settings returns the settings row, inserting the default one when missing.
func (s *Postgres) Settings(ctx context.Context) (tracker.Settings, error) {
	if _, err := s.pool.Exec(ctx, `INSERT INTO user_settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING`); err != nil {
		return tracker.Settings{}, fmt.Errorf("failed to create settings: %w", err)
	}

	var (
		settings      tracker.Settings
		rate, balance *string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT interest_enabled, annual_interest_rate::text, manual_btc_balance::text, manual_balance_updated_at, updated_at
		FROM user_settings WHERE id = 1`).
		Scan(&settings.InterestEnabled, &rate, &balance, &settings.ManualBalanceUpdatedAt, &settings.UpdatedAt)
	if err != nil {
		return tracker.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	if rate != nil {
		d, err := decimal.NewFromString(*rate)
		if err != nil {
			return tracker.Settings{}, fmt.Errorf("invalid annual interest rate %q: %w", *rate, err)
		}
		r := tracker.Percent(d.InexactFloat64())
		settings.AnnualInterestRate = &r
	}
	if balance != nil {
		d, err := decimal.NewFromString(*balance)
		if err != nil {
			return tracker.Settings{}, fmt.Errorf("invalid manual balance %q: %w", *balance, err)
		}
		q := tracker.Q(d)
		settings.ManualBalance = &q
	}
	return settings, nil
}

func (s *Postgres) UpdateSettings(ctx context.Context, settings tracker.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	var rate, balance *string
	if r := settings.AnnualInterestRate; r != nil {
		v := decimal.NewFromFloat(float64(*r)).String()
		rate = &v
	}
	if b := settings.ManualBalance; b != nil {
		v := b.String()
		balance = &v
	}
	updated := settings.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_settings (id, interest_enabled, annual_interest_rate, manual_btc_balance, manual_balance_updated_at, updated_at)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			interest_enabled = EXCLUDED.interest_enabled,
			annual_interest_rate = EXCLUDED.annual_interest_rate,
			manual_btc_balance = EXCLUDED.manual_btc_balance,
			manual_balance_updated_at = EXCLUDED.manual_balance_updated_at,
			updated_at = EXCLUDED.updated_at`,
		settings.InterestEnabled, rate, balance, settings.ManualBalanceUpdatedAt, updated)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}
