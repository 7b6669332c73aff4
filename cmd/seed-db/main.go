// Command seed-db loads a JSON fixture of businesses, customers, and
// products into the database. Existing rows with the same IDs are updated,
// so the command is safe to re-run.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/sanusihq/commerce/db"
	"github.com/sanusihq/commerce/internal/repository"
)

type fixture struct {
	Businesses []businessFixture `json:"businesses"`
}

type businessFixture struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Customers []customerFixture `json:"customers"`
	Products  []productFixture  `json:"products"`
}

type customerFixture struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Platform    string `json:"platform"`
}

type productFixture struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Price          string   `json:"price"`
	QuantityOnHand int      `json:"quantity_on_hand"`
	Active         *bool    `json:"active"`
	Tags           []string `json:"tags"`
}

const (
	upsertBusinessSQL = `
		INSERT INTO businesses (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`

	upsertCustomerSQL = `
		INSERT INTO customers (id, business_id, name, email, phone_number, platform)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone_number = EXCLUDED.phone_number,
			platform = EXCLUDED.platform`

	upsertProductSQL = `
		INSERT INTO products (id, business_id, name, description, price, quantity_on_hand, active, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			quantity_on_hand = EXCLUDED.quantity_on_hand,
			active = EXCLUDED.active,
			tags = EXCLUDED.tags,
			updated_at = now()`
)

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
		fixturePath = flag.String("fixture", "", "Path to fixture JSON (default: embedded development fixture)")
	)
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, *databaseURL, *fixturePath); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, databaseURL, fixturePath string) error {
	if databaseURL == "" {
		return errors.New("database URL is required: pass -database-url or set DATABASE_URL")
	}

	raw := db.SeedFixture
	if fixturePath != "" {
		var err error
		if raw, err = os.ReadFile(fixturePath); err != nil {
			return errors.Wrap(err, "read fixture")
		}
	}

	var f fixture
	if err := json.Unmarshal(raw, &f); err != nil {
		return errors.Wrap(err, "parse fixture")
	}

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Businesses are independent of each other, so seed them concurrently.
	g, ctx := errgroup.WithContext(ctx)
	for _, b := range f.Businesses {
		g.Go(func() error {
			if err := seedBusiness(ctx, pool, b); err != nil {
				return errors.Wrapf(err, "business %s", b.ID)
			}
			slog.Info("seeded business", "id", b.ID,
				"customers", len(b.Customers), "products", len(b.Products))
			return nil
		})
	}
	return g.Wait()
}

func seedBusiness(ctx context.Context, q repository.Querier, b businessFixture) error {
	if _, err := q.Exec(ctx, upsertBusinessSQL, b.ID, b.Name); err != nil {
		return errors.Wrap(err, "upsert business")
	}

	for _, c := range b.Customers {
		if _, err := q.Exec(ctx, upsertCustomerSQL,
			c.ID, b.ID, c.Name, c.Email, c.PhoneNumber, c.Platform,
		); err != nil {
			return errors.Wrapf(err, "upsert customer %s", c.ID)
		}
	}

	for _, p := range b.Products {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return errors.Wrapf(err, "product %s: price %q", p.ID, p.Price)
		}
		active := true
		if p.Active != nil {
			active = *p.Active
		}
		tags := p.Tags
		if tags == nil {
			tags = []string{}
		}
		if _, err := q.Exec(ctx, upsertProductSQL,
			p.ID, b.ID, p.Name, p.Description, price, p.QuantityOnHand, active, tags,
		); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}
	}
	return nil
}
