package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
)

// Repository stores customers as JSON documents in a Postgres table keyed by
// id.
type Repository struct {
	db            *sqlx.DB
	stalenessWait time.Duration
}

func NewRepository(db *sqlx.DB, stalenessWait time.Duration) *Repository {
	if stalenessWait <= 0 {
		stalenessWait = DefaultStalenessWait
	}
	return &Repository{
		db:            db,
		stalenessWait: stalenessWait,
	}
}

// EnsureCollection creates the customers collection when it does not exist
// yet, so the same call attaches to an existing database or bootstraps a
// fresh one.
func (r *Repository) EnsureCollection(ctx context.Context) error {
	for _, q := range ensureCollectionQueries {
		if _, err := r.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure customers collection: %w", err)
		}
	}
	return nil
}

var ensureCollectionQueries = []string{
	`CREATE TABLE IF NOT EXISTS customers (id text PRIMARY KEY, data jsonb NOT NULL)`,
	`CREATE INDEX IF NOT EXISTS customers_name_idx ON customers ((data->>'name'))`,
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) Session(ctx context.Context, fn func(Session) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&sqlSession{tx: tx, stalenessWait: r.stalenessWait}); err != nil {
		return err
	}
	return tx.Commit()
}

type sqlSession struct {
	tx            *sqlx.Tx
	stalenessWait time.Duration
}

type document struct {
	ID   string `db:"id"`
	Data []byte `db:"data"`
}

func (d document) decode() (Customer, error) {
	var c Customer
	if err := json.Unmarshal(d.Data, &c); err != nil {
		return Customer{}, fmt.Errorf("decode customer %s: %w", d.ID, err)
	}
	c.ID = d.ID
	return c, nil
}

func (s *sqlSession) List(ctx context.Context) ([]Customer, error) {
	var docs []document
	if err := s.tx.SelectContext(ctx, &docs, listQuery); err != nil {
		return nil, err
	}

	customers := make([]Customer, 0, len(docs))
	for _, d := range docs {
		c, err := d.decode()
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, nil
}

const listQuery = `SELECT id, data FROM customers ORDER BY data->>'name' COLLATE "C", id`

func (s *sqlSession) Load(ctx context.Context, id string) (Customer, error) {
	var d document
	err := s.tx.GetContext(ctx, &d, loadQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Customer{}, ErrNotFound
	}
	if err != nil {
		return Customer{}, err
	}
	return d.decode()
}

const loadQuery = `SELECT id, data FROM customers WHERE id = $1`

func (s *sqlSession) FindByIDOrName(ctx context.Context, id, name string) (Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.stalenessWait)
	defer cancel()

	var d document
	err := s.tx.GetContext(ctx, &d, findByIDOrNameQuery, id, name)
	if errors.Is(err, sql.ErrNoRows) {
		return Customer{}, ErrNotFound
	}
	if err != nil {
		return Customer{}, err
	}
	return d.decode()
}

const findByIDOrNameQuery = `
SELECT id, data FROM customers
WHERE id = $1 OR data->>'name' = $2
ORDER BY (id <> $1 AND data->>'name' = $2) DESC
LIMIT 1
`

func (s *sqlSession) Store(ctx context.Context, c Customer) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	_, err = s.tx.ExecContext(ctx, storeQuery, c.ID, string(data))
	return err
}

const storeQuery = `
INSERT INTO customers (id, data) VALUES ($1, $2::jsonb)
ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data
`

func (s *sqlSession) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.tx.ExecContext(ctx, deleteQuery, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

const deleteQuery = `DELETE FROM customers WHERE id = $1`
