package customer

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("customer not found")

// DefaultStalenessWait bounds how long a duplicate check waits for the
// collection to reflect recent writes.
const DefaultStalenessWait = 5 * time.Second

// Store is the customer document collection. Every operation runs inside a
// Session which is committed when fn returns nil and discarded otherwise.
type Store interface {
	Session(ctx context.Context, fn func(Session) error) error
	Ping(ctx context.Context) error
}

// Session is a unit of work against the collection.
type Session interface {
	// List returns every customer ordered by name.
	List(ctx context.Context) ([]Customer, error)
	// Load returns the customer stored under id, or ErrNotFound.
	Load(ctx context.Context, id string) (Customer, error)
	// FindByIDOrName returns a customer whose ID equals id or whose Name
	// equals name, or ErrNotFound. A record that would collide on name is
	// preferred over the record sharing the ID.
	FindByIDOrName(ctx context.Context, id, name string) (Customer, error)
	// Store upserts c by ID.
	Store(ctx context.Context, c Customer) error
	// Delete removes the record and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
}
