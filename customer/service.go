package customer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Service implements the customer operations on top of a Store.
type Service struct {
	store Store
	now   func() time.Time
	newID func() string
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.NewString() },
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) List(ctx context.Context) ([]Customer, error) {
	var customers []Customer
	err := s.store.Session(ctx, func(sess Session) error {
		var err error
		customers, err = sess.List(ctx)
		return err
	})
	return customers, err
}

func (s *Service) Get(ctx context.Context, id string) (Customer, error) {
	var c Customer
	err := s.store.Session(ctx, func(sess Session) error {
		var err error
		c, err = sess.Load(ctx, id)
		return err
	})
	return c, err
}

// Post adds or updates a customer with duplicate detection. A duplicate name
// leaves the collection untouched. Store faults are returned as errors.
func (s *Service) Post(ctx context.Context, candidate *Customer) (Outcome, error) {
	if candidate == nil {
		return InvalidInput, nil
	}
	if err := validate.Struct(candidate); err != nil {
		return InvalidInput, nil
	}

	var outcome Outcome
	err := s.store.Session(ctx, func(sess Session) error {
		var match *Customer
		found, err := sess.FindByIDOrName(ctx, candidate.ID, candidate.Name)
		switch {
		case err == nil:
			match = &found
		case !errors.Is(err, ErrNotFound):
			return err
		}

		switch Decide(*candidate, match) {
		case Insert:
			now := s.now()
			outcome = Created
			return sess.Store(ctx, Customer{
				ID:      s.newID(),
				Created: now,
				Updated: now,
				Name:    candidate.Name,
				Address: candidate.Address,
			})
		case Reject:
			outcome = RejectedDuplicate
			return nil
		}

		existing, err := sess.Load(ctx, candidate.ID)
		if errors.Is(err, ErrNotFound) {
			outcome = NotFound
			return nil
		}
		if err != nil {
			return err
		}
		existing.Name = candidate.Name
		existing.Address = candidate.Address
		existing.Updated = s.now()
		if !existing.Updated.After(existing.Created) {
			existing.Updated = existing.Created.Add(time.Nanosecond)
		}
		outcome = Updated
		return sess.Store(ctx, existing)
	})
	if err != nil {
		return 0, err
	}
	return outcome, nil
}

// Delete removes a customer. Removing an unknown id succeeds; only a store
// fault yields DeleteFailed, alongside the fault itself.
func (s *Service) Delete(ctx context.Context, id string) (Outcome, bool, error) {
	var existed bool
	err := s.store.Session(ctx, func(sess Session) error {
		var err error
		existed, err = sess.Delete(ctx, id)
		return err
	})
	if err != nil {
		return DeleteFailed, false, err
	}
	return Deleted, existed, nil
}
