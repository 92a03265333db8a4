package customer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SessionDiscardsWritesOnError(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Session(ctx, func(s Session) error {
		require.NoError(t, s.Store(ctx, Customer{ID: "a", Name: "Acme"}))
		got, err := s.Load(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "Acme", got.Name)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = store.Session(ctx, func(s Session) error {
		_, err := s.Load(ctx, "a")
		return err
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_FindByIDOrNamePrefersNameCollision(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Session(ctx, func(s Session) error {
		if err := s.Store(ctx, Customer{ID: "a", Name: "Acme"}); err != nil {
			return err
		}
		return s.Store(ctx, Customer{ID: "b", Name: "Beta"})
	}))

	require.NoError(t, store.Session(ctx, func(s Session) error {
		got, err := s.FindByIDOrName(ctx, "b", "Acme")
		require.NoError(t, err)
		assert.Equal(t, "a", got.ID)

		got, err = s.FindByIDOrName(ctx, "b", "Beta")
		require.NoError(t, err)
		assert.Equal(t, "b", got.ID)

		_, err = s.FindByIDOrName(ctx, "", "Gamma")
		assert.ErrorIs(t, err, ErrNotFound)
		return nil
	}))
}

func TestMemoryStore_DeleteWithinSession(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Session(ctx, func(s Session) error {
		return s.Store(ctx, Customer{ID: "a", Name: "Acme"})
	}))

	require.NoError(t, store.Session(ctx, func(s Session) error {
		existed, err := s.Delete(ctx, "a")
		require.NoError(t, err)
		assert.True(t, existed)

		all, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
		return nil
	}))

	assert.Empty(t, store.docs)
}
