package wishlist_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aurastore_back_end/internal/apperr"
	"aurastore_back_end/internal/docstore"
	"aurastore_back_end/internal/wishlist"
)

func TestToggleAlternates(t *testing.T) {
	s := wishlist.NewService(docstore.NewMemory())
	ctx := context.Background()

	// Premier toggle crée le document et ajoute.
	present, err := s.Toggle(ctx, "alice", "p1")
	require.NoError(t, err)
	assert.True(t, present)

	// Second toggle retire.
	present, err = s.Toggle(ctx, "alice", "p1")
	require.NoError(t, err)
	assert.False(t, present)

	// Troisième toggle rajoute.
	present, err = s.Toggle(ctx, "alice", "p1")
	require.NoError(t, err)
	assert.True(t, present)
}

func TestToggleConcurrentKeepsParity(t *testing.T) {
	s := wishlist.NewService(docstore.NewMemory())
	ctx := context.Background()
	const toggles = 31 // impair : l'état final doit être « présent »

	// Chaque toggle est une différence symétrique atomique côté store :
	// aucun ne peut en écraser un autre, la parité est donc exacte.
	var wg sync.WaitGroup
	errs := make(chan error, toggles)
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Toggle(ctx, "alice", "p1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	present, err := s.Contains(ctx, "alice", "p1")
	require.NoError(t, err)
	assert.True(t, present)
}

func TestToggleKeepsOtherProducts(t *testing.T) {
	s := wishlist.NewService(docstore.NewMemory())
	ctx := context.Background()

	_, err := s.Toggle(ctx, "alice", "p1")
	require.NoError(t, err)
	_, err = s.Toggle(ctx, "alice", "p2")
	require.NoError(t, err)
	_, err = s.Toggle(ctx, "alice", "p1")
	require.NoError(t, err)

	ids, err := s.List(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, ids)
}

func TestContainsMissingWishlist(t *testing.T) {
	s := wishlist.NewService(docstore.NewMemory())

	present, err := s.Contains(context.Background(), "alice", "p1")
	require.NoError(t, err)
	assert.False(t, present)
}

func TestListMissingWishlist(t *testing.T) {
	s := wishlist.NewService(docstore.NewMemory())

	ids, err := s.List(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestWishlistRequiresUser(t *testing.T) {
	s := wishlist.NewService(docstore.NewMemory())
	ctx := context.Background()

	_, err := s.Toggle(ctx, "", "p1")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = s.Contains(ctx, "", "p1")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestToggleIsolatedPerUser(t *testing.T) {
	s := wishlist.NewService(docstore.NewMemory())
	ctx := context.Background()

	_, err := s.Toggle(ctx, "alice", "p1")
	require.NoError(t, err)

	present, err := s.Contains(ctx, "bob", "p1")
	require.NoError(t, err)
	assert.False(t, present)
}
