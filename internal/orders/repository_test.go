package orders_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aurastore_back_end/internal/apperr"
	"aurastore_back_end/internal/docstore"
	"aurastore_back_end/internal/models"
	"aurastore_back_end/internal/orders"
)

func order(id, userID string, createdAt time.Time) models.Order {
	return models.Order{
		ID:     id,
		UserID: userID,
		Lines: []models.CartLine{{
			ProductID: "p1",
			UnitPrice: decimal.RequireFromString("10.00"),
			Quantity:  1,
		}},
		TotalAmount:     decimal.RequireFromString("10.00"),
		Status:          models.StatusPending,
		CreatedAt:       createdAt,
		TrackingHistory: []string{"Order Placed"},
	}
}

func TestCreateAndGet(t *testing.T) {
	r := orders.NewRepository(docstore.NewMemory())
	ctx := context.Background()

	created := order("o1", "alice", time.Now().UTC())
	require.NoError(t, r.Create(ctx, created))

	got, err := r.GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserID)
	assert.True(t, got.TotalAmount.Equal(created.TotalAmount))
	assert.Equal(t, []string{"Order Placed"}, got.TrackingHistory)
}

func TestCreateRejectsDuplicate(t *testing.T) {
	r := orders.NewRepository(docstore.NewMemory())
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, order("o1", "alice", time.Now().UTC())))
	assert.Error(t, r.Create(ctx, order("o1", "alice", time.Now().UTC())))
}

func TestGetMissingOrder(t *testing.T) {
	r := orders.NewRepository(docstore.NewMemory())
	_, err := r.GetByID(context.Background(), "inconnu")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListByUserFiltersAndSorts(t *testing.T) {
	r := orders.NewRepository(docstore.NewMemory())
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, r.Create(ctx, order("vieille", "alice", now.Add(-time.Hour))))
	require.NoError(t, r.Create(ctx, order("recente", "alice", now)))
	require.NoError(t, r.Create(ctx, order("autre", "bob", now)))

	list, err := r.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "recente", list[0].ID, "la plus récente d'abord")
	assert.Equal(t, "vieille", list[1].ID)
}

func TestListByUserRequiresUser(t *testing.T) {
	r := orders.NewRepository(docstore.NewMemory())
	_, err := r.ListByUser(context.Background(), "")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestUpdateStatusFollowsLifecycle(t *testing.T) {
	r := orders.NewRepository(docstore.NewMemory())
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, order("o1", "alice", time.Now().UTC())))

	require.NoError(t, r.UpdateStatus(ctx, "o1", models.StatusConfirmed))
	require.NoError(t, r.UpdateStatus(ctx, "o1", models.StatusShipped))

	got, err := r.GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, got.Status)
	assert.Equal(t, []string{"Order Placed", "Confirmed", "Shipped"}, got.TrackingHistory)
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	r := orders.NewRepository(docstore.NewMemory())
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, order("o1", "alice", time.Now().UTC())))

	// Pending → Delivered saute des étapes.
	err := r.UpdateStatus(ctx, "o1", models.StatusDelivered)
	assert.Error(t, err)

	// Le statut et l'historique n'ont pas bougé.
	got, err := r.GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, []string{"Order Placed"}, got.TrackingHistory)
}

func TestUpdateStatusMissingOrder(t *testing.T) {
	r := orders.NewRepository(docstore.NewMemory())
	err := r.UpdateStatus(context.Background(), "inconnu", models.StatusConfirmed)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
